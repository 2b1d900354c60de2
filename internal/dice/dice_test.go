package dice

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"
)

func TestRoll(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		result := Roll(rng, 2, 6)
		if result < 2 || result > 12 {
			t.Errorf("Roll(2, 6) = %d, expected 2-12", result)
		}
	}

	if got := Roll(rng, 0, 6); got != 0 {
		t.Errorf("Roll(0, 6) = %d, want 0", got)
	}
}

func TestMalformed(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"{2d6} gold pieces", nil},
		{"{1d4+1} bandits and {1d8-2} wolves", nil},
		{"plain text", nil},
		{"{2x6} gold", []string{"{2x6}"}},
		{"{d6} rats, {1d6} bats, { 2d4 } cats", []string{"{d6}", "{ 2d4 }"}},
		{"{}", []string{"{}"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Malformed(tt.text)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Malformed(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 50; i++ {
		out := Expand(rng, "{2d6} gold pieces and {1d4+1} gems")
		if strings.Contains(out, "{") {
			t.Fatalf("Expand left a token: %q", out)
		}
		fields := strings.Fields(out)
		gold, err := strconv.Atoi(fields[0])
		if err != nil || gold < 2 || gold > 12 {
			t.Fatalf("gold = %q, expected 2-12", fields[0])
		}
		gems, err := strconv.Atoi(fields[4])
		if err != nil || gems < 2 || gems > 5 {
			t.Fatalf("gems = %q, expected 2-5", fields[4])
		}
	}
}

func TestExpandLeavesPlainText(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	in := "A {sealed} door with no dice"
	if out := Expand(rng, in); out != in {
		t.Errorf("Expand(%q) = %q", in, out)
	}
	if out := Expand(nil, "{1d6}"); out != "{1d6}" {
		t.Errorf("Expand with nil rng = %q, want text unchanged", out)
	}
}
