package weighted

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestChooseInvalid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name    string
		options []Option[string]
	}{
		{"empty", nil},
		{"all zero", []Option[string]{Of("a", 0), Of("b", 0)}},
		{"negative", []Option[string]{Of("a", 1), Of("b", -1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Choose(rng, tt.options); !errors.Is(err, ErrInvalidWeights) {
				t.Errorf("Choose error = %v, want ErrInvalidWeights", err)
			}
		})
	}
}

func TestChooseSingleEntryIsForced(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, w := range []float64{0, 0.001, 1, 250} {
		got, err := Choose(rng, []Option[string]{Of("only", w)})
		if err != nil {
			t.Fatalf("Choose with single weight %v returned error: %v", w, err)
		}
		if got != "only" {
			t.Errorf("Choose = %q, want only", got)
		}
	}
}

func TestChooseNeverPicksZeroWeight(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	options := []Option[string]{Of("never", 0), Of("always", 2), Of("nope", 0)}

	for i := 0; i < 1000; i++ {
		if got := MustChoose(rng, options); got != "always" {
			t.Fatalf("draw %d picked %q", i, got)
		}
	}
}

func TestChooseDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	options := []Option[string]{
		Of("settlement", 0.15),
		Of("dungeon", 0.45),
		Of("beast", 0.50),
		Of("npc", 0.40),
	}

	const draws = 10000
	counts := make(map[string]int)
	for i := 0; i < draws; i++ {
		counts[MustChoose(rng, options)]++
	}

	total := 0.0
	for _, o := range options {
		total += o.Weight
	}
	for _, o := range options {
		want := o.Weight / total
		got := float64(counts[o.Value]) / draws
		if math.Abs(got-want) > 0.02 {
			t.Errorf("%s: frequency %.3f, want %.3f +/- 0.02", o.Value, got, want)
		}
	}
}

func TestRoll(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	if Roll(rng, 0) {
		t.Error("Roll with chance 0 should never succeed")
	}
	for i := 0; i < 100; i++ {
		if !Roll(rng, 1) {
			t.Fatal("Roll with chance 1 should always succeed")
		}
	}
}
