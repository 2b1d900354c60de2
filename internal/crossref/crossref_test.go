package crossref

import (
	"fmt"
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/hexgrid"
)

func cell(key string, row, col int, t content.Category) Cell {
	return Cell{Key: key, Coord: hexgrid.Coord{Row: row, Col: col}, Type: t}
}

func TestComplementary(t *testing.T) {
	tests := []struct {
		a, b content.Category
		want bool
	}{
		{content.CategoryTavern, content.CategoryMarket, true},
		{content.CategoryMarket, content.CategoryTavern, true},
		{content.CategoryDungeon, content.CategoryBeast, true},
		{content.CategoryTavern, content.CategoryTemple, false},
		{content.CategoryEmpty, content.CategoryEmpty, false},
	}
	for _, tt := range tests {
		if got := Complementary(tt.a, tt.b); got != tt.want {
			t.Errorf("Complementary(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAnnotateSameTypeRange(t *testing.T) {
	cells := []Cell{
		cell("a", 0, 0, content.CategoryTavern),
		cell("b", 2, 0, content.CategoryTavern),
		cell("c", 5, 0, content.CategoryTavern),
	}
	got := Annotate(cells)

	if len(got["a"]) != 1 || got["a"][0] != "b" {
		t.Errorf("a links = %v, want [b]", got["a"])
	}
	if _, ok := got["c"]; ok {
		t.Errorf("c should have no links, got %v", got["c"])
	}
}

func TestAnnotateComplementRange(t *testing.T) {
	cells := []Cell{
		cell("tavern", 0, 0, content.CategoryTavern),
		cell("market", 3, 0, content.CategoryMarket),
		cell("temple", 1, 0, content.CategoryTemple),
	}
	got := Annotate(cells)

	if len(got["tavern"]) != 1 || got["tavern"][0] != "market" {
		t.Errorf("tavern links = %v, want [market]", got["tavern"])
	}
	if _, ok := got["temple"]; ok {
		t.Errorf("temple should not link, got %v", got["temple"])
	}
}

func TestAnnotateEmptyNeverLinks(t *testing.T) {
	cells := []Cell{
		cell("e1", 0, 0, content.CategoryEmpty),
		cell("e2", 0, 1, content.CategoryEmpty),
		cell("x", 1, 0, content.CategoryBuilding),
	}
	got := Annotate(cells)
	if len(got) != 0 {
		t.Errorf("Annotate = %v, want no links", got)
	}
}

func TestAnnotateCapAndOrder(t *testing.T) {
	cells := []Cell{
		cell("centre", 2, 2, content.CategoryMarket),
		cell("d", 4, 2, content.CategoryMarket),
		cell("c", 1, 2, content.CategoryMarket),
		cell("b", 3, 2, content.CategoryMarket),
		cell("a", 0, 2, content.CategoryMarket),
	}
	got := Annotate(cells)["centre"]

	// b and c at distance 1 sort by key; a and d tie at 2, a wins.
	want := []string{"b", "c", "a"}
	if len(got) != MaxLinks {
		t.Fatalf("links = %v, want %d entries", got, MaxLinks)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("links[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// annotateAllPairs compares every cell with every other cell.
func annotateAllPairs(cells []Cell) map[string][]string {
	out := make(map[string][]string)
	for i, a := range cells {
		if a.Type == content.CategoryEmpty {
			continue
		}
		var links []link
		for j, b := range cells {
			if i == j || b.Type == content.CategoryEmpty {
				continue
			}
			if l, ok := relate(a, b); ok {
				links = append(links, l)
			}
		}
		if len(links) == 0 {
			continue
		}
		sort.Slice(links, func(x, y int) bool {
			if links[x].distance != links[y].distance {
				return links[x].distance < links[y].distance
			}
			return links[x].key < links[y].key
		})
		if len(links) > MaxLinks {
			links = links[:MaxLinks]
		}
		for _, l := range links {
			out[a.Key] = append(out[a.Key], l.key)
		}
	}
	return out
}

func TestAnnotateLargeGridMatchesAllPairs(t *testing.T) {
	kinds := []content.Category{
		content.CategoryEmpty,
		content.CategoryTavern,
		content.CategoryMarket,
		content.CategoryTemple,
		content.CategoryRuins,
		content.CategoryDungeon,
		content.CategoryBeast,
		content.CategorySettlement,
		content.CategoryNPC,
		content.CategorySeaEncounter,
	}
	rng := rand.New(rand.NewSource(17))

	var cells []Cell
	for row := 0; row < 40; row++ {
		for col := 0; col < 40; col++ {
			key := fmt.Sprintf("%02d%02d", col, row)
			cells = append(cells, cell(key, row, col, kinds[rng.Intn(len(kinds))]))
		}
	}

	got := Annotate(cells)
	want := annotateAllPairs(cells)
	if len(got) != len(want) {
		t.Fatalf("annotated %d cells, want %d", len(got), len(want))
	}
	for key, links := range want {
		if !reflect.DeepEqual(got[key], links) {
			t.Errorf("%s links = %v, want %v", key, got[key], links)
		}
	}
}

func TestAnnotateReachEdge(t *testing.T) {
	cells := []Cell{
		cell("tavern", 0, 1, content.CategoryTavern),
		cell("near", 3, 0, content.CategoryMarket), // three steps
		cell("far", 3, 4, content.CategoryMarket),  // four steps
	}
	got := Annotate(cells)

	if want := []string{"near"}; !reflect.DeepEqual(got["tavern"], want) {
		t.Errorf("tavern links = %v, want %v", got["tavern"], want)
	}
	if !reflect.DeepEqual(got, annotateAllPairs(cells)) {
		t.Errorf("Annotate = %v, want %v", got, annotateAllPairs(cells))
	}
}
