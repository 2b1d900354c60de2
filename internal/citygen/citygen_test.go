package citygen

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/lawnchairsociety/hexforge/internal/city"
	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/hexgrid"
	"github.com/lawnchairsociety/hexforge/internal/tables"
)

func newTestGenerator() *Generator {
	return NewGenerator(tables.NewResolver(nil, "en"))
}

func testCity() *city.City {
	c := &city.City{
		Name: "Saltmarsh",
		Districts: []*city.District{
			{
				Name:     "Market District",
				Theme:    "its haggling",
				TableSet: city.TableSet{Markets: []string{"The Salt Exchange"}},
			},
			{
				Name:     "Temple Row",
				TableSet: city.TableSet{Temples: []string{"The Tide Shrine"}},
			},
		},
		Matrix: [][]string{
			{"Market District", ""},
			{"", "Temple Row"},
		},
	}
	c.Prepare()
	return c
}

func TestApplyMatrixScenario(t *testing.T) {
	g := newTestGenerator()
	c := testCity()

	for seed := int64(1); seed <= 20; seed++ {
		grid := g.ApplyMatrix(rand.New(rand.NewSource(seed)), c)

		if len(grid) != 4 {
			t.Fatalf("seed %d: grid has %d entries, want 4", seed, len(grid))
		}
		for _, key := range []string{"0_1", "1_0"} {
			e := grid[key]
			if e.Content.Type != content.CategoryEmpty || e.District != EmptyDistrict {
				t.Errorf("seed %d: %s = %s/%q, want empty", seed, key, e.Content.Type, e.District)
			}
		}
		if e := grid["0_0"]; e.Content.Name == "" || e.District != "Market District" {
			t.Errorf("seed %d: 0_0 = %+v", seed, e)
		}
		if e := grid["1_1"]; e.Content.Name == "" || e.District != "Temple Row" {
			t.Errorf("seed %d: 1_1 = %+v", seed, e)
		}
	}
}

func TestApplyMatrixRaggedRows(t *testing.T) {
	c := testCity()
	c.Matrix = [][]string{
		{"Market District", "Temple Row", "Nowhere"},
		{"Temple Row"},
		{},
	}
	grid := newTestGenerator().ApplyMatrix(rand.New(rand.NewSource(3)), c)

	if len(grid) != 9 {
		t.Fatalf("grid has %d entries, want 9", len(grid))
	}
	if grid["2_2"].Content.Type != content.CategoryEmpty {
		t.Errorf("padded cell 2_2 = %s, want empty", grid["2_2"].Content.Type)
	}
	if e := grid["0_2"]; e.District != "Nowhere" || e.Content.Type == content.CategoryEmpty {
		t.Errorf("undefined district cell = %+v, want generated content", e)
	}
}

func TestApplyMatrixUndefinedDistrictName(t *testing.T) {
	c := &city.City{
		Name:      "Saltmarsh",
		Districts: []*city.District{{Name: "Harbour", Theme: "its docks"}},
		Matrix:    [][]string{{"Nowhere"}},
	}
	c.Prepare()
	g := NewGenerator(tables.NewResolver(nil, "en").WithPool(content.Pool{}))

	for seed := int64(1); seed <= 10; seed++ {
		e := g.ApplyMatrix(rand.New(rand.NewSource(seed)), c)["0_0"]
		if e.District != "Nowhere" {
			t.Errorf("seed %d: district = %q, want Nowhere", seed, e.District)
		}
		if e.Content.Type != content.CategoryDistrict {
			t.Errorf("seed %d: type = %s, want district", seed, e.Content.Type)
		}
		// another quarter's name must not leak into the cell
		if e.Content.Name != "Unknown District" {
			t.Errorf("seed %d: name = %q, want Unknown District", seed, e.Content.Name)
		}
	}
}

func TestApplyMatrixCaseInsensitiveDistrict(t *testing.T) {
	c := testCity()
	c.Matrix = [][]string{{"  market district "}}

	grid := newTestGenerator().ApplyMatrix(rand.New(rand.NewSource(1)), c)
	e := grid["0_0"]
	if e.District != "  market district " {
		t.Errorf("district = %q, want the source string", e.District)
	}
	// Only markets are authored for the district so the cell is a market.
	if e.Content.Type != content.CategoryMarket || e.Content.Name != "The Salt Exchange" {
		t.Errorf("content = %s %q, want the district market", e.Content.Type, e.Content.Name)
	}
}

func TestRoundGrid(t *testing.T) {
	g := newTestGenerator()
	c := &city.City{Name: "Nowhere"}

	grid := g.RoundGrid(rand.New(rand.NewSource(9)), c, 0)

	// 1 + 3R(R+1) cells for radius 3.
	if len(grid) != 37 {
		t.Fatalf("round grid has %d cells, want 37", len(grid))
	}
	centre := grid["3_3"]
	if centre == nil {
		t.Fatal("missing centre cell")
	}
	switch centre.Content.Type {
	case content.CategoryLandmark, content.CategoryTemple, content.CategoryMarket:
	default:
		t.Errorf("centre type = %s, want landmark, temple or market", centre.Content.Type)
	}
	for key, e := range grid {
		if hexgrid.Distance(e.Row, e.Col, 3, 3) > 3 {
			t.Errorf("%s lies outside the radius", key)
		}
		if e.District != EmptyDistrict {
			t.Errorf("%s district = %q, want %q", key, e.District, EmptyDistrict)
		}
	}
}

func TestGenerateUsesPlaceholders(t *testing.T) {
	g := NewGenerator(tables.NewResolver(nil, "en").WithPool(content.Pool{}))
	rec := g.Generate(rand.New(rand.NewSource(1)), content.CategoryDistrict, nil, nil)

	if rec.Name != "Unknown District" {
		t.Errorf("Name = %q, want Unknown District", rec.Name)
	}
	if rec.Encounter != UnclearEncounter {
		t.Errorf("Encounter = %q", rec.Encounter)
	}
	if rec.RandomTable == nil || rec.NPCs == nil || rec.NotableFeatures == nil {
		t.Error("collections must be empty, not nil")
	}
}

func TestGenerateAllCategories(t *testing.T) {
	g := newTestGenerator()
	rng := rand.New(rand.NewSource(42))

	for _, category := range content.CityCategories {
		rec := g.Generate(rng, category, nil, nil)
		if rec.Type != category {
			t.Errorf("%s: Type = %s", category, rec.Type)
		}
		if rec.Name == "" || rec.Description == "" || rec.Encounter == "" || rec.Atmosphere == "" {
			t.Errorf("%s: missing text fields: %+v", category, rec)
		}
		if len(rec.RandomTable) != 6 || !strings.HasPrefix(rec.RandomTable[0], "2-3: ") {
			t.Errorf("%s: RandomTable = %v", category, rec.RandomTable)
		}
		if strings.Contains(rec.Description, "{") {
			t.Errorf("%s: unexpanded dice in %q", category, rec.Description)
		}
	}
}

func TestGenerateAuxiliaryFields(t *testing.T) {
	g := newTestGenerator()
	rng := rand.New(rand.NewSource(5))

	tests := []struct {
		category content.Category
		field    func(content.Record) []string
		want     int
	}{
		{content.CategoryBuilding, func(r content.Record) []string { return r.Treasures }, 1},
		{content.CategoryStreet, func(r content.Record) []string { return r.Threats }, 1},
		{content.CategoryLandmark, func(r content.Record) []string { return r.NotableFeatures }, 2},
		{content.CategoryMarket, func(r content.Record) []string { return r.NPCs }, 2},
		{content.CategoryTemple, func(r content.Record) []string { return r.NPCs }, 2},
		{content.CategoryTavern, func(r content.Record) []string { return r.NPCs }, 2},
		{content.CategoryGuild, func(r content.Record) []string { return r.NPCs }, 2},
		{content.CategoryResidence, func(r content.Record) []string { return r.Treasures }, 1},
		{content.CategoryRuins, func(r content.Record) []string { return r.Treasures }, 2},
	}
	for _, tt := range tests {
		rec := g.Generate(rng, tt.category, nil, nil)
		items := tt.field(rec)
		if len(items) != tt.want {
			t.Errorf("%s: got %d auxiliary items, want %d", tt.category, len(items), tt.want)
			continue
		}
		if tt.want == 2 && items[0] == items[1] {
			t.Errorf("%s: auxiliary draws repeat: %v", tt.category, items)
		}
	}
}

func TestGenerateDistrictUsesOwnName(t *testing.T) {
	c := testCity()
	d, _ := c.District("Market District")

	rec := newTestGenerator().Generate(rand.New(rand.NewSource(1)), content.CategoryDistrict, d, c)
	if rec.Name != "Market District" {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.Description != "Market District, a quarter known for its haggling." {
		t.Errorf("Description = %q", rec.Description)
	}
}

func TestGenerateDoesNotMutateTables(t *testing.T) {
	c := &city.City{
		Name: "Dice",
		TableSet: city.TableSet{
			Tables: map[string]map[string][]string{
				"building": {"treasures": {"{2d6} coins"}},
			},
		},
	}
	c.Prepare()
	g := newTestGenerator()

	for seed := int64(0); seed < 5; seed++ {
		g.Generate(rand.New(rand.NewSource(seed)), content.CategoryBuilding, nil, c)
	}
	if got := c.Tables["building"]["treasures"][0]; got != "{2d6} coins" {
		t.Errorf("source table mutated to %q", got)
	}
}

func TestPickCategoryCapabilities(t *testing.T) {
	g := newTestGenerator()
	rng := rand.New(rand.NewSource(7))

	bare := &city.City{Name: "Bare"}
	for i := 0; i < 20; i++ {
		if got := g.PickCategory(rng, nil, bare); got != content.CategoryDistrict {
			t.Fatalf("PickCategory with no tables = %s, want district", got)
		}
	}

	taverns := &city.City{Name: "Inns", TableSet: city.TableSet{Taverns: []string{"The Inn"}}}
	taverns.Prepare()
	for i := 0; i < 20; i++ {
		if got := g.PickCategory(rng, nil, taverns); got != content.CategoryTavern {
			t.Fatalf("PickCategory = %s, want tavern", got)
		}
	}
}

func TestRandomTable(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	source := []string{"a", "b", "c", "d", "e", "f", "g"}
	rows := RandomTable(rng, source)
	seen := make(map[string]bool)
	for i, row := range rows {
		if !strings.HasPrefix(row, randomTableBands[i]+": ") {
			t.Errorf("row %d = %q, want band %s", i, row, randomTableBands[i])
		}
		if seen[row[strings.Index(row, ": ")+2:]] {
			t.Errorf("row %d repeats an entry", i)
		}
		seen[row[strings.Index(row, ": ")+2:]] = true
	}

	if rows := RandomTable(rng, []string{"only"}); len(rows) != 6 || rows[5] != "10-12: only" {
		t.Errorf("short table rows = %v", rows)
	}
	if rows := RandomTable(rng, nil); rows == nil || len(rows) != 0 {
		t.Errorf("empty source rows = %#v", rows)
	}
}

func TestGridJSONShape(t *testing.T) {
	grid := newTestGenerator().ApplyMatrix(rand.New(rand.NewSource(11)), testCity())
	grid.Link()

	data, err := json.Marshal(grid)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var parsed map[string]struct {
		Position string `json:"position"`
		Content  struct {
			Type string `json:"type"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(parsed) != len(grid) {
		t.Fatalf("parsed %d keys, want %d", len(parsed), len(grid))
	}
	for key, e := range grid {
		p, ok := parsed[key]
		if !ok {
			t.Errorf("key %s lost", key)
			continue
		}
		if p.Content.Type != e.Content.Type.String() {
			t.Errorf("%s type = %q, want %q", key, p.Content.Type, e.Content.Type)
		}
		if p.Position != e.Position {
			t.Errorf("%s position = %q, want %q", key, p.Position, e.Position)
		}
	}
	if grid["1_1"].Position != "0101" {
		t.Errorf("1_1 position = %q, want 0101", grid["1_1"].Position)
	}
}
