package overlay

import (
	"encoding/json"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/hexforge/internal/city"
	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/continent"
	"github.com/lawnchairsociety/hexforge/internal/hexgrid"
	"github.com/lawnchairsociety/hexforge/internal/tables"
)

func matrixCity() *city.City {
	return &city.City{
		Name:        "saltmarsh",
		DisplayName: "Saltmarsh",
		Districts: []*city.District{
			{Name: "Market District", TableSet: city.TableSet{Markets: []string{"The Salt Exchange"}}},
			{Name: "Temple Row", TableSet: city.TableSet{Temples: []string{"The Tide Shrine"}}},
		},
		Matrix: [][]string{
			{"Market District", ""},
			{"", "Temple Row"},
		},
	}
}

func lockedCity() *city.City {
	return &city.City{
		Name:   "vesh",
		Locked: true,
		FixedGrid: map[string]city.FixedCell{
			"0_0": {Row: 0, Col: 0, District: "Harbour", Content: content.Record{Type: content.CategoryLandmark, Name: "The Lighthouse"}},
			"0_1": {Row: 0, Col: 1, District: "Harbour", Content: content.Record{Type: content.CategoryTavern, Name: "The Tarred Rope"}},
		},
	}
}

func newTestGenerator(seed int64, cities ...*city.City) *Generator {
	cache := NewStaticCache(tables.NewMemoryStore(), cities...)
	return New(cache, nil, DefaultOptions()).WithRand(rand.New(rand.NewSource(seed)))
}

func TestGenerateCityOverlayMatrix(t *testing.T) {
	g := newTestGenerator(1, matrixCity())

	o, err := g.GenerateCityOverlay("SALTMARSH")
	if err != nil {
		t.Fatalf("GenerateCityOverlay: %v", err)
	}
	if o.GridType != GridDistrictMatrix || o.TotalHexes != 4 || o.Radius != 1 {
		t.Errorf("overlay = %s/%d/%d, want district_matrix/4/1", o.GridType, o.TotalHexes, o.Radius)
	}
	if o.DisplayName != "Saltmarsh" {
		t.Errorf("DisplayName = %q", o.DisplayName)
	}
	if o.HexGrid["0_1"].Content.Type != content.CategoryEmpty {
		t.Errorf("0_1 = %s, want empty", o.HexGrid["0_1"].Content.Type)
	}
}

func TestGenerateCityOverlayRound(t *testing.T) {
	c := &city.City{Name: "hamlet", Radius: 2}
	g := newTestGenerator(2, c)

	o, err := g.GenerateCityOverlay("hamlet")
	if err != nil {
		t.Fatalf("GenerateCityOverlay: %v", err)
	}
	if o.GridType != GridRound || o.Radius != 2 || o.TotalHexes != 19 {
		t.Errorf("overlay = %s/%d/%d, want round/2/19", o.GridType, o.Radius, o.TotalHexes)
	}
}

func TestGenerateCityOverlayLocked(t *testing.T) {
	g := newTestGenerator(3, lockedCity())

	o, err := g.GenerateCityOverlay("vesh")
	if err != nil {
		t.Fatalf("GenerateCityOverlay: %v", err)
	}
	if o.GridType != GridLocked || o.TotalHexes != 2 {
		t.Fatalf("overlay = %s/%d, want locked/2", o.GridType, o.TotalHexes)
	}
	if got := o.HexGrid["0_1"]; got.Content.Name != "The Tarred Rope" || got.District != "Harbour" || got.Position != "0100" {
		t.Errorf("0_1 = %+v", got)
	}
}

func TestGenerateCityOverlayUnknown(t *testing.T) {
	g := newTestGenerator(4, matrixCity())

	o, err := g.GenerateCityOverlay("atlantis")
	if !errors.Is(err, ErrUnknownOverlay) {
		t.Fatalf("err = %v, want ErrUnknownOverlay", err)
	}
	if o != nil {
		t.Errorf("overlay = %+v, want nil", o)
	}
}

func TestGenerateCityOverlayDoesNotShareCity(t *testing.T) {
	g := newTestGenerator(5, matrixCity())

	o, _ := g.GenerateCityOverlay("saltmarsh")
	o.HexGrid["0_0"].Content.Name = "changed"

	src, _ := g.Cache().City("saltmarsh")
	if src.Districts[0].Markets[0] != "The Salt Exchange" {
		t.Errorf("cached city changed: %v", src.Districts[0].Markets)
	}
}

func TestOverlayJSONRoundTrip(t *testing.T) {
	g := newTestGenerator(6, matrixCity())
	o, err := g.GenerateCityOverlay("saltmarsh")
	if err != nil {
		t.Fatalf("GenerateCityOverlay: %v", err)
	}

	data, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Overlay
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(back.HexGrid) != len(o.HexGrid) {
		t.Fatalf("round trip has %d cells, want %d", len(back.HexGrid), len(o.HexGrid))
	}
	for key, e := range o.HexGrid {
		b, ok := back.HexGrid[key]
		if !ok {
			t.Errorf("key %s lost", key)
			continue
		}
		if b.Content.Type != e.Content.Type {
			t.Errorf("%s type = %s, want %s", key, b.Content.Type, e.Content.Type)
		}
	}
}

func TestGenerateHexContentSea(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		g := newTestGenerator(seed)
		rec, err := g.GenerateHexContent("1613", "sea")
		if err != nil {
			t.Fatalf("GenerateHexContent: %v", err)
		}
		if rec.Type != content.CategorySeaEncounter {
			t.Fatalf("seed %d: type = %s, want sea_encounter", seed, rec.Type)
		}
	}
}

func TestGenerateHexContentLocked(t *testing.T) {
	want := content.Record{Type: content.CategoryDungeon, Name: "The Black Gate", Locked: true}
	want.Normalize()
	lore := continent.Lore{"0304": {Locked: true, Content: want}}

	for seed := int64(0); seed < 5; seed++ {
		g := New(NewStaticCache(nil), lore, DefaultOptions()).WithRand(rand.New(rand.NewSource(seed)))
		got, err := g.GenerateHexContent("0304", "ocean")
		if err != nil {
			t.Fatalf("GenerateHexContent: %v", err)
		}
		if got.Name != want.Name || got.Type != want.Type || !got.Locked {
			t.Errorf("seed %d: got %+v, want %+v", seed, got, want)
		}
	}
}

func TestGenerateHexContentInvalidCode(t *testing.T) {
	g := newTestGenerator(1)
	for _, code := range []string{"", "12", "abcd", "9999"} {
		if _, err := g.GenerateHexContent(code, "plains"); !errors.Is(err, hexgrid.ErrInvalidHexCode) {
			t.Errorf("GenerateHexContent(%q) err = %v, want ErrInvalidHexCode", code, err)
		}
	}
}

func TestGenerateHexContentInfersTerrain(t *testing.T) {
	g := newTestGenerator(1)
	rec, err := g.GenerateHexContent("0505", "")
	if err != nil {
		t.Fatalf("GenerateHexContent: %v", err)
	}
	if rec.Details["terrain"] == "" {
		t.Errorf("terrain not recorded: %+v", rec.Details)
	}
}

func TestGenerateMap(t *testing.T) {
	g := newTestGenerator(7)
	res := g.GenerateMap(MapOptions{Bounds: hexgrid.Bounds{Cols: 6, Rows: 5}, Parallelism: 3})

	if len(res.Hexes) != 30 || len(res.Failures) != 0 {
		t.Fatalf("map has %d hexes and %d failures, want 30 and 0", len(res.Hexes), len(res.Failures))
	}
	if res.RunID == "" {
		t.Error("missing run id")
	}
	if _, ok := res.Hexes["0504"]; !ok {
		t.Error("hex 0504 missing")
	}
}

func TestGenerateMapDeterministic(t *testing.T) {
	bounds := hexgrid.Bounds{Cols: 4, Rows: 4}
	a := newTestGenerator(9).GenerateMap(MapOptions{Bounds: bounds, Parallelism: 4})
	b := newTestGenerator(9).GenerateMap(MapOptions{Bounds: bounds, Parallelism: 1})

	for code, rec := range a.Hexes {
		if b.Hexes[code].Name != rec.Name || b.Hexes[code].Type != rec.Type {
			t.Errorf("%s differs between runs: %s %q vs %s %q", code, rec.Type, rec.Name, b.Hexes[code].Type, b.Hexes[code].Name)
		}
	}
}

func TestGenerateMapCollectsFailures(t *testing.T) {
	g := newTestGenerator(1)
	g.sampler = nil

	res := g.GenerateMap(MapOptions{
		Bounds:  hexgrid.Bounds{Cols: 2, Rows: 2},
		Terrain: map[string]string{"0000": "forest"},
	})
	if len(res.Hexes) != 1 || len(res.Failures) != 3 {
		t.Errorf("got %d hexes and %d failures, want 1 and 3", len(res.Hexes), len(res.Failures))
	}
}

func TestCacheInvalidateReloads(t *testing.T) {
	dir := t.TempDir()
	write := func(name, doc string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(doc), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("alpha.json", `{"name": "alpha"}`)

	cache := NewCache(dir, nil)
	g := New(cache, nil, DefaultOptions())
	if got := len(g.Cities()); got != 1 {
		t.Fatalf("Cities() = %d, want 1", got)
	}

	write("beta.yaml", "name: beta\n")
	if got := len(g.Cities()); got != 1 {
		t.Errorf("Cities() before Invalidate = %d, want cached 1", got)
	}
	cache.Invalidate()
	if got := len(g.Cities()); got != 2 {
		t.Errorf("Cities() after Invalidate = %d, want 2", got)
	}
}
