package content

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCategoryStringAndParse(t *testing.T) {
	for c, name := range categoryNames {
		if c.String() != name {
			t.Errorf("%d.String() = %q, want %q", int(c), c.String(), name)
		}
		parsed, ok := ParseCategory(name)
		if !ok || parsed != c {
			t.Errorf("ParseCategory(%q) = %v, %v", name, parsed, ok)
		}
	}

	if _, ok := ParseCategory("castle"); ok {
		t.Error("ParseCategory(castle) should fail")
	}
	if Category(99).String() != "unknown" {
		t.Errorf("Category(99).String() = %q", Category(99).String())
	}
}

func TestCityCategories(t *testing.T) {
	if len(CityCategories) != 10 {
		t.Fatalf("CityCategories has %d entries, want 10", len(CityCategories))
	}
	seen := make(map[Category]bool)
	for _, c := range CityCategories {
		if c == CategoryEmpty || c >= CategorySettlement {
			t.Errorf("%s is not a city category", c)
		}
		if seen[c] {
			t.Errorf("%s listed twice", c)
		}
		seen[c] = true
	}
}

func TestCategoryTitle(t *testing.T) {
	tests := map[Category]string{
		CategoryBuilding:     "Building",
		CategoryNPC:          "NPC",
		CategorySeaEncounter: "Sea Encounter",
	}
	for c, want := range tests {
		if got := c.Title(); got != want {
			t.Errorf("%s.Title() = %q, want %q", c, got, want)
		}
	}
}

func TestRecordJSONUsesCategoryNames(t *testing.T) {
	r := Record{Type: CategorySeaEncounter, Name: "Ghost Ship"}
	r.Normalize()

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"type":"sea_encounter"`) {
		t.Errorf("missing type tag: %s", out)
	}
	if !strings.Contains(out, `"threats":[]`) {
		t.Errorf("empty collections should serialise as []: %s", out)
	}
	if strings.Contains(out, "null") {
		t.Errorf("record serialised a null: %s", out)
	}

	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Type != CategorySeaEncounter {
		t.Errorf("round trip type = %v", back.Type)
	}
}

func TestNewEmpty(t *testing.T) {
	r := NewEmpty()
	if r.Type != CategoryEmpty || r.Name != EmptyName {
		t.Errorf("NewEmpty() = %+v", r)
	}
	if r.NPCs == nil || r.RandomTable == nil {
		t.Error("NewEmpty left nil collections")
	}
}

func TestCloneIsDeep(t *testing.T) {
	r := Record{Type: CategoryRuins, Treasures: []string{"coin"}}
	r.SetDetail("age", "old")

	c := r.Clone()
	c.Treasures[0] = "changed"
	c.Details["age"] = "new"

	if r.Treasures[0] != "coin" || r.Details["age"] != "old" {
		t.Error("Clone shares memory with the original")
	}
}

func TestMarkdown(t *testing.T) {
	r := Record{
		Type:        CategoryTavern,
		Name:        "The Salty Dog",
		Description: "A dockside tavern.",
		NPCs:        []string{"A one-eyed barkeep"},
		RandomTable: []string{"2-3: A fight breaks out"},
		Locked:      true,
	}
	r.SetDetail("owner", "Marta")

	md := r.Markdown()
	for _, want := range []string{"## The Salty Dog", "*Tavern* (locked)", "### NPCs", "- A one-eyed barkeep", "**owner:** Marta", "2-3: A fight breaks out"} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "### Threats") {
		t.Error("Markdown rendered an empty section")
	}
}

func TestText(t *testing.T) {
	r := Record{
		Type:      CategoryBeast,
		Name:      "Ash Wolf",
		Encounter: "Tracks circle the camp.",
		Threats:   []string{"pack ambush", "rabies"},
	}
	r.SetDetail("terrain", "forest")

	text := r.Text()
	for _, want := range []string{"Ash Wolf [beast]", "Encounter:   Tracks circle the camp.", "Threats:     pack ambush; rabies", "terrain:     forest"} {
		if !strings.Contains(text, want) {
			t.Errorf("Text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Treasures") {
		t.Error("Text rendered an empty list")
	}
}

func TestFallbackPool(t *testing.T) {
	pool := Fallback()

	for _, c := range CityCategories {
		if len(pool.Lookup(c.String(), "encounter")) == 0 {
			t.Errorf("no fallback encounter for %s", c)
		}
		if len(pool.Lookup(c.String(), "atmosphere")) == 0 {
			t.Errorf("no fallback atmosphere for %s", c)
		}
	}

	if got := pool.Lookup("market", "names"); len(got) == 0 || got[0] != "The Fish Market" {
		t.Errorf("market names = %v", got)
	}
	// category specific wins over shared
	if got := pool.Lookup("district", "encounter"); len(got) != 1 {
		t.Errorf("district encounter = %v, want the single district entry", got)
	}
	if got := pool.Lookup("nothing", "nothing"); len(got) != 0 {
		t.Errorf("unknown table = %v, want empty", got)
	}
}
