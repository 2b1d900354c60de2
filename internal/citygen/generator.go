// Package citygen fills city grids with generated content, either from an
// authored district matrix or as a round grid with distance bands.
package citygen

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/hexforge/internal/city"
	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/dice"
	"github.com/lawnchairsociety/hexforge/internal/tables"
	"github.com/lawnchairsociety/hexforge/internal/weighted"
)

// UnclearEncounter is used when no encounter table has entries.
const UnclearEncounter = "Unclear activity in the district"

// randomTableBands label the six random table rows by 2d6 result.
var randomTableBands = []string{"2-3", "4-5", "6", "7", "8-9", "10-12"}

// genericCellWeights is the category mix for a cell with district context.
var genericCellWeights = []weighted.Option[content.Category]{
	weighted.Of(content.CategoryBuilding, 0.25),
	weighted.Of(content.CategoryStreet, 0.15),
	weighted.Of(content.CategoryLandmark, 0.15),
	weighted.Of(content.CategoryMarket, 0.15),
	weighted.Of(content.CategoryTemple, 0.15),
	weighted.Of(content.CategoryTavern, 0.10),
	weighted.Of(content.CategoryGuild, 0.05),
}

// Generator produces content records for city cells.
type Generator struct {
	resolver *tables.Resolver
}

// NewGenerator creates a generator resolving tables through resolver.
func NewGenerator(resolver *tables.Resolver) *Generator {
	return &Generator{resolver: resolver}
}

// scopes returns the non-nil scopes, most specific first.
func scopes(district *city.District, c *city.City) []tables.Scope {
	var s []tables.Scope
	if district != nil {
		s = append(s, district)
	}
	if c != nil {
		s = append(s, c)
	}
	return s
}

// Generate builds a record of the given category. district and c may be
// nil; missing tables degrade to the global store, then the fallback pool,
// then literal placeholders.
func (g *Generator) Generate(rng *rand.Rand, category content.Category, district *city.District, c *city.City) content.Record {
	profile, ok := profiles[category]
	if !ok {
		profile = Profile{Category: category}
	}
	sc := scopes(district, c)

	rec := content.Record{Type: category}
	rec.Name = g.name(rng, category, district, sc)

	if profile.Modifier != "" {
		if modifier := pick(rng, g.resolver.Resolve(category, profile.Modifier, sc...)); modifier != "" {
			rec.Description = fmt.Sprintf(profile.Template, rec.Name, modifier)
		}
	}
	if rec.Description == "" {
		rec.Description = rec.Name + "."
	}

	rec.Encounter = pick(rng, g.resolver.Resolve(category, city.TableEncounter, sc...))
	if rec.Encounter == "" {
		rec.Encounter = UnclearEncounter
	}
	rec.Atmosphere = pick(rng, g.resolver.Resolve(category, city.TableAtmosphere, sc...))
	rec.RandomTable = RandomTable(rng, g.resolver.Resolve(category, city.TableRandomTable, sc...))

	for _, a := range profile.aux {
		a.set(&rec, pickDistinct(rng, g.resolver.Resolve(category, a.table, sc...), a.count))
	}

	expand(rng, &rec)
	rec.Normalize()
	return rec
}

func (g *Generator) name(rng *rand.Rand, category content.Category, district *city.District, sc []tables.Scope) string {
	if category == content.CategoryDistrict && district != nil && district.Name != "" {
		return district.Name
	}
	if name := pick(rng, g.resolver.Resolve(category, city.TableNames, sc...)); name != "" {
		return name
	}
	return "Unknown " + category.Title()
}

// PickCategory chooses a city category for a cell. Only categories the
// district or city has authored names for are eligible; with none
// eligible the cell becomes a district cell.
func (g *Generator) PickCategory(rng *rand.Rand, district *city.District, c *city.City) content.Category {
	options := make([]weighted.Option[content.Category], 0, len(genericCellWeights))
	for _, o := range genericCellWeights {
		if district.Has(o.Value) || c.Has(o.Value) {
			options = append(options, o)
		}
	}
	if len(options) == 0 {
		return content.CategoryDistrict
	}
	category, err := weighted.Choose(rng, options)
	if err != nil {
		return content.CategoryDistrict
	}
	return category
}

// RandomTable builds the six-row 2d6 table. Rows are drawn without
// replacement when the source has at least six entries.
func RandomTable(rng *rand.Rand, source []string) []string {
	if len(source) == 0 {
		return []string{}
	}
	rows := make([]string, len(randomTableBands))
	if len(source) >= len(randomTableBands) {
		perm := rng.Perm(len(source))
		for i, band := range randomTableBands {
			rows[i] = band + ": " + source[perm[i]]
		}
		return rows
	}
	for i, band := range randomTableBands {
		rows[i] = band + ": " + source[rng.Intn(len(source))]
	}
	return rows
}

// pick returns a uniformly chosen entry, or "" for an empty list.
func pick(rng *rand.Rand, list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[rng.Intn(len(list))]
}

// pickDistinct returns up to n distinct entries of list in random order.
// The result is a new slice.
func pickDistinct(rng *rand.Rand, list []string, n int) []string {
	if n > len(list) {
		n = len(list)
	}
	out := make([]string, 0, n)
	for _, i := range rng.Perm(len(list))[:n] {
		out = append(out, list[i])
	}
	return out
}

// expand rolls inline dice in every text field. Collections are fresh
// slices built by the generator, never the resolved tables themselves.
func expand(rng *rand.Rand, rec *content.Record) {
	rec.Name = dice.Expand(rng, rec.Name)
	rec.Description = dice.Expand(rng, rec.Description)
	rec.Encounter = dice.Expand(rng, rec.Encounter)
	rec.Atmosphere = dice.Expand(rng, rec.Atmosphere)
	dice.ExpandAll(rng, rec.RandomTable)
	dice.ExpandAll(rng, rec.NotableFeatures)
	dice.ExpandAll(rng, rec.Threats)
	dice.ExpandAll(rng, rec.Treasures)
	dice.ExpandAll(rng, rec.NPCs)
}
