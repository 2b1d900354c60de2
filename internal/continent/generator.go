// Package continent generates overland hex content: authored lore first,
// then sea encounters for water, then a weighted draw across settlements,
// dungeons, beasts and NPCs.
package continent

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/dice"
	"github.com/lawnchairsociety/hexforge/internal/tables"
	"github.com/lawnchairsociety/hexforge/internal/weighted"
)

// Secondary roll chances.
const (
	LootChance   = 0.60
	ScrollChance = 0.35
	TrapChance   = 0.30
)

// Detail keys set on overland records.
const (
	DetailTerrain = "terrain"
	DetailScroll  = "scroll"
	DetailTrap    = "trap"
	DetailThreat  = "threat"
)

// overlandWeights are relative weights for one normalised draw.
var overlandWeights = []weighted.Option[content.Category]{
	weighted.Of(content.CategorySettlement, 0.15),
	weighted.Of(content.CategoryDungeon, 0.45),
	weighted.Of(content.CategoryBeast, 0.50),
	weighted.Of(content.CategoryNPC, 0.40),
}

var seaTerrains = map[string]bool{
	"sea":        true,
	"ocean":      true,
	"deep_water": true,
}

// NormalizeTerrain lower-cases a terrain name and joins words with "_".
func NormalizeTerrain(terrain string) string {
	return strings.Join(strings.Fields(strings.ToLower(terrain)), "_")
}

// IsSea reports whether terrain is open water.
func IsSea(terrain string) bool {
	return seaTerrains[NormalizeTerrain(terrain)]
}

// synth configures one overland category.
type synth struct {
	// terrainNames tries names_<terrain> before names.
	terrainNames bool
	// describe lists the tables composed into the description after the name.
	describe []string
	template string
	// detail, when set, is a table whose pick is recorded under that detail key.
	detail    string
	detailKey string
	// threat, when set, adds one pick to Threats.
	threat string
	trap   bool
}

var synths = map[content.Category]synth{
	content.CategorySettlement: {
		terrainNames: true,
		describe:     []string{"size"},
		template:     "%s, %s.",
	},
	content.CategoryDungeon: {
		describe: []string{"kind"},
		template: "%s, %s.",
		trap:     true,
	},
	content.CategoryBeast: {
		terrainNames: true,
		describe:     []string{"behavior"},
		template:     "%s, %s.",
		detail:       "threat",
		detailKey:    DetailThreat,
	},
	content.CategoryNPC: {
		describe: []string{"occupation", "personality"},
		template: "%s, %s, %s.",
	},
	content.CategorySeaEncounter: {
		describe: []string{"description"},
		template: "%s, %s.",
		threat:   "threat",
	},
}

// Generator produces overland hex records.
type Generator struct {
	resolver *tables.Resolver
	lore     Lore
}

// NewGenerator creates a generator. lore may be nil.
func NewGenerator(resolver *tables.Resolver, lore Lore) *Generator {
	if lore == nil {
		lore = Lore{}
	}
	return &Generator{resolver: resolver, lore: lore}
}

// Generate returns the content of hex code on terrain. A locked lore entry
// is returned exactly as authored whatever the terrain or rng.
func (g *Generator) Generate(rng *rand.Rand, code, terrain string) content.Record {
	entry, hasLore := g.lore.Get(code)
	if hasLore && entry.Locked {
		return entry.Content.Clone()
	}

	terrain = NormalizeTerrain(terrain)
	category := content.CategorySeaEncounter
	if !seaTerrains[terrain] {
		category = weighted.MustChoose(rng, overlandWeights)
	}

	rec := g.Synthesize(rng, category, terrain)
	if hasLore {
		if entry.Content.Name != "" {
			rec.Name = entry.Content.Name
		}
		if entry.Content.Description != "" {
			rec.Description = entry.Content.Description
		}
	}
	return rec
}

// Synthesize builds a record of an overland category.
func (g *Generator) Synthesize(rng *rand.Rand, category content.Category, terrain string) content.Record {
	s := synths[category]
	rec := content.Record{Type: category}

	names := []string{"names"}
	if s.terrainNames && terrain != "" {
		names = []string{"names_" + terrain, "names"}
	}
	rec.Name = pick(rng, g.resolver.ResolveFirst(category, names))
	if rec.Name == "" {
		rec.Name = "Unknown " + category.Title()
	}

	rec.Description = g.describe(rng, category, s, rec.Name)
	rec.Encounter = pick(rng, g.resolver.Resolve(category, "encounter"))
	rec.Atmosphere = pick(rng, g.resolver.Resolve(category, "atmosphere"))

	if s.detail != "" {
		if v := pick(rng, g.resolver.Resolve(category, s.detail)); v != "" {
			rec.SetDetail(s.detailKey, v)
		}
	}
	if s.threat != "" {
		if v := pick(rng, g.resolver.Resolve(category, s.threat)); v != "" {
			rec.Threats = append(rec.Threats, v)
		}
	}

	if weighted.Roll(rng, LootChance) {
		if v := pick(rng, g.resolver.Resolve(category, "loot")); v != "" {
			rec.Treasures = append(rec.Treasures, v)
		}
	}
	if weighted.Roll(rng, ScrollChance) {
		if v := pick(rng, g.resolver.Resolve(category, "scroll")); v != "" {
			rec.SetDetail(DetailScroll, v)
		}
	}
	if s.trap && weighted.Roll(rng, TrapChance) {
		if v := pick(rng, g.resolver.Resolve(category, "trap")); v != "" {
			rec.SetDetail(DetailTrap, v)
			rec.Threats = append(rec.Threats, v)
		}
	}

	if terrain != "" {
		rec.SetDetail(DetailTerrain, terrain)
	}

	expand(rng, &rec)
	rec.Normalize()
	return rec
}

func (g *Generator) describe(rng *rand.Rand, category content.Category, s synth, name string) string {
	if len(s.describe) == 0 {
		return name + "."
	}
	args := []any{name}
	for _, table := range s.describe {
		v := pick(rng, g.resolver.Resolve(category, table))
		if v == "" {
			return name + "."
		}
		args = append(args, v)
	}
	return fmt.Sprintf(s.template, args...)
}

func pick(rng *rand.Rand, list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[rng.Intn(len(list))]
}

func expand(rng *rand.Rand, rec *content.Record) {
	rec.Name = dice.Expand(rng, rec.Name)
	rec.Description = dice.Expand(rng, rec.Description)
	rec.Encounter = dice.Expand(rng, rec.Encounter)
	dice.ExpandAll(rng, rec.Treasures)
	dice.ExpandAll(rng, rec.Threats)
	keys := make([]string, 0, len(rec.Details))
	for k := range rec.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rec.Details[k] = dice.Expand(rng, rec.Details[k])
	}
}
