package citygen

import (
	"github.com/lawnchairsociety/hexforge/internal/content"
)

// Auxiliary table names drawn into record collections.
const (
	tableTreasures       = "treasures"
	tableThreats         = "threats"
	tableNotableFeatures = "notable_features"
	tableNPCs            = "npcs"
)

// aux describes one auxiliary collection filled from a table.
type aux struct {
	table string
	count int
	set   func(r *content.Record, items []string)
}

// Profile configures generation for one city category: which table
// supplies the descriptive modifier, how the description sentence is
// composed, and which auxiliary collections are filled.
type Profile struct {
	Category content.Category
	Modifier string
	// Template takes the name then the modifier.
	Template string
	aux      []aux
}

func treasures(n int) aux {
	return aux{table: tableTreasures, count: n, set: func(r *content.Record, items []string) { r.Treasures = items }}
}

func threats(n int) aux {
	return aux{table: tableThreats, count: n, set: func(r *content.Record, items []string) { r.Threats = items }}
}

func notableFeatures(n int) aux {
	return aux{table: tableNotableFeatures, count: n, set: func(r *content.Record, items []string) { r.NotableFeatures = items }}
}

func npcs(n int) aux {
	return aux{table: tableNPCs, count: n, set: func(r *content.Record, items []string) { r.NPCs = items }}
}

// profiles is the per-category configuration table.
var profiles = map[content.Category]Profile{
	content.CategoryDistrict: {
		Category: content.CategoryDistrict,
		Modifier: "theme",
		Template: "%s, a quarter known for %s.",
		aux:      []aux{notableFeatures(1)},
	},
	content.CategoryBuilding: {
		Category: content.CategoryBuilding,
		Modifier: "purpose",
		Template: "%s, used as %s.",
		aux:      []aux{treasures(1)},
	},
	content.CategoryStreet: {
		Category: content.CategoryStreet,
		Modifier: "condition",
		Template: "%s, %s.",
		aux:      []aux{threats(1)},
	},
	content.CategoryLandmark: {
		Category: content.CategoryLandmark,
		Modifier: "feature",
		Template: "%s, notable for %s.",
		aux:      []aux{notableFeatures(2)},
	},
	content.CategoryMarket: {
		Category: content.CategoryMarket,
		Modifier: "specialty",
		Template: "%s, specialising in %s.",
		aux:      []aux{npcs(2)},
	},
	content.CategoryTemple: {
		Category: content.CategoryTemple,
		Modifier: "deity",
		Template: "%s, dedicated to %s.",
		aux:      []aux{npcs(2)},
	},
	content.CategoryTavern: {
		Category: content.CategoryTavern,
		Modifier: "specialty",
		Template: "%s, famous for %s.",
		aux:      []aux{npcs(2)},
	},
	content.CategoryGuild: {
		Category: content.CategoryGuild,
		Modifier: "trade",
		Template: "%s, the hall of the %s.",
		aux:      []aux{npcs(2)},
	},
	content.CategoryResidence: {
		Category: content.CategoryResidence,
		Modifier: "owner",
		Template: "%s, home to %s.",
		aux:      []aux{treasures(1)},
	},
	content.CategoryRuins: {
		Category: content.CategoryRuins,
		Modifier: "history",
		Template: "%s, once %s.",
		aux:      []aux{treasures(2)},
	},
}
