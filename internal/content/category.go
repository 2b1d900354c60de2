package content

import (
	"fmt"
	"strings"
)

// Category is the kind of content occupying a cell
type Category int

const (
	CategoryEmpty    Category = iota // Blank matrix cell placeholder
	CategoryDistrict                 // Generic city quarter
	CategoryBuilding
	CategoryStreet
	CategoryLandmark
	CategoryMarket
	CategoryTemple
	CategoryTavern
	CategoryGuild
	CategoryResidence
	CategoryRuins
	CategorySettlement // Overland categories start here
	CategoryDungeon
	CategoryBeast
	CategoryNPC
	CategorySeaEncounter
)

var categoryNames = map[Category]string{
	CategoryEmpty:        "empty",
	CategoryDistrict:     "district",
	CategoryBuilding:     "building",
	CategoryStreet:       "street",
	CategoryLandmark:     "landmark",
	CategoryMarket:       "market",
	CategoryTemple:       "temple",
	CategoryTavern:       "tavern",
	CategoryGuild:        "guild",
	CategoryResidence:    "residence",
	CategoryRuins:        "ruins",
	CategorySettlement:   "settlement",
	CategoryDungeon:      "dungeon",
	CategoryBeast:        "beast",
	CategoryNPC:          "npc",
	CategorySeaEncounter: "sea_encounter",
}

// CityCategories lists the categories a city cell can hold, in table order.
var CityCategories = []Category{
	CategoryDistrict,
	CategoryBuilding,
	CategoryStreet,
	CategoryLandmark,
	CategoryMarket,
	CategoryTemple,
	CategoryTavern,
	CategoryGuild,
	CategoryResidence,
	CategoryRuins,
}

// String returns the string representation of a Category
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Title returns the category name for display, e.g. "Sea Encounter".
func (c Category) Title() string {
	switch c {
	case CategoryNPC:
		return "NPC"
	case CategorySeaEncounter:
		return "Sea Encounter"
	}
	s := c.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseCategory converts a string to a Category
func ParseCategory(s string) (Category, bool) {
	for c, name := range categoryNames {
		if name == s {
			return c, true
		}
	}
	return CategoryEmpty, false
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	if _, ok := categoryNames[c]; !ok {
		return nil, fmt.Errorf("unknown category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := ParseCategory(string(text))
	if !ok {
		return fmt.Errorf("unknown category %q", string(text))
	}
	*c = parsed
	return nil
}
