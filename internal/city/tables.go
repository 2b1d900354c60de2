package city

import (
	"strings"

	"github.com/lawnchairsociety/hexforge/internal/content"
)

// Standard table names shared by every scope.
const (
	TableNames       = "names"
	TableEncounter   = "encounter"
	TableAtmosphere  = "atmosphere"
	TableRandomTable = "random_table"
)

// TableSet holds the authored tables of a city or a district. Name lists
// are per category; Tables carries any other named list (purpose, deity ...)
// keyed by category then table name.
type TableSet struct {
	Buildings           []string                       `json:"buildings" yaml:"buildings"`
	Streets             []string                       `json:"streets" yaml:"streets"`
	Landmarks           []string                       `json:"landmarks" yaml:"landmarks"`
	Markets             []string                       `json:"markets" yaml:"markets"`
	Temples             []string                       `json:"temples" yaml:"temples"`
	Taverns             []string                       `json:"taverns" yaml:"taverns"`
	Guilds              []string                       `json:"guilds" yaml:"guilds"`
	Residences          []string                       `json:"residences" yaml:"residences"`
	Ruins               []string                       `json:"ruins" yaml:"ruins"`
	Encounters          map[string][]string            `json:"encounters" yaml:"encounters"`
	RandomTables        map[string][]string            `json:"random_tables" yaml:"random_tables"`
	AtmosphereModifiers []string                       `json:"atmosphere_modifiers" yaml:"atmosphere_modifiers"`
	Tables              map[string]map[string][]string `json:"tables" yaml:"tables"`
}

// names returns the authored name list for a category.
func (t *TableSet) names(category content.Category) []string {
	switch category {
	case content.CategoryBuilding:
		return t.Buildings
	case content.CategoryStreet:
		return t.Streets
	case content.CategoryLandmark:
		return t.Landmarks
	case content.CategoryMarket:
		return t.Markets
	case content.CategoryTemple:
		return t.Temples
	case content.CategoryTavern:
		return t.Taverns
	case content.CategoryGuild:
		return t.Guilds
	case content.CategoryResidence:
		return t.Residences
	case content.CategoryRuins:
		return t.Ruins
	}
	return nil
}

// Lookup returns the table called name for category, or nil.
func (t *TableSet) Lookup(category content.Category, name string) []string {
	if t == nil {
		return nil
	}
	key := category.String()
	switch name {
	case TableNames:
		if list := t.names(category); len(list) > 0 {
			return list
		}
	case TableEncounter:
		if list := t.Encounters[key]; len(list) > 0 {
			return list
		}
	case TableRandomTable:
		if list := t.RandomTables[key]; len(list) > 0 {
			return list
		}
	case TableAtmosphere:
		if len(t.AtmosphereModifiers) > 0 {
			return t.AtmosphereModifiers
		}
	}
	return t.Tables[key][name]
}

// capabilities returns the city categories with a non-empty names table.
func (t *TableSet) capabilities() map[content.Category]bool {
	caps := make(map[content.Category]bool)
	for _, c := range content.CityCategories {
		if len(t.Lookup(c, TableNames)) > 0 {
			caps[c] = true
		}
	}
	return caps
}

func (t TableSet) clone() TableSet {
	c := t
	c.Buildings = cloneList(t.Buildings)
	c.Streets = cloneList(t.Streets)
	c.Landmarks = cloneList(t.Landmarks)
	c.Markets = cloneList(t.Markets)
	c.Temples = cloneList(t.Temples)
	c.Taverns = cloneList(t.Taverns)
	c.Guilds = cloneList(t.Guilds)
	c.Residences = cloneList(t.Residences)
	c.Ruins = cloneList(t.Ruins)
	c.Encounters = cloneListMap(t.Encounters)
	c.RandomTables = cloneListMap(t.RandomTables)
	c.AtmosphereModifiers = cloneList(t.AtmosphereModifiers)
	if t.Tables != nil {
		c.Tables = make(map[string]map[string][]string, len(t.Tables))
		for k, v := range t.Tables {
			c.Tables[k] = cloneListMap(v)
		}
	}
	return c
}

func cloneList(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneListMap(in map[string][]string) map[string][]string {
	if in == nil {
		return nil
	}
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = cloneList(v)
	}
	return out
}

// normalizeKey lower-cases and trims a name for case-insensitive matching.
func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
