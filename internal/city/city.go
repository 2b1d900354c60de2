// Package city loads city documents: districts, the district matrix and the
// city-wide tables districts fall back to.
package city

import (
	"github.com/lawnchairsociety/hexforge/internal/content"
)

// District is one authored quarter of a city.
type District struct {
	Name     string `json:"name" yaml:"name"`
	Theme    string `json:"theme,omitempty" yaml:"theme,omitempty"`
	TableSet `yaml:",inline"`

	caps map[content.Category]bool
}

// Lookup returns the district's table called name for category. For the
// district category the names table is the district's own name.
func (d *District) Lookup(category content.Category, name string) []string {
	if d == nil {
		return nil
	}
	if category == content.CategoryDistrict {
		switch name {
		case TableNames:
			return []string{d.Name}
		case "theme":
			if d.Theme != "" {
				return []string{d.Theme}
			}
		}
	}
	return d.TableSet.Lookup(category, name)
}

// Has reports whether the district authored names for category.
func (d *District) Has(category content.Category) bool {
	if d == nil {
		return false
	}
	if d.caps == nil {
		d.caps = d.TableSet.capabilities()
	}
	return d.caps[category]
}

// City is a city document.
type City struct {
	Name        string      `json:"name" yaml:"name"`
	DisplayName string      `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Radius      int         `json:"radius,omitempty" yaml:"radius,omitempty"`
	Districts   []*District `json:"districts" yaml:"districts"`
	Matrix      [][]string  `json:"district_matrix" yaml:"district_matrix"`
	TableSet    `yaml:",inline"`

	// Locked cities carry a fixed grid that generation returns verbatim.
	Locked    bool                 `json:"locked,omitempty" yaml:"locked,omitempty"`
	FixedGrid map[string]FixedCell `json:"hex_grid,omitempty" yaml:"hex_grid,omitempty"`

	caps      map[content.Category]bool
	districts map[string]*District
}

// FixedCell is one authored cell of a locked city.
type FixedCell struct {
	Row      int            `json:"row" yaml:"row"`
	Col      int            `json:"col" yaml:"col"`
	District string         `json:"district" yaml:"district"`
	Content  content.Record `json:"content" yaml:"content"`
}

// Prepare computes the capability sets and the district index. Loaders
// call it once; Clone carries the result over.
func (c *City) Prepare() {
	c.caps = c.TableSet.capabilities()
	c.districts = make(map[string]*District, len(c.Districts))
	for _, d := range c.Districts {
		if d == nil {
			continue
		}
		d.caps = d.TableSet.capabilities()
		key := normalizeKey(d.Name)
		if _, dup := c.districts[key]; !dup {
			c.districts[key] = d
		}
	}
}

// Title returns the display name, or the name when none is set.
func (c *City) Title() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

// District finds a district by name, ignoring case and surrounding space.
func (c *City) District(name string) (*District, bool) {
	if c == nil {
		return nil, false
	}
	if c.districts == nil {
		c.Prepare()
	}
	d, ok := c.districts[normalizeKey(name)]
	return d, ok
}

// Lookup returns the city-wide table called name for category. Defined
// districts are not a names table: only their own cells carry their name.
func (c *City) Lookup(category content.Category, name string) []string {
	if c == nil {
		return nil
	}
	return c.TableSet.Lookup(category, name)
}

// Has reports whether the city-wide tables author names for category.
func (c *City) Has(category content.Category) bool {
	if c == nil {
		return false
	}
	if c.caps == nil {
		c.Prepare()
	}
	return c.caps[category]
}

// HasMatrix reports whether a district matrix is authored.
func (c *City) HasMatrix() bool {
	for _, row := range c.Matrix {
		if len(row) > 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can use a city without sharing it
// across requests.
func (c *City) Clone() *City {
	if c == nil {
		return nil
	}
	out := *c
	out.TableSet = c.TableSet.clone()

	out.Districts = make([]*District, 0, len(c.Districts))
	for _, d := range c.Districts {
		if d == nil {
			continue
		}
		dc := *d
		dc.TableSet = d.TableSet.clone()
		out.Districts = append(out.Districts, &dc)
	}

	if c.Matrix != nil {
		out.Matrix = make([][]string, len(c.Matrix))
		for i, row := range c.Matrix {
			out.Matrix[i] = cloneList(row)
		}
	}

	if c.FixedGrid != nil {
		out.FixedGrid = make(map[string]FixedCell, len(c.FixedGrid))
		for k, cell := range c.FixedGrid {
			cell.Content = cell.Content.Clone()
			out.FixedGrid[k] = cell
		}
	}

	out.Prepare()
	return &out
}
