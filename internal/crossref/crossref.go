// Package crossref links generated cells to nearby related cells.
package crossref

import (
	"sort"

	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/hexgrid"
)

const (
	// MaxLinks caps the related cells listed per cell.
	MaxLinks = 3
	// SameTypeRange is the reach for cells of the same category.
	SameTypeRange = 2
	// ComplementRange is the reach for complementary categories.
	ComplementRange = 3
)

// Cell is the part of a grid cell the annotator needs.
type Cell struct {
	Key   string
	Coord hexgrid.Coord
	Type  content.Category
}

var complements = map[content.Category][]content.Category{}

func init() {
	pairs := [][2]content.Category{
		{content.CategoryTavern, content.CategoryMarket},
		{content.CategoryTemple, content.CategoryRuins},
		{content.CategoryGuild, content.CategoryMarket},
		{content.CategoryBuilding, content.CategoryStreet},
		{content.CategoryResidence, content.CategoryTavern},
		{content.CategoryLandmark, content.CategoryTemple},
		{content.CategoryDungeon, content.CategoryBeast},
		{content.CategorySettlement, content.CategoryNPC},
		{content.CategorySeaEncounter, content.CategorySettlement},
	}
	for _, p := range pairs {
		complements[p[0]] = append(complements[p[0]], p[1])
		complements[p[1]] = append(complements[p[1]], p[0])
	}
}

// Complementary reports whether a and b are a complementary pair.
func Complementary(a, b content.Category) bool {
	for _, c := range complements[a] {
		if c == b {
			return true
		}
	}
	return false
}

type link struct {
	key      string
	distance int
}

// Annotate returns, for every cell with at least one relation, the keys of
// up to MaxLinks related cells ordered by distance then key. Empty cells
// neither link nor are linked. Cells are bucketed by coordinate so only
// the neighbourhood within reach of each cell is examined.
func Annotate(cells []Cell) map[string][]string {
	byCoord := make(map[hexgrid.Coord][]int, len(cells))
	for i, c := range cells {
		if c.Type != content.CategoryEmpty {
			byCoord[c.Coord] = append(byCoord[c.Coord], i)
		}
	}

	reach := max(SameTypeRange, ComplementRange)
	out := make(map[string][]string)

	for i, a := range cells {
		if a.Type == content.CategoryEmpty {
			continue
		}
		var links []link
		// a hex step moves at most one row and one column
		for row := a.Coord.Row - reach; row <= a.Coord.Row+reach; row++ {
			for col := a.Coord.Col - reach; col <= a.Coord.Col+reach; col++ {
				for _, j := range byCoord[hexgrid.Coord{Row: row, Col: col}] {
					if i == j {
						continue
					}
					if l, ok := relate(a, cells[j]); ok {
						links = append(links, l)
					}
				}
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

		keys := make([]string, len(links))
		for k, l := range links {
			keys[k] = l.key
		}
		out[a.Key] = keys
	}
	return out
}

// relate reports whether b is related to a and at what distance.
func relate(a, b Cell) (link, bool) {
	d := a.Coord.DistanceTo(b.Coord)
	switch {
	case a.Type == b.Type && d <= SameTypeRange:
		return link{b.Key, d}, true
	case Complementary(a.Type, b.Type) && d <= ComplementRange:
		return link{b.Key, d}, true
	}
	return link{}, false
}
