package citygen

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/lawnchairsociety/hexforge/internal/city"
	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/crossref"
	"github.com/lawnchairsociety/hexforge/internal/hexgrid"
	"github.com/lawnchairsociety/hexforge/internal/logger"
	"github.com/lawnchairsociety/hexforge/internal/weighted"
)

// DefaultRadius is the round grid radius when a city sets none.
const DefaultRadius = 3

// EmptyDistrict is the district of cells that belong to none: blank
// matrix cells and round-grid cells.
const EmptyDistrict = "empty"

// Entry is one cell of a city grid.
type Entry struct {
	ID           int            `json:"id"`
	Row          int            `json:"row"`
	Col          int            `json:"col"`
	Position     string         `json:"position"`
	District     string         `json:"district"`
	Content      content.Record `json:"content"`
	RelatedHexes []string       `json:"related_hexes,omitempty"`
}

// Grid maps "row_col" keys to entries.
type Grid map[string]*Entry

// Keys returns the grid keys ordered by row then column.
func (g Grid) Keys() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := g[keys[i]], g[keys[j]]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	return keys
}

// Link annotates every entry with related cells.
func (g Grid) Link() {
	cells := make([]crossref.Cell, 0, len(g))
	for key, e := range g {
		cells = append(cells, crossref.Cell{
			Key:   key,
			Coord: hexgrid.Coord{Row: e.Row, Col: e.Col},
			Type:  e.Content.Type,
		})
	}
	for key, related := range crossref.Annotate(cells) {
		g[key].RelatedHexes = related
	}
}

func (g Grid) add(id *int, row, col int, district string, rec content.Record) {
	*id++
	coord := hexgrid.Coord{Row: row, Col: col}
	g[coord.Key()] = &Entry{
		ID:       *id,
		Row:      row,
		Col:      col,
		Position: coord.Code(),
		District: district,
		Content:  rec,
	}
}

// MatrixSize returns the row count and the widest row of the matrix.
func MatrixSize(matrix [][]string) (rows, cols int) {
	for _, row := range matrix {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return len(matrix), cols
}

// ApplyMatrix generates one entry per matrix cell. Short rows are padded
// with blank cells. Blank cells become empty records; names without a
// matching district are generated without district context.
func (g *Generator) ApplyMatrix(rng *rand.Rand, c *city.City) Grid {
	rows, cols := MatrixSize(c.Matrix)
	grid := make(Grid, rows*cols)
	id := 0

	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			name := ""
			if col < len(c.Matrix[r]) {
				name = c.Matrix[r][col]
			}

			if strings.TrimSpace(name) == "" {
				grid.add(&id, r, col, EmptyDistrict, content.NewEmpty())
				continue
			}

			district, ok := c.District(name)
			if !ok {
				logger.Debug("District not defined, generating without district tables",
					"city", c.Name, "district", name, "row", r, "col", col)
			}
			category := g.PickCategory(rng, district, c)
			grid.add(&id, r, col, name, g.Generate(rng, category, district, c))
		}
	}
	return grid
}

// bandWeights returns the category mix for a distance from the centre.
func bandWeights(distance int) []weighted.Option[content.Category] {
	switch {
	case distance == 0:
		return []weighted.Option[content.Category]{
			weighted.Of(content.CategoryLandmark, 0.40),
			weighted.Of(content.CategoryTemple, 0.30),
			weighted.Of(content.CategoryMarket, 0.30),
		}
	case distance <= 2:
		return []weighted.Option[content.Category]{
			weighted.Of(content.CategoryBuilding, 0.20),
			weighted.Of(content.CategoryMarket, 0.20),
			weighted.Of(content.CategoryTemple, 0.15),
			weighted.Of(content.CategoryTavern, 0.15),
			weighted.Of(content.CategoryGuild, 0.10),
			weighted.Of(content.CategoryStreet, 0.10),
			weighted.Of(content.CategoryLandmark, 0.10),
		}
	case distance <= 4:
		return []weighted.Option[content.Category]{
			weighted.Of(content.CategoryBuilding, 0.25),
			weighted.Of(content.CategoryStreet, 0.20),
			weighted.Of(content.CategoryResidence, 0.20),
			weighted.Of(content.CategoryDistrict, 0.15),
			weighted.Of(content.CategoryTavern, 0.10),
			weighted.Of(content.CategoryGuild, 0.10),
		}
	case distance <= 6:
		return []weighted.Option[content.Category]{
			weighted.Of(content.CategoryResidence, 0.30),
			weighted.Of(content.CategoryStreet, 0.25),
			weighted.Of(content.CategoryDistrict, 0.25),
			weighted.Of(content.CategoryRuins, 0.10),
			weighted.Of(content.CategoryBuilding, 0.10),
		}
	default:
		return []weighted.Option[content.Category]{
			weighted.Of(content.CategoryDistrict, 0.30),
			weighted.Of(content.CategoryRuins, 0.30),
			weighted.Of(content.CategoryResidence, 0.20),
			weighted.Of(content.CategoryStreet, 0.20),
		}
	}
}

// RoundGrid generates every cell within radius of the centre (radius,
// radius). Cells use the city-wide tables only and carry no district.
func (g *Generator) RoundGrid(rng *rand.Rand, c *city.City, radius int) Grid {
	if radius <= 0 {
		radius = DefaultRadius
	}
	grid := make(Grid)
	id := 0

	for row := 0; row <= 2*radius; row++ {
		for col := 0; col <= 2*radius; col++ {
			distance := hexgrid.Distance(row, col, radius, radius)
			if distance > radius {
				continue
			}
			category := weighted.MustChoose(rng, bandWeights(distance))
			grid.add(&id, row, col, EmptyDistrict, g.Generate(rng, category, nil, c))
		}
	}
	return grid
}
