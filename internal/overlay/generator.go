// Package overlay is the generation entry point: city overlays, single
// overland hexes and full map runs, over an explicit cache.
package overlay

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/lawnchairsociety/hexforge/internal/city"
	"github.com/lawnchairsociety/hexforge/internal/citygen"
	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/continent"
	"github.com/lawnchairsociety/hexforge/internal/hexgrid"
	"github.com/lawnchairsociety/hexforge/internal/tables"
	"github.com/lawnchairsociety/hexforge/internal/terrain"
)

// ErrUnknownOverlay is returned for a city name with no document.
var ErrUnknownOverlay = errors.New("unknown overlay")

// Grid types reported on an overlay.
const (
	GridDistrictMatrix = "district_matrix"
	GridRound          = "round"
	GridLocked         = "locked"
)

// Overlay is a generated city grid.
type Overlay struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	GridType    string       `json:"gridType"`
	Radius      int          `json:"radius"`
	HexGrid     citygen.Grid `json:"hexGrid"`
	TotalHexes  int          `json:"totalHexes"`
}

// CitySummary describes a loaded city for listings.
type CitySummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Locked      bool   `json:"locked,omitempty"`
}

// Options configures a Generator.
type Options struct {
	Language    string
	Bounds      hexgrid.Bounds
	Parallelism int
	Terrain     terrain.Config
}

// DefaultOptions returns the default generator options.
func DefaultOptions() Options {
	return Options{
		Language:    tables.DefaultLanguage,
		Bounds:      hexgrid.Bounds{Cols: 40, Rows: 30},
		Parallelism: 4,
		Terrain:     terrain.DefaultConfig(),
	}
}

// Generator produces overlays and hex content. It is safe for concurrent
// use; every call draws from its own random source.
type Generator struct {
	cache   *Cache
	lore    continent.Lore
	sampler *terrain.Sampler
	opts    Options

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a generator. lore may be nil.
func New(cache *Cache, lore continent.Lore, opts Options) *Generator {
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	return &Generator{
		cache:   cache,
		lore:    lore,
		sampler: terrain.NewSampler(opts.Terrain),
		opts:    opts,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand replaces the master random source. Tests use it to make runs
// reproducible.
func (g *Generator) WithRand(rng *rand.Rand) *Generator {
	g.mu.Lock()
	g.rng = rng
	g.mu.Unlock()
	return g
}

// Cache returns the generator's cache.
func (g *Generator) Cache() *Cache {
	return g.cache
}

// Bounds returns the overland map bounds.
func (g *Generator) Bounds() hexgrid.Bounds {
	return g.opts.Bounds
}

// nextRand derives an independent source from the master source.
func (g *Generator) nextRand() *rand.Rand {
	g.mu.Lock()
	seed := g.rng.Int63()
	g.mu.Unlock()
	return rand.New(rand.NewSource(seed))
}

func (g *Generator) resolver() *tables.Resolver {
	return tables.NewResolver(g.cache.Tables(), g.opts.Language)
}

// Cities lists the loaded cities by name.
func (g *Generator) Cities() []CitySummary {
	dir := g.cache.Cities()
	names := dir.Names()
	out := make([]CitySummary, 0, len(names))
	for _, name := range names {
		c, ok := dir.Get(name)
		if !ok {
			continue
		}
		out = append(out, CitySummary{Name: c.Name, DisplayName: c.Title(), Locked: c.Locked})
	}
	return out
}

// GenerateCityOverlay builds the grid of the named city. Locked cities
// return their authored grid; cities with a district matrix are generated
// cell by cell; the rest get a round grid.
func (g *Generator) GenerateCityOverlay(name string) (*Overlay, error) {
	src, ok := g.cache.City(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOverlay, name)
	}
	c := src.Clone()

	o := &Overlay{Name: c.Name, DisplayName: c.Title()}
	switch {
	case c.Locked && len(c.FixedGrid) > 0:
		o.GridType = GridLocked
		o.HexGrid, o.Radius = lockedGrid(c)
	case c.HasMatrix():
		gen := citygen.NewGenerator(g.resolver())
		o.GridType = GridDistrictMatrix
		o.HexGrid = gen.ApplyMatrix(g.nextRand(), c)
		o.Radius = matrixRadius(citygen.MatrixSize(c.Matrix))
		o.HexGrid.Link()
	default:
		gen := citygen.NewGenerator(g.resolver())
		o.GridType = GridRound
		o.Radius = c.Radius
		if o.Radius <= 0 {
			o.Radius = citygen.DefaultRadius
		}
		o.HexGrid = gen.RoundGrid(g.nextRand(), c, o.Radius)
		o.HexGrid.Link()
	}
	o.TotalHexes = len(o.HexGrid)
	return o, nil
}

// matrixRadius is half the larger matrix dimension, rounded up.
func matrixRadius(rows, cols int) int {
	m := rows
	if cols > m {
		m = cols
	}
	return (m + 1) / 2
}

// lockedGrid copies the authored grid of a locked city.
func lockedGrid(c *city.City) (citygen.Grid, int) {
	keys := make([]string, 0, len(c.FixedGrid))
	for k := range c.FixedGrid {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := c.FixedGrid[keys[i]], c.FixedGrid[keys[j]]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return keys[i] < keys[j]
	})

	grid := make(citygen.Grid, len(keys))
	rows, cols := 0, 0
	for i, k := range keys {
		cell := c.FixedGrid[k]
		rec := cell.Content.Clone()
		grid[k] = &citygen.Entry{
			ID:       i + 1,
			Row:      cell.Row,
			Col:      cell.Col,
			Position: hexgrid.Coord{Row: cell.Row, Col: cell.Col}.Code(),
			District: cell.District,
			Content:  rec,
		}
		if cell.Row+1 > rows {
			rows = cell.Row + 1
		}
		if cell.Col+1 > cols {
			cols = cell.Col + 1
		}
	}
	return grid, matrixRadius(rows, cols)
}

// GenerateHexContent returns the content of an overland hex. An empty
// terrain is inferred from the terrain sampler.
func (g *Generator) GenerateHexContent(code, terrainName string) (content.Record, error) {
	coord, err := g.opts.Bounds.ParseCodeIn(code)
	if err != nil {
		return content.Record{}, err
	}
	return g.hex(g.nextRand(), coord, terrainName), nil
}

func (g *Generator) hex(rng *rand.Rand, coord hexgrid.Coord, terrainName string) content.Record {
	if terrainName == "" {
		terrainName = g.sampler.At(coord)
	}
	gen := continent.NewGenerator(g.resolver(), g.lore)
	return gen.Generate(rng, coord.Code(), terrainName)
}
