package overlay

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lawnchairsociety/hexforge/internal/content"
	"github.com/lawnchairsociety/hexforge/internal/crossref"
	"github.com/lawnchairsociety/hexforge/internal/hexgrid"
	"github.com/lawnchairsociety/hexforge/internal/logger"
)

// Failure records a hex that could not be generated.
type Failure struct {
	Hex   string `json:"hex"`
	Error string `json:"error"`
}

// MapResult is the output of a full map run.
type MapResult struct {
	RunID    string                    `json:"run_id"`
	Hexes    map[string]content.Record `json:"hexes"`
	Related  map[string][]string       `json:"related_hexes,omitempty"`
	Failures []Failure                 `json:"failures"`
	Duration time.Duration             `json:"duration"`
}

// MapOptions selects what a map run covers. Zero values use the
// generator's bounds and parallelism.
type MapOptions struct {
	Bounds      hexgrid.Bounds
	Parallelism int
	// Terrain overrides the sampler for specific hex codes.
	Terrain map[string]string
}

type hexJob struct {
	coord hexgrid.Coord
	rng   *rand.Rand
}

// GenerateMap generates every hex in bounds. Hexes are generated in
// parallel; a hex that fails is recorded and the run continues.
func (g *Generator) GenerateMap(opts MapOptions) *MapResult {
	start := time.Now()
	if opts.Bounds.Len() == 0 {
		opts.Bounds = g.opts.Bounds
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = g.opts.Parallelism
	}

	result := &MapResult{
		RunID:    uuid.NewString(),
		Hexes:    make(map[string]content.Record, opts.Bounds.Len()),
		Failures: []Failure{},
	}

	// Sources are derived up front so the outcome does not depend on
	// goroutine scheduling.
	jobs := make([]hexJob, 0, opts.Bounds.Len())
	opts.Bounds.Each(func(c hexgrid.Coord) {
		jobs = append(jobs, hexJob{coord: c, rng: g.nextRand()})
	})

	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(opts.Parallelism)

	for _, job := range jobs {
		eg.Go(func() error {
			code := job.coord.Code()
			rec, err := g.safeHex(job, opts.Terrain[code])

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, Failure{Hex: code, Error: err.Error()})
				return nil
			}
			result.Hexes[code] = rec
			return nil
		})
	}
	_ = eg.Wait()

	result.Related = linkHexes(result.Hexes)
	result.Duration = time.Since(start)

	logger.Info("Map run complete",
		"run_id", result.RunID,
		"hexes", len(result.Hexes),
		"failures", len(result.Failures),
		"duration", result.Duration)
	return result
}

// safeHex generates one hex, turning a panic into an error.
func (g *Generator) safeHex(job hexJob, terrainName string) (rec content.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation panicked: %v", r)
		}
	}()
	return g.hex(job.rng, job.coord, terrainName), nil
}

func linkHexes(hexes map[string]content.Record) map[string][]string {
	cells := make([]crossref.Cell, 0, len(hexes))
	for code, rec := range hexes {
		coord, err := hexgrid.ParseCode(code)
		if err != nil {
			continue
		}
		cells = append(cells, crossref.Cell{Key: code, Coord: coord, Type: rec.Type})
	}
	return crossref.Annotate(cells)
}
