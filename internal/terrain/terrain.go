// Package terrain infers a terrain name for an overland hex from layered
// noise, for callers that do not supply one.
package terrain

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/lawnchairsociety/hexforge/internal/hexgrid"
)

// Terrain names produced by the sampler.
const (
	Ocean     = "ocean"
	Mountains = "mountains"
	Tundra    = "tundra"
	Desert    = "desert"
	Swamp     = "swamp"
	Forest    = "forest"
	Hills     = "hills"
	Plains    = "plains"
)

// Config tunes the sampler thresholds.
type Config struct {
	Seed          int64   `yaml:"seed" env:"SEED"`
	SeaLevel      float64 `yaml:"sea_level" env:"SEA_LEVEL"`
	MountainLevel float64 `yaml:"mountain_level" env:"MOUNTAIN_LEVEL"`
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		Seed:          1,
		SeaLevel:      0.35,
		MountainLevel: 0.75,
	}
}

// Sampler maps hex coordinates to terrain. It is deterministic for a seed
// and safe for concurrent use.
type Sampler struct {
	cfg  Config
	elev opensimplex.Noise
	rain opensimplex.Noise
	temp opensimplex.Noise
}

// NewSampler creates a sampler with three independent noise layers.
func NewSampler(cfg Config) *Sampler {
	return &Sampler{
		cfg:  cfg,
		elev: opensimplex.NewNormalized(cfg.Seed),
		rain: opensimplex.NewNormalized(cfg.Seed + 1),
		temp: opensimplex.NewNormalized(cfg.Seed + 2),
	}
}

// At returns the terrain of the hex at c.
func (s *Sampler) At(c hexgrid.Coord) string {
	x, y := planar(c)

	elev := octaveNoise(s.elev, x, y, 4, 0.08, 0.5)
	rain := octaveNoise(s.rain, x, y, 3, 0.06, 0.5)
	temp := octaveNoise(s.temp, x, y, 3, 0.05, 0.5)

	// Higher ground is colder.
	temp = temp*0.8 + (1.0-elev)*0.2

	return classify(elev, rain, temp, s.cfg)
}

// planar converts a hex to continuous space: x = q + r/2, y = r*sqrt(3)/2.
func planar(c hexgrid.Coord) (float64, float64) {
	cube := c.Cube()
	x := float64(cube.Q) + float64(cube.R)*0.5
	y := float64(cube.R) * math.Sqrt(3.0) / 2.0
	return x, y
}

func classify(elev, rain, temp float64, cfg Config) string {
	switch {
	case elev < cfg.SeaLevel:
		return Ocean
	case elev > cfg.MountainLevel:
		return Mountains
	case temp < 0.25:
		return Tundra
	case rain < 0.25 && temp > 0.5:
		return Desert
	case rain > 0.7 && elev < 0.45:
		return Swamp
	case rain > 0.45 && elev > 0.45:
		return Forest
	case elev > 0.6:
		return Hills
	}
	return Plains
}

// octaveNoise layers several frequencies of noise, normalised to [0,1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
