// Package weighted picks one option from an ordered list of weights with a
// single cumulative draw.
package weighted

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidWeights is returned when no option can be drawn: the list is
// empty, a weight is negative, or every weight of a multi-entry list is zero.
var ErrInvalidWeights = errors.New("invalid weights")

// Option is a value with a relative weight.
type Option[T any] struct {
	Value  T
	Weight float64
}

// Of is shorthand for building an Option.
func Of[T any](value T, weight float64) Option[T] {
	return Option[T]{Value: value, Weight: weight}
}

// Choose draws uniformly in [0, sum) and walks the options in order,
// returning the first whose cumulative weight reaches the draw.
//
// A single option is always returned, whatever its weight.
func Choose[T any](rng *rand.Rand, options []Option[T]) (T, error) {
	var zero T

	switch len(options) {
	case 0:
		return zero, fmt.Errorf("%w: no options", ErrInvalidWeights)
	case 1:
		return options[0].Value, nil
	}

	total := 0.0
	for _, o := range options {
		if o.Weight < 0 {
			return zero, fmt.Errorf("%w: negative weight %v", ErrInvalidWeights, o.Weight)
		}
		total += o.Weight
	}
	if total == 0 {
		return zero, fmt.Errorf("%w: all %d weights are zero", ErrInvalidWeights, len(options))
	}

	draw := rng.Float64() * total
	cumulative := 0.0
	last := 0
	for i, o := range options {
		if o.Weight == 0 {
			continue
		}
		cumulative += o.Weight
		last = i
		if cumulative >= draw {
			return o.Value, nil
		}
	}

	// Float rounding can leave the draw a hair above the final sum.
	return options[last].Value, nil
}

// MustChoose is Choose for option lists known to be valid at compile time.
// It panics on ErrInvalidWeights.
func MustChoose[T any](rng *rand.Rand, options []Option[T]) T {
	v, err := Choose(rng, options)
	if err != nil {
		panic(err)
	}
	return v
}

// Roll reports whether an event with the given probability happens.
func Roll(rng *rand.Rand, chance float64) bool {
	return rng.Float64() < chance
}
