// Package dist provides weighted categorical sampling and small
// slice-sampling helpers on top of math/rand/v2.
package dist

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
)

// ErrInvalidWeights is returned when a distribution cannot be built.
var ErrInvalidWeights = errors.New("invalid weights")

// Weighted is a discrete distribution over items. Weights are stored as
// a cumulative table so a draw is one uniform sample and a binary search.
type Weighted[T any] struct {
	items      []T
	cumulative []float64
}

// NewWeighted builds a distribution. items and weights must have the
// same non-zero length, weights must be non-negative, and their sum
// must be positive.
func NewWeighted[T any](items []T, weights []float64) (*Weighted[T], error) {
	if len(items) == 0 || len(items) != len(weights) {
		return nil, fmt.Errorf("%w: %d items, %d weights", ErrInvalidWeights, len(items), len(weights))
	}

	cumulative := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight %v at %d", ErrInvalidWeights, w, i)
		}
		total += w
		cumulative[i] = total
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: total weight is zero", ErrInvalidWeights)
	}

	return &Weighted[T]{
		items:      append([]T(nil), items...),
		cumulative: cumulative,
	}, nil
}

// MustWeighted is NewWeighted for package-level tables; it panics on
// invalid input.
func MustWeighted[T any](items []T, weights []float64) *Weighted[T] {
	w, err := NewWeighted(items, weights)
	if err != nil {
		panic(err)
	}
	return w
}

// Draw returns one item sampled proportionally to its weight.
func (w *Weighted[T]) Draw(r *rand.Rand) T {
	total := w.cumulative[len(w.cumulative)-1]
	x := r.Float64() * total
	i := sort.Search(len(w.cumulative), func(i int) bool { return w.cumulative[i] > x })
	if i == len(w.items) {
		i = len(w.items) - 1
	}
	return w.items[i]
}

// Len returns the number of categories.
func (w *Weighted[T]) Len() int { return len(w.items) }

// Pick returns a uniformly random element of items. items must be
// non-empty.
func Pick[T any](r *rand.Rand, items []T) T {
	return items[r.IntN(len(items))]
}

// Between returns a uniformly random integer in [lo, hi].
func Between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Chance reports true with probability p.
func Chance(r *rand.Rand, p float64) bool {
	return r.Float64() < p
}

// Shuffled returns a shuffled copy of items.
func Shuffled[T any](r *rand.Rand, items []T) []T {
	out := append([]T(nil), items...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// NewRand returns a PCG source seeded from seed. A zero seed is
// replaced with a random one so unseeded runs still differ.
func NewRand(seed uint64) (*rand.Rand, uint64) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), seed
}
