// Copyright 2025 R5
// This file is part of the R5 Core library.
//
// This software is provided "as is", without warranty of any kind,
// express or implied, including but not limited to the warranties
// of merchantability, fitness for a particular purpose and
// noninfringement. In no event shall the authors or copyright
// holders be liable for any claim, damages, or other liability,
// whether in an action of contract, tort or otherwise, arising
// from, out of or in connection with the software or the use or
// other dealings in the software.

package codegen

import (
	"fmt"
	"sort"
)

// Choice is a candidate together with its relative weight.
type Choice[T any] struct {
	Item   T
	Weight int
}

// WeightedRandomizer draws candidates with probability proportional to their
// weight. Candidates are kept in table order so that draws are reproducible
// for a given seed.
type WeightedRandomizer[T any] struct {
	items  []T
	bounds []int // cumulative weights
	total  int
}

// NewWeightedRandomizer builds a randomizer from an ordered weight table. An
// empty table or a non-positive weight is a configuration error.
func NewWeightedRandomizer[T any](choices []Choice[T]) (*WeightedRandomizer[T], error) {
	if len(choices) == 0 {
		return nil, fmt.Errorf("%w: empty weight table", ErrConfiguration)
	}
	w := &WeightedRandomizer[T]{
		items:  make([]T, 0, len(choices)),
		bounds: make([]int, 0, len(choices)),
	}
	for i, c := range choices {
		if c.Weight <= 0 {
			return nil, fmt.Errorf("%w: weight %d of entry %d (%v) must be positive", ErrConfiguration, c.Weight, i, c.Item)
		}
		w.total += c.Weight
		w.items = append(w.items, c.Item)
		w.bounds = append(w.bounds, w.total)
	}
	return w, nil
}

// Random draws one candidate.
func (w *WeightedRandomizer[T]) Random(r *Rand) T {
	if len(w.items) == 1 {
		return w.items[0]
	}
	n := r.Intn(w.total)
	return w.items[sort.SearchInts(w.bounds, n+1)]
}

// Len returns the number of candidates.
func (w *WeightedRandomizer[T]) Len() int {
	return len(w.items)
}

// Total returns the sum of all weights.
func (w *WeightedRandomizer[T]) Total() int {
	return w.total
}
