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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedRandomizerConvergence(t *testing.T) {
	w, err := NewWeightedRandomizer([]Choice[string]{{"a", 1}, {"b", 2}, {"c", 7}})
	require.NoError(t, err)
	require.Equal(t, 3, w.Len())
	require.Equal(t, 10, w.Total())

	var (
		r      = NewRand(1)
		counts = make(map[string]int)
		draws  = 100000
	)
	for i := 0; i < draws; i++ {
		counts[w.Random(r)]++
	}
	for item, want := range map[string]float64{"a": 0.1, "b": 0.2, "c": 0.7} {
		have := float64(counts[item]) / float64(draws)
		if math.Abs(have-want) > 0.01 {
			t.Errorf("frequency of %q: have %.3f, want %.3f", item, have, want)
		}
	}
}

func TestWeightedRandomizerSingle(t *testing.T) {
	w, err := NewWeightedRandomizer([]Choice[int]{{42, 5}})
	require.NoError(t, err)

	r, ref := NewRand(7), NewRand(7)
	for i := 0; i < 10; i++ {
		require.Equal(t, 42, w.Random(r))
	}
	// A single candidate must not consume randomness.
	assert.Equal(t, ref.Uint64(), r.Uint64())
}

func TestWeightedRandomizerInvalid(t *testing.T) {
	tests := [][]Choice[string]{
		nil,
		{},
		{{"a", 0}},
		{{"a", 1}, {"b", -3}},
	}
	for i, table := range tests {
		if _, err := NewWeightedRandomizer(table); !errors.Is(err, ErrConfiguration) {
			t.Errorf("test %d: have error %v, want %v", i, err, ErrConfiguration)
		}
	}
}

func TestWeightedRandomizerDeterministic(t *testing.T) {
	w, err := NewWeightedRandomizer(EVMCategory.Categories)
	require.NoError(t, err)

	a, b := NewRand(99), NewRand(99)
	for i := 0; i < 1000; i++ {
		require.Equal(t, w.Random(a), w.Random(b), "draw %d", i)
	}
}
