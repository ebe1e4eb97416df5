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

	"github.com/stretchr/testify/require"
)

func TestBernoulliExtremes(t *testing.T) {
	never, err := NewBernoulli(0)
	require.NoError(t, err)
	always, err := NewBernoulli(1)
	require.NoError(t, err)

	r := NewRand(3)
	for i := 0; i < 10000; i++ {
		if never.Trial(r) {
			t.Fatalf("trial %d: p=0 succeeded", i)
		}
		if !always.Trial(r) {
			t.Fatalf("trial %d: p=1 failed", i)
		}
	}
}

func TestBernoulliFrequency(t *testing.T) {
	b, err := PerMille(950)
	require.NoError(t, err)
	require.Equal(t, 0.95, b.P())

	var (
		r    = NewRand(11)
		hits int
	)
	for i := 0; i < 100000; i++ {
		if b.Trial(r) {
			hits++
		}
	}
	if have := float64(hits) / 100000; math.Abs(have-0.95) > 0.005 {
		t.Fatalf("success rate: have %.4f, want 0.95", have)
	}
}

func TestBernoulliInvalid(t *testing.T) {
	for _, p := range []float64{-0.1, 1.0001, math.NaN(), math.Inf(1)} {
		if _, err := NewBernoulli(p); !errors.Is(err, ErrConfiguration) {
			t.Errorf("p=%v: have error %v, want %v", p, err, ErrConfiguration)
		}
	}
	for _, n := range []int{-1, 1001} {
		if _, err := PerMille(n); !errors.Is(err, ErrConfiguration) {
			t.Errorf("per-mille %d: have error %v, want %v", n, err, ErrConfiguration)
		}
	}
}

// Trials must consume one draw regardless of p, so that changing a
// probability does not shift the rest of the random stream.
func TestBernoulliConsumesDraw(t *testing.T) {
	never, _ := NewBernoulli(0)
	r, ref := NewRand(5), NewRand(5)
	never.Trial(r)
	ref.Float64()
	require.Equal(t, ref.Uint64(), r.Uint64())
}
