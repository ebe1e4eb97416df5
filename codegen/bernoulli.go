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
	"math"
)

// Bernoulli is a biased coin. The probability is kept as a float in [0,1];
// legacy per-mille thresholds convert through PerMille.
type Bernoulli struct {
	p float64
}

// NewBernoulli returns a trial succeeding with probability p.
func NewBernoulli(p float64) (Bernoulli, error) {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return Bernoulli{}, fmt.Errorf("%w: probability %v outside [0,1]", ErrConfiguration, p)
	}
	return Bernoulli{p: p}, nil
}

// PerMille converts an integer threshold in [0,1000] to a Bernoulli trial.
func PerMille(n int) (Bernoulli, error) {
	if n < 0 || n > 1000 {
		return Bernoulli{}, fmt.Errorf("%w: per-mille value %d outside [0,1000]", ErrConfiguration, n)
	}
	return Bernoulli{p: float64(n) / 1000}, nil
}

// Trial draws once from r and reports success. A draw is consumed even for
// p of 0 or 1 so the random stream does not depend on the configuration.
func (b Bernoulli) Trial(r *Rand) bool {
	return r.Float64() < b.p
}

// P returns the success probability.
func (b Bernoulli) P() float64 {
	return b.p
}
