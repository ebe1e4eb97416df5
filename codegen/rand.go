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
	"github.com/ethereum/go-ethereum/core/vm"
	"golang.org/x/exp/rand"
)

// Rand is the random source threaded through generation, repair and mutation.
// It is not safe for concurrent use; give each goroutine its own instance.
// Seed (promoted from the embedded generator) resets it, making subsequent
// draws reproducible.
type Rand struct {
	*rand.Rand
}

// NewRand creates a PCG-backed source seeded with seed.
func NewRand(seed uint64) *Rand {
	return &Rand{rand.New(rand.NewSource(seed))}
}

// UniInteger returns a uniform integer in the closed range [lo, hi].
func (r *Rand) UniInteger(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// ByteSequence returns n uniformly random bytes.
func (r *Rand) ByteSequence(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	buf := make([]byte, n)
	r.Read(buf)
	return buf
}

// Opcode returns a uniformly random byte interpreted as an opcode, defined or not.
func (r *Rand) Opcode() vm.OpCode {
	return vm.OpCode(r.Intn(256))
}

// SmallMemoryLength1024 favours short lengths: mostly below 32, sometimes a
// word multiple and occasionally anything up to 1024.
func (r *Rand) SmallMemoryLength1024() int {
	switch p := r.Intn(100); {
	case p < 60:
		return r.UniInteger(0, 32)
	case p < 90:
		return 32 * r.UniInteger(0, 32)
	default:
		return r.UniInteger(0, 1024)
	}
}

// Length32 returns a length in [0, 32].
func (r *Rand) Length32() int {
	return r.UniInteger(0, 32)
}
