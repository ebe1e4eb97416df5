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
	"slices"
)

// BytecodeMutator applies n random edits to raw code. The input is not modified.
type BytecodeMutator func(r *Rand, code []byte, n int) ([]byte, error)

// Bytecode mutator names, as used in config files and results.
const (
	MutDupByte           = "DupByte"
	MutInsertRandomBytes = "InsertRandomBytes"
	MutDropByte          = "DropByte"
	MutSwitchRandom      = "SwitchRandom"
)

var bytecodeMutators = map[string]BytecodeMutator{
	MutDupByte:           DupByte,
	MutInsertRandomBytes: InsertRandomBytes,
	MutDropByte:          DropByte,
	MutSwitchRandom:      SwitchRandom,
}

func errEmptyCode(name string) error {
	return fmt.Errorf("%w: %s on empty code", ErrBounds, name)
}

// DropByte removes min(n, len(code)) random bytes.
func DropByte(r *Rand, code []byte, n int) ([]byte, error) {
	if len(code) == 0 {
		return nil, errEmptyCode(MutDropByte)
	}
	out := slices.Clone(code)
	for i := min(n, len(out)); i > 0; i-- {
		idx := r.Intn(len(out))
		out = slices.Delete(out, idx, idx+1)
	}
	return out, nil
}

// DupByte duplicates n random bytes, each copy placed right after its source.
func DupByte(r *Rand, code []byte, n int) ([]byte, error) {
	if len(code) == 0 {
		return nil, errEmptyCode(MutDupByte)
	}
	out := slices.Clone(code)
	for i := 0; i < n; i++ {
		idx := r.Intn(len(out))
		out = slices.Insert(out, idx+1, out[idx])
	}
	return out, nil
}

// InsertRandomBytes inserts n random bytes, each before a random position.
func InsertRandomBytes(r *Rand, code []byte, n int) ([]byte, error) {
	if len(code) == 0 {
		return nil, errEmptyCode(MutInsertRandomBytes)
	}
	out := slices.Clone(code)
	for i := 0; i < n; i++ {
		b := byte(r.Intn(256))
		out = slices.Insert(out, r.Intn(len(out)), b)
	}
	return out, nil
}

// SwitchRandom swaps two non-overlapping regions of equal size. The size is
// drawn from [0, n] and shrunk to fit between and after the two start offsets,
// so the code length never changes.
func SwitchRandom(r *Rand, code []byte, n int) ([]byte, error) {
	if len(code) == 0 {
		return nil, errEmptyCode(MutSwitchRandom)
	}
	out := slices.Clone(code)
	size := r.UniInteger(0, n)
	first, second := r.Intn(len(out)), r.Intn(len(out))
	if first > second {
		first, second = second, first
	}
	size = min(size, second-first, len(out)-second)
	swapRegions(out, first, second, size)
	return out, nil
}

// swapRegions exchanges b[first:first+size] and b[second:second+size] in
// place. The regions must not overlap.
func swapRegions(b []byte, first, second, size int) {
	for i := 0; i < size; i++ {
		b[first+i], b[second+i] = b[second+i], b[first+i]
	}
}
