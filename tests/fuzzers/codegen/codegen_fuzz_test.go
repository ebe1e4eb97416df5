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
	"encoding/binary"
	"testing"
)

func FuzzCodegen(f *testing.F) {
	for i := uint64(0); i < 32; i++ {
		seed := make([]byte, 24)
		binary.BigEndian.PutUint64(seed, i*0x9e3779b97f4a7c15)
		seed[8] = byte(i)
		seed[16] = byte(i * 7)
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		Fuzz(data)
	})
}
