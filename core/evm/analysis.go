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

package evm

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/core/vm"
)

// JumpDests returns the offsets of all JUMPDEST instructions. Offsets are
// relocated first, so push data can never be mistaken for a destination.
func (p Program) JumpDests() mapset.Set[uint64] {
	dests := mapset.NewThreadUnsafeSet[uint64]()
	p.Relocate()
	for _, ins := range p {
		if ins.Op == vm.JUMPDEST {
			dests.Add(ins.PC)
		}
	}
	return dests
}

// SortedJumpDests returns JumpDests in ascending order.
func (p Program) SortedJumpDests() []uint64 {
	dests := p.JumpDests().ToSlice()
	sort.Slice(dests, func(i, j int) bool { return dests[i] < dests[j] })
	return dests
}
