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
	"fmt"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
)

func minSwapStack(n int) int {
	return minStack(n, n)
}
func maxSwapStack(n int) int {
	return maxStack(n, n)
}

func minDupStack(n int) int {
	return minStack(n, n+1)
}
func maxDupStack(n int) int {
	return maxStack(n, n+1)
}

func maxStack(pop, push int) int {
	return int(params.StackLimit) + pop - push
}
func minStack(pops, push int) int {
	return pops
}

// stackBounds returns the depth range in which op executes without under- or
// overflowing the stack.
func stackBounds(op vm.OpCode) (lo, hi int) {
	info := opTable[op]
	switch {
	case op >= vm.DUP1 && op <= vm.DUP16:
		n := int(op-vm.DUP1) + 1
		return minDupStack(n), maxDupStack(n)
	case op >= vm.SWAP1 && op <= vm.SWAP16:
		n := int(op-vm.SWAP1) + 2
		return minSwapStack(n), maxSwapStack(n)
	}
	return minStack(len(info.Pops), info.Pushes), maxStack(len(info.Pops), info.Pushes)
}

// CheckStack returns an error if executing op at the given depth would
// under- or overflow the stack.
func CheckStack(op vm.OpCode, depth int) error {
	if !opTable[op].Valid {
		return fmt.Errorf("invalid opcode %s", Name(op))
	}
	lo, hi := stackBounds(op)
	if depth < lo {
		return fmt.Errorf("stack underflow (%d <=> %d) at %s", depth, lo, Name(op))
	}
	if depth > hi {
		return fmt.Errorf("stack limit reached %d (%d) at %s", depth, hi, Name(op))
	}
	return nil
}
