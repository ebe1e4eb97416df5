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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"
	"github.com/r5-labs/evmcodegen/core/evm"
)

// ValueProvider draws a concrete value for one operand kind, encoded as the
// big-endian bytes a PUSH instruction would carry.
type ValueProvider func(r *Rand) []byte

// OperandValueMap maps operand kinds to value providers. Label has no entry:
// jump targets are sourced by FixJumps.
type OperandValueMap map[evm.ArgType]ValueProvider

// AddressBook supplies destination addresses for Address operands and keeps
// track of every address handed out, so a test assembler can pre-populate
// those accounts.
type AddressBook struct {
	Targets []common.Address // preferred destinations, e.g. pre-state accounts
	Seen    []common.Address
}

// Next draws a destination: a precompile, a configured target or a random
// address.
func (b *AddressBook) Next(r *Rand) common.Address {
	var addr common.Address
	switch p := r.Intn(100); {
	case p < 40:
		addr = vm.PrecompiledAddressesCancun[r.Intn(len(vm.PrecompiledAddressesCancun))]
	case p < 80 && len(b.Targets) > 0:
		addr = b.Targets[r.Intn(len(b.Targets))]
	default:
		addr = common.BytesToAddress(r.ByteSequence(common.AddressLength))
	}
	b.Seen = append(b.Seen, addr)
	return addr
}

func intValue(v int) []byte {
	return uint256.NewInt(uint64(v)).Bytes()
}

// randomValue draws a uint256 with a random byte width, so small and large
// magnitudes are equally common.
func randomValue(r *Rand) []byte {
	n := r.UniInteger(1, 32)
	return new(uint256.Int).SetBytes(r.ByteSequence(n)).Bytes()
}

// NewValueMap returns the default provider table. Address operands are drawn
// from book. Data values are capped at a word since they travel in a single
// push.
func NewValueMap(book *AddressBook) OperandValueMap {
	return OperandValueMap{
		evm.Address:   func(r *Rand) []byte { return book.Next(r).Bytes() },
		evm.Word:      func(r *Rand) []byte { return r.ByteSequence(32) },
		evm.Timestamp: func(r *Rand) []byte { return r.ByteSequence(4) },
		evm.Data:      func(r *Rand) []byte { return r.ByteSequence(r.UniInteger(0, 32)) },
		evm.CallValue: func(r *Rand) []byte { return intValue(r.UniInteger(0, 1024)) },
		evm.Gas:       func(r *Rand) []byte { return intValue(r.UniInteger(0, 1024)) },
		evm.Length:    func(r *Rand) []byte { return intValue(r.SmallMemoryLength1024()) },
		evm.MemOffset: func(r *Rand) []byte { return intValue(r.SmallMemoryLength1024()) },
		evm.Index256:  func(r *Rand) []byte { return intValue(r.UniInteger(1, 256)) },
		evm.Index64:   func(r *Rand) []byte { return intValue(r.UniInteger(1, 64)) },
		evm.Index32:   func(r *Rand) []byte { return intValue(r.Length32()) },
		evm.Byte:      func(r *Rand) []byte { return r.ByteSequence(1) },
		evm.Bool:      func(r *Rand) []byte { return r.ByteSequence(1) },
		evm.Value:     randomValue,
	}
}
