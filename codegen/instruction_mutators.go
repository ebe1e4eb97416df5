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

	"github.com/r5-labs/evmcodegen/core/evm"
)

// InstructionMutator applies n random edits to an instruction sequence. The
// input slice is not modified; instructions that are edited are cloned.
type InstructionMutator func(r *Rand, prog evm.Program, n int) (evm.Program, error)

// Instruction mutator names, as used in config files and results.
const (
	MutRandomizeOperand         = "RandomizeOperand"
	MutDropItem                 = "DropItem"
	MutDupInstruction           = "DupInstruction"
	MutInsertRandomInstructions = "InsertRandomInstructions"
)

var instructionMutators = map[string]InstructionMutator{
	MutRandomizeOperand:         RandomizeOperand,
	MutDropItem:                 DropItem,
	MutDupInstruction:           DupInstruction,
	MutInsertRandomInstructions: InsertRandomInstructions,
}

func errEmptyProgram(name string) error {
	return fmt.Errorf("%w: %s on empty program", ErrBounds, name)
}

// DropItem removes n instructions. At least one instruction is always left.
func DropItem(r *Rand, prog evm.Program, n int) (evm.Program, error) {
	if len(prog) == 0 {
		return nil, errEmptyProgram(MutDropItem)
	}
	n = min(n, len(prog)-1)
	out := append(evm.Program(nil), prog...)
	for i := 0; i < n; i++ {
		idx := r.Intn(len(out))
		out = slices.Delete(out, idx, idx+1)
	}
	return out, nil
}

// DupInstruction inserts a copy of a random instruction right before it, n times.
func DupInstruction(r *Rand, prog evm.Program, n int) (evm.Program, error) {
	if len(prog) == 0 {
		return nil, errEmptyProgram(MutDupInstruction)
	}
	out := make(evm.Program, 0, len(prog)+n)
	out = append(out, prog...)
	for i := 0; i < n; i++ {
		idx := r.Intn(len(out))
		out = slices.Insert(out, idx, out[idx].Clone())
	}
	return out, nil
}

// RandomizeOperand replaces the operand of n random instructions with random
// data. Pushes get a full-width operand, other instructions carrying data keep
// its length, and instructions without an operand are left alone.
func RandomizeOperand(r *Rand, prog evm.Program, n int) (evm.Program, error) {
	if len(prog) == 0 {
		return nil, errEmptyProgram(MutRandomizeOperand)
	}
	out := append(evm.Program(nil), prog...)
	for i := 0; i < n; i++ {
		idx := r.Intn(len(out))
		ins := out[idx].Clone()
		switch {
		case ins.IsPush():
			ins.Operand = r.ByteSequence(evm.PushSize(ins.Op))
		case len(ins.Operand) > 0:
			ins.Operand = r.ByteSequence(len(ins.Operand))
		}
		out[idx] = ins
	}
	return out, nil
}

// InsertRandomInstructions inserts n instructions, each before a random
// position, with opcodes drawn from the full byte range. Undefined opcodes
// are included.
func InsertRandomInstructions(r *Rand, prog evm.Program, n int) (evm.Program, error) {
	if len(prog) == 0 {
		return nil, errEmptyProgram(MutInsertRandomInstructions)
	}
	out := make(evm.Program, 0, len(prog)+n)
	out = append(out, prog...)
	for i := 0; i < n; i++ {
		ins := evm.NewInstruction(r.Opcode())
		if size := evm.PushSize(ins.Op); size > 0 {
			ins.Operand = r.ByteSequence(size)
		}
		out = slices.Insert(out, r.Intn(len(out)), ins)
	}
	return out, nil
}
