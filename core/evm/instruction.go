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
)

// Instruction is a single decoded or generated EVM instruction.
type Instruction struct {
	Op      vm.OpCode
	Operand []byte    // push data, possibly incomplete
	Pops    []ArgType // stack inputs, top of stack first
	Pushes  int
	PC      uint64 // byte offset, valid after Program.Relocate
	Label   bool   // push sourcing a jump target
}

// NewInstruction creates an instruction for op with its registry arity and
// no operand.
func NewInstruction(op vm.OpCode) *Instruction {
	info := opTable[op]
	return &Instruction{
		Op:     op,
		Pops:   info.Pops,
		Pushes: info.Pushes,
	}
}

// NewPush returns the narrowest PUSHn carrying value. An empty value is pushed
// as a single zero byte, values longer than a word keep their low 32 bytes.
func NewPush(value []byte) *Instruction {
	switch {
	case len(value) == 0:
		value = []byte{0}
	case len(value) > 32:
		value = value[len(value)-32:]
	}
	ins := NewInstruction(vm.PUSH1 + vm.OpCode(len(value)-1))
	ins.Operand = append([]byte(nil), value...)
	return ins
}

func (ins *Instruction) Name() string {
	return Name(ins.Op)
}

// Size is the number of bytes the instruction assembles to.
func (ins *Instruction) Size() int {
	return 1 + len(ins.Operand)
}

// IsPush reports whether the opcode carries immediate data.
func (ins *Instruction) IsPush() bool {
	return PushSize(ins.Op) > 0
}

// Complete reports whether the operand matches the opcode's immediate size.
func (ins *Instruction) Complete() bool {
	return len(ins.Operand) == PushSize(ins.Op)
}

// StackDelta is the net stack effect of executing the instruction.
func (ins *Instruction) StackDelta() int {
	return ins.Pushes - len(ins.Pops)
}

// Clone returns a deep copy that shares no buffers with ins.
func (ins *Instruction) Clone() *Instruction {
	cpy := *ins
	if ins.Operand != nil {
		cpy.Operand = append([]byte(nil), ins.Operand...)
	}
	if ins.Pops != nil {
		cpy.Pops = append([]ArgType(nil), ins.Pops...)
	}
	return &cpy
}

func (ins *Instruction) String() string {
	if len(ins.Operand) > 0 {
		return fmt.Sprintf("%s 0x%x", ins.Name(), ins.Operand)
	}
	return ins.Name()
}
