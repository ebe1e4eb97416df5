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
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/core/vm"
)

// Program is an ordered instruction sequence in execution order.
type Program []*Instruction

// Assemble encodes the program. Incomplete push operands are emitted as-is.
func (p Program) Assemble() []byte {
	buf := make([]byte, 0, p.Size())
	for _, ins := range p {
		buf = append(buf, byte(ins.Op))
		buf = append(buf, ins.Operand...)
	}
	return buf
}

// Size is the assembled length in bytes.
func (p Program) Size() int {
	size := 0
	for _, ins := range p {
		size += ins.Size()
	}
	return size
}

// Relocate assigns byte offsets to all instructions and returns the code size.
func (p Program) Relocate() uint64 {
	var pc uint64
	for _, ins := range p {
		ins.PC = pc
		pc += uint64(ins.Size())
	}
	return pc
}

// StackBalance is the net number of items the program leaves on the stack
// when executed linearly.
func (p Program) StackBalance() int {
	delta := 0
	for _, ins := range p {
		delta += ins.StackDelta()
	}
	return delta
}

// Gas sums the static gas of every instruction.
func (p Program) Gas() uint64 {
	var gas uint64
	for _, ins := range p {
		gas += opTable[ins.Op].Gas
	}
	return gas
}

// MinDepth simulates linear execution from an empty stack and returns the
// lowest depth reached before any instruction executes.
func (p Program) MinDepth() int {
	depth, lowest := 0, 0
	for _, ins := range p {
		if d := depth - len(ins.Pops); d < lowest {
			lowest = d
		}
		depth += ins.StackDelta()
	}
	return lowest
}

// Clone deep-copies every instruction.
func (p Program) Clone() Program {
	cpy := make(Program, len(p))
	for i, ins := range p {
		cpy[i] = ins.Clone()
	}
	return cpy
}

// InstructionAt returns the instruction starting at pc, or nil.
func (p Program) InstructionAt(pc uint64) *Instruction {
	p.Relocate()
	for _, ins := range p {
		if ins.PC == pc {
			return ins
		}
		if ins.PC > pc {
			break
		}
	}
	return nil
}

func (p Program) String() string {
	var buf bytes.Buffer
	p.Relocate()
	for _, ins := range p {
		fmt.Fprintf(&buf, "%05x: %v\n", ins.PC, ins)
	}
	return buf.String()
}

// Disassemble decodes code into a program. Decoding never fails: a trailing
// push whose data runs past the end keeps the remaining bytes as a short
// operand, so Disassemble(code).Assemble() always equals code.
func Disassemble(code []byte) Program {
	var prog Program
	for pc := 0; pc < len(code); {
		op := vm.OpCode(code[pc])
		ins := NewInstruction(op)
		ins.PC = uint64(pc)
		end := min(pc+1+PushSize(op), len(code))
		if end > pc+1 {
			ins.Operand = append([]byte(nil), code[pc+1:end]...)
		}
		prog = append(prog, ins)
		pc = end
	}
	return prog
}
