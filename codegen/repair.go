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
	"fmt"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
	"github.com/r5-labs/evmcodegen/core/evm"
)

// FixStackArguments sources every stack input from a push placed immediately
// before the consuming instruction, and fills in missing push data. Inputs are
// pushed deepest first so the first input ends up on top. Label inputs are
// left for FixJumps.
func FixStackArguments(prog evm.Program, values OperandValueMap, r *Rand) (evm.Program, error) {
	out := make(evm.Program, 0, 2*len(prog))
	for _, ins := range prog {
		if ins.IsPush() && !ins.Complete() {
			ins.Operand = r.ByteSequence(evm.PushSize(ins.Op))
		}
		for i := len(ins.Pops) - 1; i >= 0; i-- {
			kind := ins.Pops[i]
			if kind == evm.Label {
				continue
			}
			provider, ok := values[kind]
			if !ok {
				return nil, fmt.Errorf("%w: no value provider for %v input of %s", ErrRepair, kind, ins.Name())
			}
			out = append(out, evm.NewPush(provider(r)))
		}
		out = append(out, ins)
	}
	return out, nil
}

// labelWidth picks a push width able to address code of the given size.
func labelWidth(size int) int {
	if size > 0xffff {
		return 4
	}
	return 2
}

func newLabel(width int) *evm.Instruction {
	ins := evm.NewPush(make([]byte, width))
	ins.Label = true
	return ins
}

// FixJumps makes every JUMP and JUMPI consume a label push that targets a
// JUMPDEST. Labels have a fixed width, so assigning targets does not move
// code. Without any JUMPDEST the jumps are pointed at one appended to the end
// of the program when fallback is set, otherwise an error is returned.
func FixJumps(prog evm.Program, r *Rand, fallback bool) (evm.Program, error) {
	jumps := 0
	for _, ins := range prog {
		if evm.IsJump(ins.Op) {
			jumps++
		}
	}
	if jumps == 0 {
		return prog, nil
	}
	width := labelWidth(prog.Size() + jumps*5 + 1)

	out := make(evm.Program, 0, len(prog)+jumps+1)
	for _, ins := range prog {
		if evm.IsJump(ins.Op) {
			if n := len(out); n > 0 && out[n-1].Label {
				out[n-1] = newLabel(width)
			} else {
				out = append(out, newLabel(width))
			}
		}
		out = append(out, ins)
	}
	dests := out.SortedJumpDests()
	if len(dests) == 0 {
		if !fallback {
			return nil, fmt.Errorf("%w: no jump destination for %d jumps", ErrRepair, jumps)
		}
		dest := evm.NewInstruction(vm.JUMPDEST)
		dest.PC = out.Relocate()
		out = append(out, dest)
		dests = append(dests, dest.PC)
		log.Trace("Appended fallback jump destination", "pc", dest.PC)
	}
	for i := 1; i < len(out); i++ {
		if !evm.IsJump(out[i].Op) {
			continue
		}
		target := dests[r.Intn(len(dests))]
		label := out[i-1]
		if width == 2 {
			binary.BigEndian.PutUint16(label.Operand, uint16(target))
		} else {
			binary.BigEndian.PutUint32(label.Operand, uint32(target))
		}
	}
	return out, nil
}

// FixStackBalance appends POPs or value pushes until the net stack effect of
// the program equals target.
func FixStackBalance(prog evm.Program, values OperandValueMap, r *Rand, target int) (evm.Program, error) {
	delta := prog.StackBalance()
	for ; delta > target; delta-- {
		prog = append(prog, evm.NewInstruction(vm.POP))
	}
	if delta < target {
		provider, ok := values[evm.Value]
		if !ok {
			return nil, fmt.Errorf("%w: no value provider for %v input of stack balance", ErrRepair, evm.Value)
		}
		for ; delta < target; delta++ {
			prog = append(prog, evm.NewPush(provider(r)))
		}
	}
	return prog, nil
}
