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
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/r5-labs/evmcodegen/core/evm"
	"github.com/stretchr/testify/require"
)

// checkJumps verifies that every jump is preceded by a push targeting a
// JUMPDEST at an instruction boundary.
func checkJumps(t *testing.T, prog evm.Program) {
	t.Helper()
	for i, ins := range prog {
		if !evm.IsJump(ins.Op) {
			continue
		}
		if i == 0 || !prog[i-1].IsPush() {
			t.Fatalf("jump at %d has no label push:\n%v", i, prog)
		}
		target := common.BytesToHash(prog[i-1].Operand).Big().Uint64()
		dest := prog.InstructionAt(target)
		if dest == nil || dest.Op != vm.JUMPDEST {
			t.Fatalf("jump at %d targets %#x which is not a JUMPDEST:\n%v", i, target, prog)
		}
	}
}

func TestRepairProperties(t *testing.T) {
	gen, err := NewDistributionGenerator(EVMCategory)
	require.NoError(t, err)

	for seed := uint64(0); seed < 200; seed++ {
		var (
			r      = NewRand(seed)
			values = NewValueMap(&AddressBook{})
		)
		prog, err := gen.Generate(r, 0, 100)
		require.NoError(t, err)

		prog, err = FixStackArguments(prog, values, r)
		require.NoError(t, err)
		prog, err = FixJumps(prog, r, true)
		require.NoError(t, err)

		if depth := prog.MinDepth(); depth < 0 {
			t.Fatalf("seed %d: stack underflow to %d:\n%v", seed, depth, prog)
		}
		for _, ins := range prog {
			require.True(t, ins.Complete(), "seed %d: incomplete %v", seed, ins)
		}
		checkJumps(t, prog)

		for _, target := range []int{0, 1, 3} {
			balanced, err := FixStackBalance(prog.Clone(), values, r, target)
			require.NoError(t, err)
			require.Equal(t, target, balanced.StackBalance(), "seed %d", seed)
		}
	}
}

func TestFixStackArgumentsOrder(t *testing.T) {
	values := OperandValueMap{
		evm.Value: func(r *Rand) []byte { return []byte{0x0a} },
		evm.Bool:  func(r *Rand) []byte { return []byte{0x0b} },
	}
	prog := evm.Program{evm.NewInstruction(vm.SUB), evm.NewInstruction(vm.JUMPI)}
	out, err := FixStackArguments(prog, values, NewRand(1))
	require.NoError(t, err)

	// SUB takes two values, JUMPI only gets its condition here.
	want := []string{"PUSH1 0x0a", "PUSH1 0x0a", "SUB", "PUSH1 0x0b", "JUMPI"}
	require.Len(t, out, len(want))
	for i, ins := range out {
		require.Equal(t, want[i], ins.String(), "instruction %d", i)
	}
}

func TestFixStackArgumentsMissingProvider(t *testing.T) {
	prog := evm.Program{evm.NewInstruction(vm.BALANCE)}
	_, err := FixStackArguments(prog, OperandValueMap{}, NewRand(1))
	if !errors.Is(err, ErrRepair) {
		t.Fatalf("have error %v, want %v", err, ErrRepair)
	}
}

func TestFixJumpsFallback(t *testing.T) {
	prog := evm.Program{evm.NewInstruction(vm.JUMP)}

	_, err := FixJumps(prog, NewRand(1), false)
	if !errors.Is(err, ErrRepair) {
		t.Fatalf("have error %v, want %v", err, ErrRepair)
	}
	out, err := FixJumps(prog, NewRand(1), true)
	require.NoError(t, err)
	require.Equal(t, "610004565b", common.Bytes2Hex(out.Assemble()))
	checkJumps(t, out)
}

func TestFixJumpsReusesLabel(t *testing.T) {
	prog := evm.Program{evm.NewInstruction(vm.JUMPDEST), evm.NewInstruction(vm.JUMP)}
	out, err := FixJumps(prog, NewRand(1), true)
	require.NoError(t, err)
	require.Len(t, out, 3)

	again, err := FixJumps(out, NewRand(1), true)
	require.NoError(t, err)
	require.Len(t, again, 3)
	checkJumps(t, again)
}

func TestFixJumpsNoJumps(t *testing.T) {
	prog := testProgram()
	out, err := FixJumps(prog, NewRand(1), false)
	require.NoError(t, err)
	require.Equal(t, prog.Assemble(), out.Assemble())
}
