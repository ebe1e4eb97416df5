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
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
)

func TestDisassembleRoundtrip(t *testing.T) {
	tests := []string{
		"",
		"00",
		"6060604052600a8060106000396000f360606040526008565b00",
		"7f", // PUSH32 without data
		"61aa",
		"5b5b5b",
		"fefdfcfbfa0c0d0e",
	}
	for _, hex := range tests {
		code := common.Hex2Bytes(hex)
		if got := Disassemble(code).Assemble(); !bytes.Equal(got, code) {
			t.Errorf("roundtrip mismatch for %q: got %x", hex, got)
		}
	}
}

func TestDisassembleRandomRoundtrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		code := make([]byte, rnd.Intn(200))
		rnd.Read(code)
		if got := Disassemble(code).Assemble(); !bytes.Equal(got, code) {
			t.Fatalf("roundtrip mismatch: have %x, want %x", got, code)
		}
	}
}

func TestDisassembleTruncatedPush(t *testing.T) {
	prog := Disassemble(common.Hex2Bytes("600161aa"))
	if len(prog) != 2 {
		t.Fatalf("wrong instruction count: have %d, want 2", len(prog))
	}
	last := prog[1]
	if last.Op != vm.PUSH2 || last.Complete() || !bytes.Equal(last.Operand, []byte{0xaa}) {
		t.Fatalf("unexpected trailing instruction %v", last)
	}
	if last.PC != 2 {
		t.Fatalf("wrong pc: have %d, want 2", last.PC)
	}
}

func TestDisassemblePushData(t *testing.T) {
	tests := []struct {
		code    string
		ops     []vm.OpCode
		operand []int
	}{
		{"5f", []vm.OpCode{vm.PUSH0}, []int{0}},
		{"7f", []vm.OpCode{vm.PUSH32}, []int{0}},
		{"60015b7f0102", []vm.OpCode{vm.PUSH1, vm.JUMPDEST, vm.PUSH32}, []int{1, 0, 2}},
		{"615b5b5b", []vm.OpCode{vm.PUSH2, vm.JUMPDEST}, []int{2, 0}},
	}
	for _, tt := range tests {
		code := common.Hex2Bytes(tt.code)
		prog := Disassemble(code)
		if len(prog) != len(tt.ops) {
			t.Fatalf("%s: wrong instruction count: have %d, want %d", tt.code, len(prog), len(tt.ops))
		}
		for i, ins := range prog {
			if ins.Op != tt.ops[i] || len(ins.Operand) != tt.operand[i] {
				t.Errorf("%s: instruction %d: have %v/%d, want %v/%d", tt.code, i, ins.Op, len(ins.Operand), tt.ops[i], tt.operand[i])
			}
		}
		if have := prog.Assemble(); !bytes.Equal(have, code) {
			t.Errorf("%s: roundtrip mismatch: have %x", tt.code, have)
		}
	}
}

func TestRelocate(t *testing.T) {
	prog := Program{
		NewPush([]byte{1, 2}),
		NewInstruction(vm.JUMPDEST),
		NewPush(common.Hex2Bytes("00112233")),
		NewInstruction(vm.STOP),
	}
	if size := prog.Relocate(); size != 10 {
		t.Fatalf("wrong size: have %d, want 10", size)
	}
	want := []uint64{0, 3, 4, 9}
	for i, ins := range prog {
		if ins.PC != want[i] {
			t.Errorf("instruction %d: have pc %d, want %d", i, ins.PC, want[i])
		}
	}
	if ins := prog.InstructionAt(3); ins == nil || ins.Op != vm.JUMPDEST {
		t.Errorf("expected JUMPDEST at 3, got %v", ins)
	}
	if ins := prog.InstructionAt(5); ins != nil {
		t.Errorf("expected no instruction boundary at 5, got %v", ins)
	}
}

func TestNewPush(t *testing.T) {
	if ins := NewPush(nil); ins.Op != vm.PUSH1 || !bytes.Equal(ins.Operand, []byte{0}) {
		t.Errorf("empty push: have %v", ins)
	}
	word := bytes.Repeat([]byte{0xab}, 40)
	word[39] = 0xcd
	ins := NewPush(word)
	if ins.Op != vm.PUSH32 || len(ins.Operand) != 32 || ins.Operand[31] != 0xcd {
		t.Errorf("oversized push: have %v", ins)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := NewPush([]byte{1, 2, 3})
	cpy := orig.Clone()
	cpy.Operand[0] = 0xff
	if orig.Operand[0] != 1 {
		t.Fatal("clone aliases the operand buffer")
	}
}

func TestStackBalance(t *testing.T) {
	prog := Program{
		NewPush([]byte{1}),
		NewPush([]byte{2}),
		NewInstruction(vm.ADD),
		NewInstruction(vm.DUP1),
		NewInstruction(vm.SWAP1),
	}
	if have := prog.StackBalance(); have != 2 {
		t.Errorf("wrong balance: have %d, want 2", have)
	}
	if have := prog.MinDepth(); have != 0 {
		t.Errorf("wrong min depth: have %d, want 0", have)
	}
	underflow := Program{NewInstruction(vm.ADD)}
	if have := underflow.MinDepth(); have != -2 {
		t.Errorf("wrong min depth: have %d, want -2", have)
	}
}
