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
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/core/vm/runtime"
	fuzz "github.com/google/gofuzz"
	"github.com/r5-labs/evmcodegen/codegen"
	"github.com/r5-labs/evmcodegen/core/evm"
)

// params are the generation knobs derived from fuzzer input.
type params struct {
	Seed      uint64
	Length    uint8
	MinGas    uint16
	Bytes     bool
	Uniform   bool
	Fallback  bool
	Balance   bool
	MutInstr  bool
	MutBytes  bool
	MaxAmount uint8
}

func (p *params) config() *codegen.Config {
	cfg := codegen.DefaultConfig()
	cfg.Length = int(p.Length)
	cfg.MinGas = uint64(p.MinGas)
	if p.Bytes {
		cfg.Generator = codegen.GeneratorBytes
	}
	if p.Uniform {
		cfg.Distribution = codegen.Uniform.Name
	}
	cfg.Fixes.StackArguments = 1
	cfg.Fixes.StackBalance = 0
	cfg.Fixes.JumpFallback = true
	if p.Balance {
		cfg.Fixes.StackBalance = 1
	}
	cfg.Mutate.Instructions.P, cfg.Mutate.Bytecode.P = 0, 0
	if p.MutInstr {
		cfg.Mutate.Instructions.P = 1
	}
	if p.MutBytes {
		cfg.Mutate.Bytecode.P = 1
	}
	cfg.Mutate.Instructions.MaxAmount = 1 + int(p.MaxAmount%8)
	cfg.Mutate.Bytecode.MaxAmount = 1 + int(p.MaxAmount%8)
	return cfg
}

// Fuzz is the basic entry point for the go-fuzz tool
//
// It generates a program from fuzzer-derived settings and panics if a
// repaired, unmutated program underflows the stack or takes an invalid
// jump when executed. Returns 1 when the program was executed.
func Fuzz(input []byte) int {
	var p params
	fuzz.NewFromGoFuzz(input).Fuzz(&p)

	pipeline, err := codegen.NewPipeline(p.config())
	if err != nil {
		panic(err)
	}
	res, err := pipeline.Generate(codegen.NewRand(p.Seed))
	if err != nil {
		panic(err)
	}
	if !bytes.Equal(evm.Disassemble(res.Bytes).Assemble(), res.Bytes) {
		panic("disassembly does not roundtrip")
	}
	if res.Mutated() {
		return 0
	}
	if depth := res.Program.MinDepth(); depth < 0 && !res.BalanceFixed {
		panic(fmt.Sprintf("repaired program underflows to %d: %s", depth, res.Code))
	}
	if res.BalanceFixed && res.Program.StackBalance() != 0 {
		panic(fmt.Sprintf("unbalanced program: %s", res.Code))
	}
	// Trailing POPs assume linear execution and jumps may skip pushes.
	// Opcodes the registry does not know get no inputs sourced.
	if res.BalanceFixed {
		return 0
	}
	for _, ins := range res.Program {
		if !evm.Info(ins.Op).Valid {
			return 0
		}
	}
	_, _, err = runtime.Execute(res.Bytes, nil, &runtime.Config{GasLimit: 1000000})
	var underflow *vm.ErrStackUnderflow
	if errors.As(err, &underflow) || errors.Is(err, vm.ErrInvalidJump) {
		panic(fmt.Sprintf("repaired program failed: %v: %s", err, res.Code))
	}
	return 1
}
