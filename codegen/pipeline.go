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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/r5-labs/evmcodegen/core/evm"
)

// Result is one generated program together with a record of how it was made.
type Result struct {
	Code    string // 0x-prefixed hex
	Bytes   []byte
	Program evm.Program

	ArgsFixed          bool
	BalanceFixed       bool
	InstructionMutator string // empty when not mutated
	BytecodeMutator    string

	// AddressesSeen lists every address pushed as a call or account target.
	AddressesSeen []common.Address
}

// Hash is the keccak256 of the code.
func (res *Result) Hash() common.Hash {
	return crypto.Keccak256Hash(res.Bytes)
}

// Mutated reports whether any mutation stage changed the program.
func (res *Result) Mutated() bool {
	return res.InstructionMutator != "" || res.BytecodeMutator != ""
}

// Pipeline turns a Config into programs. It holds no mutable state and may be
// shared between goroutines, each with its own Rand.
type Pipeline struct {
	cfg Config
	gen Generator

	fixArgs    Bernoulli
	fixBalance Bernoulli
	mutInstr   Bernoulli
	mutBytes   Bernoulli

	instrMutators *WeightedRandomizer[string]
	byteMutators  *WeightedRandomizer[string]
}

// NewPipeline validates cfg and prepares the weight tables.
func NewPipeline(cfg *Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{cfg: *cfg}
	p.cfg.Targets = append([]common.Address(nil), cfg.Targets...)

	dist, err := cfg.distribution()
	if err != nil {
		return nil, err
	}
	if p.gen, err = NewGenerator(cfg.Generator, dist); err != nil {
		return nil, err
	}
	// Probabilities were checked by Validate.
	p.fixArgs, _ = NewBernoulli(cfg.Fixes.StackArguments)
	p.fixBalance, _ = NewBernoulli(cfg.Fixes.StackBalance)
	p.mutInstr, _ = NewBernoulli(cfg.Mutate.Instructions.P)
	p.mutBytes, _ = NewBernoulli(cfg.Mutate.Bytecode.P)

	if p.mutInstr.P() > 0 {
		if p.instrMutators, err = NewWeightedRandomizer(cfg.Mutate.Instructions.weights()); err != nil {
			return nil, err
		}
	}
	if p.mutBytes.P() > 0 {
		if p.byteMutators, err = NewWeightedRandomizer(cfg.Mutate.Bytecode.weights()); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Config returns a copy of the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Generate produces one program. The same seed and config always yield the
// same result.
func (p *Pipeline) Generate(r *Rand) (*Result, error) {
	var (
		book   = &AddressBook{Targets: p.cfg.Targets}
		values = NewValueMap(book)
		res    = new(Result)
	)
	prog, err := p.gen.Generate(r, p.cfg.Length, p.cfg.MinGas)
	if err != nil {
		return nil, err
	}
	if p.fixArgs.Trial(r) {
		if prog, err = FixStackArguments(prog, values, r); err != nil {
			return nil, err
		}
		if prog, err = FixJumps(prog, r, p.cfg.Fixes.JumpFallback); err != nil {
			return nil, err
		}
		res.ArgsFixed = true
	} else {
		argsRepairSkippedCounter.Inc(1)
	}
	if p.fixBalance.Trial(r) {
		if prog, err = FixStackBalance(prog, values, r, p.cfg.Fixes.StackBalanceTarget); err != nil {
			return nil, err
		}
		res.BalanceFixed = true
	} else {
		balanceRepairSkipCounter.Inc(1)
	}
	if p.mutInstr.Trial(r) {
		name := p.instrMutators.Random(r)
		mutated, err := instructionMutators[name](r, prog, r.UniInteger(1, p.cfg.Mutate.Instructions.MaxAmount))
		switch {
		case errors.Is(err, ErrBounds):
			log.Debug("Skipped instruction mutation", "err", err)
			mutationOutOfBoundsCounter.Inc(1)
		case err != nil:
			return nil, err
		default:
			prog, res.InstructionMutator = mutated, name
			instrMutationCounter.Inc(1)
		}
	}
	code := prog.Assemble()
	if p.mutBytes.Trial(r) {
		name := p.byteMutators.Random(r)
		mutated, err := bytecodeMutators[name](r, code, r.UniInteger(1, p.cfg.Mutate.Bytecode.MaxAmount))
		switch {
		case errors.Is(err, ErrBounds):
			log.Debug("Skipped bytecode mutation", "err", err)
			mutationOutOfBoundsCounter.Inc(1)
		case err != nil:
			return nil, err
		default:
			code, res.BytecodeMutator = mutated, name
			bytecodeMutationCounter.Inc(1)
		}
	}
	// Byte mutation may have split or merged instructions; re-decode so the
	// program matches the code exactly.
	res.Program = evm.Disassemble(code)
	res.Bytes = res.Program.Assemble()
	res.Code = hexutil.Encode(res.Bytes)
	res.AddressesSeen = book.Seen
	generatedCounter.Inc(1)

	log.Trace("Generated program", "size", len(res.Bytes), "instructions", len(res.Program),
		"args", res.ArgsFixed, "balance", res.BalanceFixed,
		"imut", res.InstructionMutator, "bmut", res.BytecodeMutator)
	return res, nil
}
