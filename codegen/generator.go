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
	"math"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
	"github.com/r5-labs/evmcodegen/core/evm"
)

const (
	GeneratorSmart = "smart" // statistical, category distribution based
	GeneratorBytes = "bytes" // naive byte distribution

	// maxLengthFactor bounds how far past the target length generation may
	// run while chasing the minimum gas.
	maxLengthFactor = 16
)

// Generator produces an instruction sequence of roughly the requested length
// whose static gas reaches at least minGas. A length of zero or less selects
// the generator's default length.
type Generator interface {
	Generate(r *Rand, length int, minGas uint64) (evm.Program, error)
}

// NewGenerator selects a generator implementation by name.
func NewGenerator(kind string, dist Distribution) (Generator, error) {
	switch kind {
	case GeneratorSmart, "":
		return NewDistributionGenerator(dist)
	case GeneratorBytes:
		return NewByteGenerator(dist.Avg), nil
	default:
		return nil, fmt.Errorf("%w: unknown generator %q", ErrConfiguration, kind)
	}
}

// cheapestGas returns the lowest non-zero static gas among ops, or zero when
// none of them costs gas.
func cheapestGas(ops []vm.OpCode) uint64 {
	var cheapest uint64
	for _, op := range ops {
		if gas := evm.Info(op).Gas; gas > 0 && (cheapest == 0 || gas < cheapest) {
			cheapest = gas
		}
	}
	return cheapest
}

// lengthLimit caps a generation run. The cap covers both the requested length
// and the number of cheapest instructions needed to reach minGas.
func lengthLimit(length int, minGas, cheapest uint64) int {
	n := uint64(length)
	if minGas > 0 && cheapest > 0 {
		n = max(n, minGas/cheapest+1)
	}
	return int(min(n, math.MaxInt/maxLengthFactor)) * maxLengthFactor
}

// DistributionGenerator samples a category by weight and then an opcode
// uniformly within it. Instructions are placeholders without operands.
type DistributionGenerator struct {
	dist       Distribution
	categories *WeightedRandomizer[evm.Category]
	cheapest   uint64
}

func NewDistributionGenerator(dist Distribution) (*DistributionGenerator, error) {
	var ops []vm.OpCode
	for _, c := range dist.Categories {
		if len(evm.OpcodesIn(c.Item)) == 0 {
			return nil, fmt.Errorf("%w: distribution %q has unknown category %q", ErrConfiguration, dist.Name, c.Item)
		}
		if c.Weight > 0 {
			ops = append(ops, evm.OpcodesIn(c.Item)...)
		}
	}
	if dist.Avg <= 0 {
		return nil, fmt.Errorf("%w: distribution %q has no average length", ErrConfiguration, dist.Name)
	}
	categories, err := NewWeightedRandomizer(dist.Categories)
	if err != nil {
		return nil, err
	}
	return &DistributionGenerator{dist: dist, categories: categories, cheapest: cheapestGas(ops)}, nil
}

func (g *DistributionGenerator) Generate(r *Rand, length int, minGas uint64) (evm.Program, error) {
	if length <= 0 {
		length = g.dist.Avg
	}
	if minGas > 0 && g.cheapest == 0 {
		return nil, fmt.Errorf("%w: distribution %q cannot reach gas %d", ErrConfiguration, g.dist.Name, minGas)
	}
	var (
		prog  = make(evm.Program, 0, length)
		gas   uint64
		limit = lengthLimit(length, minGas, g.cheapest)
	)
	for (len(prog) < length || gas < minGas) && len(prog) < limit {
		ops := evm.OpcodesIn(g.categories.Random(r))
		ins := evm.NewInstruction(ops[r.Intn(len(ops))])
		gas += evm.Info(ins.Op).Gas
		prog = append(prog, ins)
	}
	log.Trace("Generated instruction stream", "dist", g.dist.Name, "length", len(prog), "gas", gas)
	return prog, nil
}

// ByteGenerator draws raw bytes, mostly defined opcodes, and disassembles
// them. A drawn push is followed by random bytes as its data, so only
// opcode bytes count towards the gas.
type ByteGenerator struct {
	avg      int
	valid    []vm.OpCode
	cheapest uint64
}

func NewByteGenerator(avg int) *ByteGenerator {
	g := &ByteGenerator{avg: avg}
	for _, cat := range evm.Categories() {
		g.valid = append(g.valid, evm.OpcodesIn(cat)...)
	}
	g.cheapest = cheapestGas(g.valid)
	return g
}

func (g *ByteGenerator) Generate(r *Rand, length int, minGas uint64) (evm.Program, error) {
	if length <= 0 {
		length = g.avg
	}
	var (
		code  = make([]byte, 0, length)
		gas   uint64
		limit = lengthLimit(length, minGas, g.cheapest)
	)
	for (len(code) < length || gas < minGas) && len(code) < limit {
		op := r.Opcode()
		if r.Intn(10) != 0 {
			op = g.valid[r.Intn(len(g.valid))]
		}
		gas += evm.Info(op).Gas
		code = append(code, byte(op))
		code = append(code, r.ByteSequence(evm.PushSize(op))...)
	}
	return evm.Disassemble(code), nil
}
