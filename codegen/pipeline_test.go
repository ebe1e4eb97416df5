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
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/r5-labs/evmcodegen/core/evm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repairOnly returns a config that always repairs and never mutates.
func repairOnly() *Config {
	cfg := DefaultConfig()
	cfg.Fixes.StackArguments = 1
	cfg.Fixes.StackBalance = 1
	cfg.Mutate.Instructions.P = 0
	cfg.Mutate.Bytecode.P = 0
	return cfg
}

func TestPipelineDeterministic(t *testing.T) {
	for name, cfg := range map[string]*Config{"repair-only": repairOnly(), "default": DefaultConfig()} {
		p, err := NewPipeline(cfg)
		require.NoError(t, err)

		for seed := uint64(0); seed < 20; seed++ {
			a, err := p.Generate(NewRand(seed))
			require.NoError(t, err)
			b, err := p.Generate(NewRand(seed))
			require.NoError(t, err)
			require.Equal(t, a.Bytes, b.Bytes, "%s: seed %d", name, seed)
			require.Equal(t, a.Code, b.Code, "%s: seed %d", name, seed)
			require.Equal(t, a.AddressesSeen, b.AddressesSeen, "%s: seed %d", name, seed)
		}
	}
}

func TestPipelineRepairedOutput(t *testing.T) {
	p, err := NewPipeline(repairOnly())
	require.NoError(t, err)

	r := NewRand(42)
	for i := 0; i < 100; i++ {
		res, err := p.Generate(r)
		require.NoError(t, err)

		assert.True(t, res.ArgsFixed)
		assert.True(t, res.BalanceFixed)
		assert.False(t, res.Mutated())
		assert.True(t, strings.HasPrefix(res.Code, "0x"))
		assert.Equal(t, hexutil.Encode(res.Bytes), res.Code)
		assert.Equal(t, res.Bytes, res.Program.Assemble())

		require.GreaterOrEqual(t, res.Program.MinDepth(), 0, "program %d:\n%v", i, res.Program)
		require.Equal(t, 0, res.Program.StackBalance(), "program %d:\n%v", i, res.Program)
		require.GreaterOrEqual(t, res.Program.Gas(), uint64(100))
		checkJumps(t, res.Program)
	}
}

func TestPipelineBalanceTarget(t *testing.T) {
	cfg := repairOnly()
	cfg.Fixes.StackBalanceTarget = 2
	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	res, err := p.Generate(NewRand(1))
	require.NoError(t, err)
	require.Equal(t, 2, res.Program.StackBalance())
}

func TestPipelineNoRepair(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fixes.StackArguments = 0
	cfg.Fixes.StackBalance = 0
	cfg.Mutate.Instructions.P = 0
	cfg.Mutate.Bytecode.P = 0
	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	res, err := p.Generate(NewRand(1))
	require.NoError(t, err)
	require.False(t, res.ArgsFixed)
	require.False(t, res.BalanceFixed)
	require.Empty(t, res.AddressesSeen)
}

func TestPipelineAlwaysMutate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mutate.Instructions.P = 1
	cfg.Mutate.Bytecode.P = 1
	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	r := NewRand(8)
	for i := 0; i < 50; i++ {
		res, err := p.Generate(r)
		require.NoError(t, err)
		require.Contains(t, instructionMutators, res.InstructionMutator)
		require.Contains(t, bytecodeMutators, res.BytecodeMutator)
		// Whatever the mutation did, the program re-encodes to the code.
		require.Equal(t, res.Bytes, evm.Disassemble(res.Bytes).Assemble())
	}
}

func TestPipelineTargets(t *testing.T) {
	target := common.HexToAddress("0x00000000000000000000000000000000c0ffee00")
	cfg := repairOnly()
	cfg.Targets = []common.Address{target}
	cfg.Categories = []CategoryWeight{{Name: string(evm.CatSystem), Weight: 1}}
	cfg.Length = 200
	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	res, err := p.Generate(NewRand(5))
	require.NoError(t, err)
	require.Contains(t, res.AddressesSeen, target)
}

func TestPipelineBytesGenerator(t *testing.T) {
	cfg := repairOnly()
	cfg.Generator = GeneratorBytes
	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	res, err := p.Generate(NewRand(9))
	require.NoError(t, err)
	require.NotEmpty(t, res.Bytes)
}

func TestNewGeneratorUnknown(t *testing.T) {
	if _, err := NewGenerator("nope", EVMCategory); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("have error %v, want %v", err, ErrConfiguration)
	}
}

func TestGeneratorLengthAndGas(t *testing.T) {
	gen, err := NewGenerator(GeneratorSmart, Uniform)
	require.NoError(t, err)

	r := NewRand(1)
	for _, length := range []int{1, 10, 500} {
		prog, err := gen.Generate(r, length, 1000)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(prog), length)
		require.GreaterOrEqual(t, prog.Gas(), uint64(1000))
	}
}

func TestGeneratorGasFloor(t *testing.T) {
	for _, kind := range []string{GeneratorSmart, GeneratorBytes} {
		gen, err := NewGenerator(kind, EVMCategory)
		require.NoError(t, err)

		for seed := uint64(0); seed < 100; seed++ {
			prog, err := gen.Generate(NewRand(seed), 1, 5000)
			require.NoError(t, err)
			if gas := prog.Gas(); gas < 5000 {
				t.Fatalf("%s: seed %d: gas below floor: have %d, want >= 5000", kind, seed, gas)
			}
		}
	}
}

func TestGeneratorUnreachableGas(t *testing.T) {
	free := Distribution{
		Name:       "free",
		Avg:        10,
		Categories: []Choice[evm.Category]{{Item: evm.CatStop, Weight: 1}},
	}
	gen, err := NewDistributionGenerator(free)
	require.NoError(t, err)

	prog, err := gen.Generate(NewRand(0), 5, 0)
	require.NoError(t, err)
	require.Len(t, prog, 5)

	_, err = gen.Generate(NewRand(0), 5, 10)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestNewPipelineInvalid(t *testing.T) {
	tests := []func(*Config){
		func(c *Config) { c.Generator = "nope" },
		func(c *Config) { c.Distribution = "nope" },
		func(c *Config) { c.Length = -1 },
		func(c *Config) { c.Fixes.StackBalance = 1.5 },
		func(c *Config) { c.Mutate.Bytecode.MaxAmount = 0 },
		func(c *Config) { c.Mutate.Instructions.DropItem = -1 },
		func(c *Config) { c.Categories = []CategoryWeight{{"nope", 1}} },
		func(c *Config) { c.Categories = []CategoryWeight{{"push", 1}, {"push", 2}} },
		func(c *Config) {
			c.Mutate.Bytecode = BytecodeMutationConfig{P: 0.5, MaxAmount: 1}
		},
	}
	for i, modify := range tests {
		cfg := DefaultConfig()
		modify(cfg)
		if _, err := NewPipeline(cfg); !errors.Is(err, ErrConfiguration) {
			t.Errorf("test %d: have error %v, want %v", i, err, ErrConfiguration)
		}
	}
}

// Zero weights with a zero probability leave the stage disabled.
func TestPipelineDisabledStage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mutate.Bytecode = BytecodeMutationConfig{MaxAmount: 1}
	_, err := NewPipeline(cfg)
	require.NoError(t, err)
}

func TestResultHash(t *testing.T) {
	res := &Result{Bytes: []byte{byte(vm.STOP)}}
	require.Equal(t, common.HexToHash("0xbc36789e7a1e281436464229828f817d6612f7b477d66591ff96a9e064bcc98a"), res.Hash())
}
