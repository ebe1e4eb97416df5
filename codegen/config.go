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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/naoina/toml"
)

// Config drives a Pipeline. Zero mutator weights disable that mutator.
type Config struct {
	Generator    string           // "smart" or "bytes"
	Distribution string           // built-in distribution name, ignored when Categories is set
	Categories   []CategoryWeight `toml:",omitempty"`
	Length       int              // target length in instructions, 0 for the distribution average
	MinGas       uint64
	Targets      []common.Address `toml:",omitempty"`

	Fixes  FixesConfig
	Mutate MutateConfig
}

// CategoryWeight overrides the weight of one opcode category.
type CategoryWeight struct {
	Name   string
	Weight int
}

type FixesConfig struct {
	StackArguments     float64 // probability of sourcing inputs and fixing jumps
	StackBalance       float64
	StackBalanceTarget int
	JumpFallback       bool
}

type MutateConfig struct {
	Instructions InstructionMutationConfig
	Bytecode     BytecodeMutationConfig
}

type InstructionMutationConfig struct {
	P         float64
	MaxAmount int

	RandomizeOperand         int
	DropItem                 int
	DupInstruction           int
	InsertRandomInstructions int
}

type BytecodeMutationConfig struct {
	P         float64
	MaxAmount int

	DupByte           int
	InsertRandomBytes int
	DropByte          int
	SwitchRandom      int
}

// DefaultConfig returns the stock configuration. Each call returns a fresh copy.
func DefaultConfig() *Config {
	return &Config{
		Generator:    GeneratorSmart,
		Distribution: EVMCategory.Name,
		MinGas:       100,
		Fixes: FixesConfig{
			StackArguments: 0.995,
			StackBalance:   0.950,
			JumpFallback:   true,
		},
		Mutate: MutateConfig{
			Instructions: InstructionMutationConfig{
				P:                        0.010,
				MaxAmount:                3,
				RandomizeOperand:         60,
				DropItem:                 10,
				DupInstruction:           20,
				InsertRandomInstructions: 10,
			},
			Bytecode: BytecodeMutationConfig{
				P:                 0.001,
				MaxAmount:         3,
				DupByte:           50,
				InsertRandomBytes: 10,
				DropByte:          20,
				SwitchRandom:      20,
			},
		},
	}
}

// weights returns the enabled instruction mutators in a fixed order.
func (c InstructionMutationConfig) weights() []Choice[string] {
	return enabled([]Choice[string]{
		{MutRandomizeOperand, c.RandomizeOperand},
		{MutDropItem, c.DropItem},
		{MutDupInstruction, c.DupInstruction},
		{MutInsertRandomInstructions, c.InsertRandomInstructions},
	})
}

// weights returns the enabled bytecode mutators in a fixed order.
func (c BytecodeMutationConfig) weights() []Choice[string] {
	return enabled([]Choice[string]{
		{MutDupByte, c.DupByte},
		{MutInsertRandomBytes, c.InsertRandomBytes},
		{MutDropByte, c.DropByte},
		{MutSwitchRandom, c.SwitchRandom},
	})
}

func enabled(all []Choice[string]) []Choice[string] {
	var out []Choice[string]
	for _, c := range all {
		if c.Weight != 0 {
			out = append(out, c)
		}
	}
	return out
}

// distribution resolves the category table the generator samples from.
func (c *Config) distribution() (Distribution, error) {
	if len(c.Categories) == 0 {
		return LookupDistribution(c.Distribution)
	}
	weights := make(map[string]int, len(c.Categories))
	for _, cw := range c.Categories {
		if _, dup := weights[cw.Name]; dup {
			return Distribution{}, fmt.Errorf("%w: category %q listed twice", ErrConfiguration, cw.Name)
		}
		weights[cw.Name] = cw.Weight
	}
	avg := EVMCategory.Avg
	if d, err := LookupDistribution(c.Distribution); err == nil {
		avg = d.Avg
	}
	return CustomDistribution(avg, weights), nil
}

// Validate checks the configuration without building anything.
func (c *Config) Validate() error {
	if c.Length < 0 {
		return fmt.Errorf("%w: negative length %d", ErrConfiguration, c.Length)
	}
	for _, p := range []float64{c.Fixes.StackArguments, c.Fixes.StackBalance, c.Mutate.Instructions.P, c.Mutate.Bytecode.P} {
		if _, err := NewBernoulli(p); err != nil {
			return err
		}
	}
	if c.Mutate.Instructions.MaxAmount < 1 || c.Mutate.Bytecode.MaxAmount < 1 {
		return fmt.Errorf("%w: mutation amounts must be at least 1", ErrConfiguration)
	}
	// A stage that never fires may leave all its mutators disabled.
	if c.Mutate.Instructions.P > 0 {
		if _, err := NewWeightedRandomizer(c.Mutate.Instructions.weights()); err != nil {
			return fmt.Errorf("instruction mutators: %w", err)
		}
	}
	if c.Mutate.Bytecode.P > 0 {
		if _, err := NewWeightedRandomizer(c.Mutate.Bytecode.weights()); err != nil {
			return fmt.Errorf("bytecode mutators: %w", err)
		}
	}
	dist, err := c.distribution()
	if err != nil {
		return err
	}
	_, err = NewGenerator(c.Generator, dist)
	return err
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("%w: field '%s' is not defined in %s", ErrConfiguration, field, rt.String())
	},
}

// DecodeConfig reads TOML from r over a copy of the defaults.
func DecodeConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if err := tomlSettings.NewDecoder(bufio.NewReader(r)).Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads a TOML config file. Keys absent from the file keep their
// default values.
func LoadConfig(file string) (*Config, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := DecodeConfig(f)
	// Add file name to errors that have a line number.
	var lerr *toml.LineError
	if errors.As(err, &lerr) {
		err = errors.New(file + ", " + err.Error())
	}
	return cfg, err
}

// TOML encodes the config in the format LoadConfig reads.
func (c *Config) TOML() ([]byte, error) {
	return tomlSettings.Marshal(c)
}
