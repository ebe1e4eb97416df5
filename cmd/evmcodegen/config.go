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

package main

import (
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/r5-labs/evmcodegen/codegen"
	"github.com/urfave/cli/v2"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	generatorFlag = &cli.StringFlag{
		Name:  "generator",
		Usage: `Instruction generator ("smart" or "bytes")`,
	}
	distributionFlag = &cli.StringFlag{
		Name:  "distribution",
		Usage: `Opcode category distribution ("evm" or "uniform")`,
	}
	lengthFlag = &cli.IntFlag{
		Name:  "length",
		Usage: "Target program length in instructions (0 = distribution average)",
	}
	minGasFlag = &cli.Uint64Flag{
		Name:  "mingas",
		Usage: "Minimum static gas of a generated program",
	}
	configFlags = []cli.Flag{configFileFlag, generatorFlag, distributionFlag, lengthFlag, minGasFlag}
)

var dumpConfigCommand = &cli.Command{
	Action:      dumpConfig,
	Name:        "dumpconfig",
	Usage:       "Show configuration values",
	ArgsUsage:   "[dumpfile]",
	Flags:       configFlags,
	Description: `The dumpconfig command shows configuration values.`,
}

// makeConfig loads the config file, if any, and applies command line
// overrides on top.
func makeConfig(ctx *cli.Context) (*codegen.Config, error) {
	cfg := codegen.DefaultConfig()
	if file := ctx.String(configFileFlag.Name); file != "" {
		var err error
		if cfg, err = codegen.LoadConfig(file); err != nil {
			return nil, err
		}
		log.Debug("Loaded config file", "file", file)
	}
	if ctx.IsSet(generatorFlag.Name) {
		cfg.Generator = ctx.String(generatorFlag.Name)
	}
	if ctx.IsSet(distributionFlag.Name) {
		cfg.Distribution = ctx.String(distributionFlag.Name)
	}
	if ctx.IsSet(lengthFlag.Name) {
		cfg.Length = ctx.Int(lengthFlag.Name)
	}
	if ctx.IsSet(minGasFlag.Name) {
		cfg.MinGas = ctx.Uint64(minGasFlag.Name)
	}
	return cfg, cfg.Validate()
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := cfg.TOML()
	if err != nil {
		return err
	}
	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	_, err = dump.Write(out)
	return err
}
