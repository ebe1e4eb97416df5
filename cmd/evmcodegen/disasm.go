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
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/r5-labs/evmcodegen/cmd/evmcodegen/internal/disasm"
	"github.com/urfave/cli/v2"
)

var (
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "output JSON instead of human-readable format",
	}
	noColorFlag = &cli.BoolFlag{
		Name:  "nocolor",
		Usage: "disable highlighting in the listing",
	}
)

var disasmCommand = &cli.Command{
	Name:      "disasm",
	Usage:     "disassemble a program",
	ArgsUsage: "<hex | file>",
	Description: `
Print an instruction listing of the given code. The argument is either a hex
string or the name of a file containing one, such as a line emitted by the
generate command.`,
	Flags: []cli.Flag{
		jsonFlag,
		noColorFlag,
	},
	Action: func(ctx *cli.Context) error {
		arg := ctx.Args().First()
		if len(arg) == 0 {
			return errors.New("code or file argument required")
		}
		input := arg
		if src, err := os.ReadFile(arg); err == nil {
			input = string(src)
		}
		code, err := disasm.Decode(input)
		if err != nil {
			return fmt.Errorf("invalid code: %w", err)
		}
		listing := disasm.NewListing(code)
		if ctx.Bool(jsonFlag.Name) {
			return printJSON(listing)
		}
		if ctx.Bool(noColorFlag.Name) {
			color.NoColor = true
		}
		return listing.Print(color.Output)
	},
}

func printJSON(obj interface{}) error {
	str, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON object: %w", err)
	}
	fmt.Println(string(str))
	return nil
}
