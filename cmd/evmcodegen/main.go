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

// evmcodegen generates random, mostly well-formed EVM programs for fuzzing
// EVM implementations.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var app = &cli.App{
	Name:  "evmcodegen",
	Usage: "random EVM bytecode generator",
	Flags: logFlags,
	Commands: []*cli.Command{
		generateCommand,
		disasmCommand,
		dumpConfigCommand,
	},
	Before: setupLogging,
	After:  closeLogging,
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
