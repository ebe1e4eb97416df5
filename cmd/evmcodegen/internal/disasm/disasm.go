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

// Package disasm renders bytecode listings for the evmcodegen command.
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/fatih/color"
	"github.com/r5-labs/evmcodegen/core/evm"
)

// Entry is one line of a listing.
type Entry struct {
	PC       uint64 `json:"pc"`
	Op       string `json:"op"`
	Operand  string `json:"operand,omitempty"`
	Complete bool   `json:"complete"`
	Fault    string `json:"fault,omitempty"` // stack fault under linear execution
}

// Listing is the machine readable form of a disassembly.
type Listing struct {
	Code         string   `json:"code"`
	Size         int      `json:"size"`
	Gas          uint64   `json:"gas"`
	StackBalance int      `json:"stackBalance"`
	MinDepth     int      `json:"minDepth"`
	JumpDests    []uint64 `json:"jumpDests"`
	Instructions []Entry  `json:"instructions"`
}

// Decode parses a hex string with or without 0x prefix. Surrounding
// whitespace is ignored.
func Decode(input string) ([]byte, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "0x") && !strings.HasPrefix(input, "0X") {
		input = "0x" + input
	}
	if input == "0x" {
		return []byte{}, nil
	}
	return hexutil.Decode(input)
}

// NewListing disassembles code.
func NewListing(code []byte) *Listing {
	prog := evm.Disassemble(code)
	l := &Listing{
		Code:         hexutil.Encode(code),
		Size:         len(code),
		Gas:          prog.Gas(),
		StackBalance: prog.StackBalance(),
		MinDepth:     prog.MinDepth(),
		JumpDests:    prog.SortedJumpDests(),
		Instructions: make([]Entry, 0, len(prog)),
	}
	depth := 0
	for _, ins := range prog {
		e := Entry{PC: ins.PC, Op: ins.Name(), Complete: ins.Complete()}
		if len(ins.Operand) > 0 {
			e.Operand = hexutil.Encode(ins.Operand)
		}
		if err := evm.CheckStack(ins.Op, depth); err != nil {
			e.Fault = err.Error()
		}
		depth = max(depth+ins.StackDelta(), 0)
		l.Instructions = append(l.Instructions, e)
	}
	return l
}

var (
	destColor    = color.New(color.FgGreen, color.Bold)
	jumpColor    = color.New(color.FgYellow)
	invalidColor = color.New(color.FgRed)
)

// Print writes a text listing. Jump destinations, jumps and undefined or
// truncated instructions are highlighted unless colour output is disabled
// through color.NoColor.
func (l *Listing) Print(w io.Writer) error {
	for _, e := range l.Instructions {
		line := e.Op
		if e.Operand != "" {
			line += " " + e.Operand
		}
		op := vm.StringToOp(e.Op)
		switch {
		case !e.Complete || strings.HasPrefix(e.Op, "UNKNOWN"):
			line = invalidColor.Sprint(line)
		case op == vm.JUMPDEST:
			line = destColor.Sprint(line)
		case evm.IsJump(op):
			line = jumpColor.Sprint(line)
		}
		if e.Fault != "" {
			line += invalidColor.Sprint("  ! " + e.Fault)
		}
		if _, err := fmt.Fprintf(w, "%05x: %s\n", e.PC, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "size %d, gas %d, stack balance %d, min depth %d, %d jump destinations\n",
		l.Size, l.Gas, l.StackBalance, l.MinDepth, len(l.JumpDests))
	return err
}
