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

// Package evm is a small opcode registry and assembler for legacy EVM code.
// Opcode values and mnemonics come from go-ethereum; this package adds the
// per-opcode metadata a code generator needs: category, stack arity, the
// semantic kind of each stack input and a static gas estimate.
package evm

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
)

// ArgType classifies a stack input by the kind of value it expects.
type ArgType uint8

const (
	Value ArgType = iota
	Word
	Address
	Timestamp
	Data
	CallValue
	Gas
	Length
	MemOffset
	Index256
	Index64
	Index32
	Byte
	Bool
	Label // jump destination, sourced by jump fixup rather than a value provider
)

var argTypeNames = [...]string{
	Value:     "Value",
	Word:      "Word",
	Address:   "Address",
	Timestamp: "Timestamp",
	Data:      "Data",
	CallValue: "CallValue",
	Gas:       "Gas",
	Length:    "Length",
	MemOffset: "MemOffset",
	Index256:  "Index256",
	Index64:   "Index64",
	Index32:   "Index32",
	Byte:      "Byte",
	Bool:      "Bool",
	Label:     "Label",
}

func (a ArgType) String() string {
	if int(a) < len(argTypeNames) {
		return argTypeNames[a]
	}
	return fmt.Sprintf("ArgType(%d)", uint8(a))
}

// Category groups opcodes the way code statistics are usually reported.
type Category string

const (
	CatStop        Category = "stop"
	CatArithmetic  Category = "arithmetic"
	CatComparison  Category = "comparison"
	CatBitwise     Category = "bitwise"
	CatSha3        Category = "sha3"
	CatEnvironment Category = "environment"
	CatBlock       Category = "block"
	CatStack       Category = "stack"
	CatMemory      Category = "memory"
	CatStorage     Category = "storage"
	CatFlow        Category = "flow"
	CatPush        Category = "push"
	CatDup         Category = "dup"
	CatSwap        Category = "swap"
	CatLog         Category = "log"
	CatSystem      Category = "system"
)

// OpInfo describes a single opcode.
type OpInfo struct {
	Category Category
	Gas      uint64    // static gas, dynamic parts ignored
	Pops     []ArgType // top of stack first
	Pushes   int
	Valid    bool
}

var (
	opTable    [256]OpInfo
	byCategory = make(map[Category][]vm.OpCode)
)

func reg(op vm.OpCode, cat Category, gas uint64, pushes int, pops ...ArgType) {
	opTable[op] = OpInfo{
		Category: cat,
		Gas:      gas,
		Pops:     pops,
		Pushes:   pushes,
		Valid:    true,
	}
	byCategory[cat] = append(byCategory[cat], op)
}

func init() {
	reg(vm.STOP, CatStop, 0, 0)

	reg(vm.ADD, CatArithmetic, vm.GasFastestStep, 1, Value, Value)
	reg(vm.MUL, CatArithmetic, vm.GasFastStep, 1, Value, Value)
	reg(vm.SUB, CatArithmetic, vm.GasFastestStep, 1, Value, Value)
	reg(vm.DIV, CatArithmetic, vm.GasFastStep, 1, Value, Value)
	reg(vm.SDIV, CatArithmetic, vm.GasFastStep, 1, Value, Value)
	reg(vm.MOD, CatArithmetic, vm.GasFastStep, 1, Value, Value)
	reg(vm.SMOD, CatArithmetic, vm.GasFastStep, 1, Value, Value)
	reg(vm.ADDMOD, CatArithmetic, vm.GasMidStep, 1, Value, Value, Value)
	reg(vm.MULMOD, CatArithmetic, vm.GasMidStep, 1, Value, Value, Value)
	reg(vm.EXP, CatArithmetic, params.ExpGas, 1, Value, Value)
	reg(vm.SIGNEXTEND, CatArithmetic, vm.GasFastStep, 1, Index32, Value)

	reg(vm.LT, CatComparison, vm.GasFastestStep, 1, Value, Value)
	reg(vm.GT, CatComparison, vm.GasFastestStep, 1, Value, Value)
	reg(vm.SLT, CatComparison, vm.GasFastestStep, 1, Value, Value)
	reg(vm.SGT, CatComparison, vm.GasFastestStep, 1, Value, Value)
	reg(vm.EQ, CatComparison, vm.GasFastestStep, 1, Value, Value)
	reg(vm.ISZERO, CatComparison, vm.GasFastestStep, 1, Value)

	reg(vm.AND, CatBitwise, vm.GasFastestStep, 1, Value, Value)
	reg(vm.OR, CatBitwise, vm.GasFastestStep, 1, Value, Value)
	reg(vm.XOR, CatBitwise, vm.GasFastestStep, 1, Value, Value)
	reg(vm.NOT, CatBitwise, vm.GasFastestStep, 1, Value)
	reg(vm.BYTE, CatBitwise, vm.GasFastestStep, 1, Index32, Word)
	reg(vm.SHL, CatBitwise, vm.GasFastestStep, 1, Index256, Value)
	reg(vm.SHR, CatBitwise, vm.GasFastestStep, 1, Index256, Value)
	reg(vm.SAR, CatBitwise, vm.GasFastestStep, 1, Index256, Value)

	reg(vm.KECCAK256, CatSha3, params.Keccak256Gas, 1, MemOffset, Length)

	reg(vm.ADDRESS, CatEnvironment, vm.GasQuickStep, 1)
	reg(vm.BALANCE, CatEnvironment, params.WarmStorageReadCostEIP2929, 1, Address)
	reg(vm.ORIGIN, CatEnvironment, vm.GasQuickStep, 1)
	reg(vm.CALLER, CatEnvironment, vm.GasQuickStep, 1)
	reg(vm.CALLVALUE, CatEnvironment, vm.GasQuickStep, 1)
	reg(vm.CALLDATALOAD, CatEnvironment, vm.GasFastestStep, 1, Index64)
	reg(vm.CALLDATASIZE, CatEnvironment, vm.GasQuickStep, 1)
	reg(vm.CALLDATACOPY, CatEnvironment, vm.GasFastestStep, 0, MemOffset, MemOffset, Length)
	reg(vm.CODESIZE, CatEnvironment, vm.GasQuickStep, 1)
	reg(vm.CODECOPY, CatEnvironment, vm.GasFastestStep, 0, MemOffset, MemOffset, Length)
	reg(vm.GASPRICE, CatEnvironment, vm.GasQuickStep, 1)
	reg(vm.EXTCODESIZE, CatEnvironment, params.WarmStorageReadCostEIP2929, 1, Address)
	reg(vm.EXTCODECOPY, CatEnvironment, params.WarmStorageReadCostEIP2929, 0, Address, MemOffset, MemOffset, Length)
	reg(vm.RETURNDATASIZE, CatEnvironment, vm.GasQuickStep, 1)
	reg(vm.RETURNDATACOPY, CatEnvironment, vm.GasFastestStep, 0, MemOffset, MemOffset, Length)
	reg(vm.EXTCODEHASH, CatEnvironment, params.WarmStorageReadCostEIP2929, 1, Address)

	reg(vm.BLOCKHASH, CatBlock, vm.GasExtStep, 1, Index256)
	reg(vm.COINBASE, CatBlock, vm.GasQuickStep, 1)
	reg(vm.TIMESTAMP, CatBlock, vm.GasQuickStep, 1)
	reg(vm.NUMBER, CatBlock, vm.GasQuickStep, 1)
	reg(vm.DIFFICULTY, CatBlock, vm.GasQuickStep, 1)
	reg(vm.GASLIMIT, CatBlock, vm.GasQuickStep, 1)
	reg(vm.CHAINID, CatBlock, vm.GasQuickStep, 1)
	reg(vm.SELFBALANCE, CatBlock, vm.GasFastStep, 1)
	reg(vm.BASEFEE, CatBlock, vm.GasQuickStep, 1)
	reg(vm.BLOBHASH, CatBlock, vm.GasFastestStep, 1, Index32)
	reg(vm.BLOBBASEFEE, CatBlock, vm.GasQuickStep, 1)

	reg(vm.POP, CatStack, vm.GasQuickStep, 0, Value)
	reg(vm.MLOAD, CatMemory, vm.GasFastestStep, 1, MemOffset)
	reg(vm.MSTORE, CatMemory, vm.GasFastestStep, 0, MemOffset, Word)
	reg(vm.MSTORE8, CatMemory, vm.GasFastestStep, 0, MemOffset, Byte)
	reg(vm.MSIZE, CatMemory, vm.GasQuickStep, 1)
	reg(vm.MCOPY, CatMemory, vm.GasFastestStep, 0, MemOffset, MemOffset, Length)
	reg(vm.SLOAD, CatStorage, params.SloadGasEIP2200, 1, Index256)
	reg(vm.SSTORE, CatStorage, params.SstoreSetGas, 0, Index256, Data)
	reg(vm.TLOAD, CatStorage, params.WarmStorageReadCostEIP2929, 1, Index256)
	reg(vm.TSTORE, CatStorage, params.WarmStorageReadCostEIP2929, 0, Index256, Data)

	reg(vm.JUMP, CatFlow, vm.GasMidStep, 0, Label)
	reg(vm.JUMPI, CatFlow, vm.GasSlowStep, 0, Label, Bool)
	reg(vm.PC, CatFlow, vm.GasQuickStep, 1)
	reg(vm.GAS, CatFlow, vm.GasQuickStep, 1)
	reg(vm.JUMPDEST, CatFlow, params.JumpdestGas, 0)

	reg(vm.PUSH0, CatPush, vm.GasQuickStep, 1)
	for i := 0; i < 32; i++ {
		reg(vm.PUSH1+vm.OpCode(i), CatPush, vm.GasFastestStep, 1)
	}
	for n := 1; n <= 16; n++ {
		reg(vm.DUP1+vm.OpCode(n-1), CatDup, vm.GasFastestStep, minDupStack(n)+1, values(minDupStack(n))...)
	}
	for n := 1; n <= 16; n++ {
		reg(vm.SWAP1+vm.OpCode(n-1), CatSwap, vm.GasFastestStep, minSwapStack(n+1), values(minSwapStack(n+1))...)
	}
	for n := 0; n <= 4; n++ {
		pops := append([]ArgType{MemOffset, Length}, words(n)...)
		reg(vm.LOG0+vm.OpCode(n), CatLog, params.LogGas+uint64(n)*params.LogTopicGas, 0, pops...)
	}

	reg(vm.CREATE, CatSystem, params.CreateGas, 1, CallValue, MemOffset, Length)
	reg(vm.CALL, CatSystem, params.CallGasEIP150, 1, Gas, Address, CallValue, MemOffset, Length, MemOffset, Length)
	reg(vm.CALLCODE, CatSystem, params.CallGasEIP150, 1, Gas, Address, CallValue, MemOffset, Length, MemOffset, Length)
	reg(vm.RETURN, CatSystem, 0, 0, MemOffset, Length)
	reg(vm.DELEGATECALL, CatSystem, params.CallGasEIP150, 1, Gas, Address, MemOffset, Length, MemOffset, Length)
	reg(vm.CREATE2, CatSystem, params.CreateGas, 1, CallValue, MemOffset, Length, Word)
	reg(vm.STATICCALL, CatSystem, params.CallGasEIP150, 1, Gas, Address, MemOffset, Length, MemOffset, Length)
	reg(vm.REVERT, CatSystem, 0, 0, MemOffset, Length)
	reg(vm.INVALID, CatSystem, 0, 0)
	reg(vm.SELFDESTRUCT, CatSystem, params.SelfdestructGasEIP150, 0, Address)

	for _, ops := range byCategory {
		sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	}
}

func values(n int) []ArgType {
	out := make([]ArgType, n)
	for i := range out {
		out[i] = Value
	}
	return out
}

func words(n int) []ArgType {
	out := make([]ArgType, n)
	for i := range out {
		out[i] = Word
	}
	return out
}

// Info returns the registry entry for op. Undefined opcodes return an entry
// with Valid unset and no stack effect.
func Info(op vm.OpCode) OpInfo {
	return opTable[op]
}

// Name returns the mnemonic of op, or UNKNOWN_0xNN for undefined opcodes.
func Name(op vm.OpCode) string {
	if !opTable[op].Valid {
		return fmt.Sprintf("UNKNOWN_0x%02x", byte(op))
	}
	return op.String()
}

// OpcodesIn returns the defined opcodes of a category in ascending order.
// The returned slice must not be modified.
func OpcodesIn(cat Category) []vm.OpCode {
	return byCategory[cat]
}

// Categories returns every category that has at least one opcode, sorted by name.
func Categories() []Category {
	cats := make([]Category, 0, len(byCategory))
	for c := range byCategory {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// PushSize is the number of immediate bytes following op.
func PushSize(op vm.OpCode) int {
	if op.IsPush() {
		return int(op - vm.PUSH0)
	}
	return 0
}

// IsJump reports whether op transfers control to a stack-supplied target.
func IsJump(op vm.OpCode) bool {
	return op == vm.JUMP || op == vm.JUMPI
}
