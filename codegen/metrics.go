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

import "github.com/ethereum/go-ethereum/metrics"

var (
	generatedCounter           = metrics.NewRegisteredCounter("codegen/generated", nil)
	argsRepairSkippedCounter   = metrics.NewRegisteredCounter("codegen/repair/args/skipped", nil)
	balanceRepairSkipCounter   = metrics.NewRegisteredCounter("codegen/repair/balance/skipped", nil)
	instrMutationCounter       = metrics.NewRegisteredCounter("codegen/mutate/instructions", nil)
	bytecodeMutationCounter    = metrics.NewRegisteredCounter("codegen/mutate/bytecode", nil)
	mutationOutOfBoundsCounter = metrics.NewRegisteredCounter("codegen/mutate/bounds", nil)
)
