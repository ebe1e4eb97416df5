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

import "errors"

var (
	// ErrConfiguration is returned for invalid weight tables, probabilities or
	// generator selections. It indicates a setup bug in the caller.
	ErrConfiguration = errors.New("invalid code generator configuration")

	// ErrRepair is returned when a repair pass cannot source a stack input or
	// a jump target.
	ErrRepair = errors.New("code repair failed")

	// ErrBounds is returned when a mutation is applied to a sequence that is
	// too short for it. The pipeline skips the mutation step.
	ErrBounds = errors.New("sequence too short for mutation")
)
