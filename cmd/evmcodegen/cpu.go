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
	"github.com/shirou/gopsutil/process"
)

// processCPUTime returns the user plus system CPU seconds consumed by this
// process, or zero if they cannot be read.
func processCPUTime() float64 {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Error("Could not inspect own process", "err", err)
		return 0
	}
	times, err := proc.Times()
	if err != nil {
		log.Error("Could not read cpu stats", "err", err)
		return 0
	}
	return times.User + times.System
}
