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
	"fmt"
	"sort"

	"github.com/r5-labs/evmcodegen/core/evm"
)

// Distribution is a read-only table of opcode category weights together with
// the average program length observed for it.
type Distribution struct {
	Name       string
	Avg        int
	Categories []Choice[evm.Category]
}

// EVMCategory approximates the category spread of deployed mainnet contracts.
var EVMCategory = Distribution{
	Name: "evm",
	Avg:  100,
	Categories: []Choice[evm.Category]{
		{evm.CatPush, 300},
		{evm.CatDup, 120},
		{evm.CatFlow, 90},
		{evm.CatSwap, 70},
		{evm.CatMemory, 70},
		{evm.CatArithmetic, 60},
		{evm.CatStack, 55},
		{evm.CatComparison, 50},
		{evm.CatBitwise, 45},
		{evm.CatEnvironment, 40},
		{evm.CatStorage, 25},
		{evm.CatSystem, 20},
		{evm.CatStop, 10},
		{evm.CatBlock, 10},
		{evm.CatSha3, 10},
		{evm.CatLog, 5},
	},
}

// Uniform weighs every category equally.
var Uniform = func() Distribution {
	d := Distribution{Name: "uniform", Avg: 100}
	for _, cat := range evm.Categories() {
		d.Categories = append(d.Categories, Choice[evm.Category]{cat, 1})
	}
	return d
}()

var distributions = map[string]Distribution{
	EVMCategory.Name: EVMCategory,
	Uniform.Name:     Uniform,
}

// LookupDistribution returns a built-in distribution by name.
func LookupDistribution(name string) (Distribution, error) {
	d, ok := distributions[name]
	if !ok {
		return Distribution{}, fmt.Errorf("%w: unknown distribution %q", ErrConfiguration, name)
	}
	return d, nil
}

// CustomDistribution builds a distribution from a category weight map, as
// loaded from a config file. Categories are ordered by name.
func CustomDistribution(avg int, weights map[string]int) Distribution {
	d := Distribution{Name: "custom", Avg: avg}
	for name, w := range weights {
		d.Categories = append(d.Categories, Choice[evm.Category]{evm.Category(name), w})
	}
	sort.Slice(d.Categories, func(i, j int) bool {
		return d.Categories[i].Item < d.Categories[j].Item
	})
	return d
}
