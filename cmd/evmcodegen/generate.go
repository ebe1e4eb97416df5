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
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"github.com/r5-labs/evmcodegen/codegen"
	"github.com/r5-labs/evmcodegen/codegen/corpus"
	"github.com/r5-labs/evmcodegen/producer"
	"github.com/urfave/cli/v2"
)

var (
	countFlag = &cli.IntFlag{
		Name:  "count",
		Usage: "Number of programs to generate (0 = until interrupted)",
		Value: 1,
	}
	seedFlag = &cli.Uint64Flag{
		Name:  "seed",
		Usage: "Random seed (default: derived from the current time)",
	}
	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "Number of generating goroutines",
		Value: 1,
	}
	dedupFlag = &cli.BoolFlag{
		Name:  "dedup",
		Usage: "Suppress programs that were already printed",
	}
	corpusFlag = &cli.StringFlag{
		Name:  "corpus",
		Usage: "LevelDB directory to store generated programs in; only new programs are printed",
	}
	statsFlag = &cli.BoolFlag{
		Name:  "stats",
		Usage: "Print a generation summary to stderr",
	}
)

var generateCommand = &cli.Command{
	Action: generateCmd,
	Name:   "generate",
	Usage:  "generates random EVM programs, one hex string per line",
	Flags: append([]cli.Flag{
		countFlag,
		seedFlag,
		workersFlag,
		dedupFlag,
		corpusFlag,
		statsFlag,
	}, configFlags...),
}

// generateStats summarises a generation run.
type generateStats struct {
	generated  int
	stored     int
	argsFixed  int
	balanced   int
	mutated    int
	totalBytes int
	elapsed    time.Duration
	cpu        float64
}

func (s *generateStats) add(res *codegen.Result) {
	s.generated++
	s.totalBytes += len(res.Bytes)
	if res.ArgsFixed {
		s.argsFixed++
	}
	if res.BalanceFixed {
		s.balanced++
	}
	if res.Mutated() {
		s.mutated++
	}
}

func (s *generateStats) render(w io.Writer) {
	mean := 0.0
	if s.generated > 0 {
		mean = float64(s.totalBytes) / float64(s.generated)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.AppendBulk([][]string{
		{"Generated", strconv.Itoa(s.generated)},
		{"Stored", strconv.Itoa(s.stored)},
		{"Arguments repaired", strconv.Itoa(s.argsFixed)},
		{"Stack balanced", strconv.Itoa(s.balanced)},
		{"Mutated", strconv.Itoa(s.mutated)},
		{"Mean size", fmt.Sprintf("%.1f bytes", mean)},
		{"Total size", common.StorageSize(s.totalBytes).String()},
		{"Elapsed", common.PrettyDuration(s.elapsed).String()},
		{"CPU time", fmt.Sprintf("%.2fs", s.cpu)},
	})
	table.Render()
}

func generateCmd(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	pipeline, err := codegen.NewPipeline(cfg)
	if err != nil {
		return err
	}
	seed := ctx.Uint64(seedFlag.Name)
	if !ctx.IsSet(seedFlag.Name) {
		seed = uint64(time.Now().UnixNano())
	}
	var store *corpus.Corpus
	if dir := ctx.String(corpusFlag.Name); dir != "" {
		if store, err = corpus.New(dir, 0, 0); err != nil {
			return err
		}
		defer store.Close()
	}
	prod := producer.New(pipeline, producer.Config{
		Workers: ctx.Int(workersFlag.Name),
		Seed:    seed,
		Count:   ctx.Int(countFlag.Name),
		Dedup:   ctx.Bool(dedupFlag.Name),
	})
	log.Info("Generating programs", "seed", seed, "count", ctx.Int(countFlag.Name), "workers", ctx.Int(workersFlag.Name))

	var (
		out     = bufio.NewWriter(os.Stdout)
		stats   generateStats
		start   = time.Now()
		cpu     = processCPUTime()
		results = make(chan *codegen.Result)
		sub     = prod.SubscribeResults(results)
		done    = make(chan error, 1)
		sigc    = make(chan os.Signal, 1)
	)
	defer out.Flush()
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	prod.Start()
	go func() { done <- prod.Wait() }()

loop:
	for {
		select {
		case res := <-results:
			stats.add(res)
			if store != nil {
				_, added, err := store.Put(res.Bytes)
				if err != nil {
					sub.Unsubscribe()
					prod.Stop()
					return err
				}
				if !added {
					continue
				}
				stats.stored++
			}
			fmt.Fprintln(out, res.Code)

		case err = <-done:
			break loop

		case <-sigc:
			log.Info("Got interrupt, shutting down...")
			sub.Unsubscribe()
			prod.Stop()
			err = prod.Wait()
			break loop
		}
	}
	sub.Unsubscribe()
	if err != nil {
		return err
	}
	if ctx.Bool(statsFlag.Name) {
		out.Flush()
		stats.elapsed = time.Since(start)
		stats.cpu = processCPUTime() - cpu
		stats.render(os.Stderr)
	}
	log.Info("Generation finished", "generated", stats.generated, "duplicates", prod.Duplicates(), "elapsed", common.PrettyDuration(time.Since(start)))
	return nil
}
