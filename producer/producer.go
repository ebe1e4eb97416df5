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

// Package producer runs code generation on several goroutines and broadcasts
// the results to subscribers.
package producer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/r5-labs/evmcodegen/codegen"
	"golang.org/x/sync/errgroup"
)

// Config is the configuration of the producer.
type Config struct {
	Workers int    // number of generating goroutines, at least one
	Seed    uint64 // worker i draws from seed+i
	Count   int    // total number of programs to generate, 0 for no limit
	Dedup   bool   // suppress programs whose code was already emitted
}

// DefaultConfig contains default settings for the producer.
var DefaultConfig = Config{
	Workers: 1,
}

// Producer drives a codegen.Pipeline from a fixed set of workers. Worker i
// uses its own random source seeded with Seed+i and, when Count is set,
// generates the programs with index i, i+Workers, i+2*Workers and so on, so
// the set of programs produced does not depend on scheduling.
type Producer struct {
	config   Config
	pipeline *codegen.Pipeline

	feed event.Feed
	seen mapset.Set[common.Hash]

	produced   atomic.Uint64
	duplicates atomic.Uint64

	mu      sync.Mutex // protects cancel, done and err
	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

// New creates a producer. Nothing runs until Start is called.
func New(pipeline *codegen.Pipeline, config Config) *Producer {
	if config.Workers < 1 {
		log.Warn("Sanitizing invalid producer worker count", "provided", config.Workers, "updated", DefaultConfig.Workers)
		config.Workers = DefaultConfig.Workers
	}
	return &Producer{
		config:   config,
		pipeline: pipeline,
		seen:     mapset.NewSet[common.Hash](),
	}
}

// SubscribeResults registers a subscription for generated programs. Sending
// blocks until every subscriber has received the result, so subscribers must
// keep draining their channel or unsubscribe.
func (p *Producer) SubscribeResults(ch chan<- *codegen.Result) event.Subscription {
	return p.feed.Subscribe(ch)
}

// Start launches the workers. Every start begins again from the configured
// seeds. Calling Start on a running producer is a no-op.
func (p *Producer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running.Load() {
		return
	}
	p.running.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.config.Workers; i++ {
		quota := -1
		if p.config.Count > 0 {
			quota = (p.config.Count - i + p.config.Workers - 1) / p.config.Workers
			if quota <= 0 {
				continue
			}
		}
		id, r := i, codegen.NewRand(p.config.Seed+uint64(i))
		g.Go(func() error {
			return p.loop(ctx, id, r, quota)
		})
	}
	done := make(chan struct{})
	p.cancel, p.done, p.err = cancel, done, nil

	log.Debug("Started code producer", "workers", p.config.Workers, "seed", p.config.Seed, "count", p.config.Count)
	go func() {
		err := g.Wait()
		cancel()

		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		p.running.Store(false)
		close(done)
	}()
}

// loop generates programs until the quota is met or ctx is cancelled. A
// negative quota means no limit.
func (p *Producer) loop(ctx context.Context, id int, r *codegen.Rand, quota int) error {
	for n := 0; quota < 0 || n < quota; n++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		res, err := p.pipeline.Generate(r)
		if err != nil {
			return fmt.Errorf("worker %d: %w", id, err)
		}
		p.produced.Add(1)
		if p.config.Dedup && !p.seen.Add(res.Hash()) {
			p.duplicates.Add(1)
			continue
		}
		p.feed.Send(res)
	}
	return nil
}

// Wait blocks until the workers exit, either because the quota was met or the
// producer was stopped, and returns the first worker error.
func (p *Producer) Wait() error {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	if done == nil {
		return nil
	}
	<-done

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Stop halts the workers and waits for them to exit.
func (p *Producer) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.Wait()
}

// Close stops the producer.
func (p *Producer) Close() error {
	p.Stop()
	return nil
}

// Running reports whether any worker is still active.
func (p *Producer) Running() bool {
	return p.running.Load()
}

// Produced returns the number of programs generated, duplicates included.
func (p *Producer) Produced() uint64 {
	return p.produced.Load()
}

// Duplicates returns the number of programs suppressed by deduplication.
func (p *Producer) Duplicates() uint64 {
	return p.duplicates.Load()
}
