// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for
// row-parallel pixel work. A Pool is created once and reused across many
// calls, so a transform pays neither goroutine spawn nor channel allocation
// per call.
//
// Work is split into contiguous blocks whose boundaries depend only on the
// item count and the grain, never on the number of workers, so any output
// that is a pure function of its block is identical for every pool size.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.ParallelFor(height, 16, func(start, end int) {
//	    for y := start; y < end; y++ {
//	        processRow(y)
//	    }
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

// workItem represents one worker's share of a parallel operation.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. Pending work completes first.
// Calling Close multiple times is safe; a closed pool runs work inline.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// Blocks returns how many blocks ParallelFor splits n items into.
func Blocks(n, grain int) int {
	if n <= 0 {
		return 0
	}
	grain = max(grain, 1)
	return (n + grain - 1) / grain
}

// ParallelFor calls fn for every block [start, end) of [0, n), where each
// block holds grain items (the last may be shorter). Workers claim blocks
// through an atomic counter. Blocks until all blocks complete.
func (p *Pool) ParallelFor(n, grain int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	grain = max(grain, 1)
	numBlocks := Blocks(n, grain)

	if p == nil || p.closed.Load() || numBlocks == 1 || p.numWorkers == 1 {
		for b := range numBlocks {
			start := b * grain
			fn(start, min(start+grain, n))
		}
		return
	}

	workers := min(p.numWorkers, numBlocks)

	var nextBlock atomic.Int32
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		p.workC <- workItem{
			fn: func() {
				for {
					b := int(nextBlock.Add(1)) - 1
					if b >= numBlocks {
						return
					}
					start := b * grain
					fn(start, min(start+grain, n))
				}
			},
			barrier: &wg,
		}
	}

	wg.Wait()
}
