// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestBlocks(t *testing.T) {
	tests := []struct {
		n, grain, want int
	}{
		{0, 4, 0},
		{-3, 4, 0},
		{1, 4, 1},
		{4, 4, 1},
		{5, 4, 2},
		{100, 0, 100},
		{100, 7, 15},
	}
	for _, tc := range tests {
		if got := Blocks(tc.n, tc.grain); got != tc.want {
			t.Errorf("Blocks(%d, %d) = %d, want %d", tc.n, tc.grain, got, tc.want)
		}
	}
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)

	pool.ParallelFor(n, 7, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

// blockRanges records the [start, end) pairs ParallelFor hands out.
func blockRanges(pool *Pool, n, grain int) [][2]int {
	var mu sync.Mutex
	var ranges [][2]int
	pool.ParallelFor(n, grain, func(start, end int) {
		mu.Lock()
		ranges = append(ranges, [2]int{start, end})
		mu.Unlock()
	})
	slices.SortFunc(ranges, func(a, b [2]int) int { return a[0] - b[0] })
	return ranges
}

func TestParallelForBlocksIndependentOfWorkers(t *testing.T) {
	single := New(1)
	defer single.Close()
	want := blockRanges(single, 1000, 37)

	for _, workers := range []int{2, 3, 8, 16} {
		pool := New(workers)
		got := blockRanges(pool, 1000, 37)
		pool.Close()
		if !slices.Equal(got, want) {
			t.Errorf("workers=%d: block ranges differ from single-worker ranges", workers)
		}
	}

	if len(want) != Blocks(1000, 37) {
		t.Errorf("got %d blocks, want %d", len(want), Blocks(1000, 37))
	}
	for i, r := range want {
		if r[0] != i*37 || r[1] != min(i*37+37, 1000) {
			t.Errorf("block %d = %v", i, r)
		}
	}
}

func TestParallelForClosed(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close()

	var count atomic.Int32
	pool.ParallelFor(50, 5, func(start, end int) {
		count.Add(int32(end - start))
	})
	if count.Load() != 50 {
		t.Errorf("closed pool processed %d items, want 50", count.Load())
	}
}

func TestParallelForNilPool(t *testing.T) {
	var pool *Pool
	var count int
	pool.ParallelFor(10, 3, func(start, end int) {
		count += end - start
	})
	if count != 10 {
		t.Errorf("nil pool processed %d items, want 10", count)
	}
}

func TestParallelForEmpty(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	called := false
	pool.ParallelFor(0, 4, func(start, end int) {
		called = true
	})
	if called {
		t.Error("fn called for n=0")
	}
}

func BenchmarkParallelFor(b *testing.B) {
	pool := New(runtime.GOMAXPROCS(0))
	defer pool.Close()

	data := make([]float32, 1<<16)
	for b.Loop() {
		pool.ParallelFor(len(data), 1024, func(start, end int) {
			for i := start; i < end; i++ {
				data[i] = data[i]*1.0001 + 1
			}
		})
	}
}
