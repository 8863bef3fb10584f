// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package image

import (
	"sync"
	"sync/atomic"

	"github.com/go-highway/pixbuf/hwy"
	"github.com/go-highway/pixbuf/hwy/contrib/workerpool"
)

// ParallelThreshold is the pixel count (width*height) above which transforms
// split their rows across the worker pool and use byte-lane kernels.
const ParallelThreshold = 10000

// rowBlocks is the number of row blocks a large image is cut into. Block
// boundaries depend only on the height, so results never depend on the
// number of workers.
const rowBlocks = 64

// execPath is the execution strategy chosen for one transform call.
type execPath int

const (
	pathScalar execPath = iota
	pathParallel
	pathVector
)

func (p execPath) String() string {
	switch p {
	case pathScalar:
		return "scalar"
	case pathParallel:
		return "parallel"
	case pathVector:
		return "vector"
	default:
		return "unknown"
	}
}

var (
	defaultPoolOnce sync.Once
	defaultPool     *workerpool.Pool
	customPool      atomic.Pointer[workerpool.Pool]
)

// DefaultPool returns the package-wide pool, sized to GOMAXPROCS on first use.
func DefaultPool() *workerpool.Pool {
	defaultPoolOnce.Do(func() {
		defaultPool = workerpool.New(0)
	})
	return defaultPool
}

// SetPool makes transforms run on p. A nil pool restores DefaultPool. The
// caller keeps ownership of p and must not close it while transforms run.
func SetPool(p *workerpool.Pool) {
	customPool.Store(p)
}

func pool() *workerpool.Pool {
	if p := customPool.Load(); p != nil {
		return p
	}
	return DefaultPool()
}

func rowGrain(rows int) int {
	return max(1, (rows+rowBlocks-1)/rowBlocks)
}

// parallelRows runs fn over [0, rows) in row blocks on the pool.
func parallelRows(rows int, fn func(start, end int)) {
	pool().ParallelFor(rows, rowGrain(rows), fn)
}

func large(width, height int) bool {
	return width*height > ParallelThreshold
}

// SIMDInfo describes the dispatch target the transforms run on, for
// example "avx2 (32-byte vectors, swar kernels)".
func SIMDInfo() string {
	return hwy.Info()
}
