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
	"fmt"
	"math"
	"sync/atomic"
)

// MaxStoreBytes is the largest store NewStore will allocate.
const MaxStoreBytes = math.MaxInt32

// Store is a reference-counted pixel buffer shared by one or more Image
// views. The owner count is maintained with atomic operations, so views on
// different goroutines may attach and detach concurrently. The bytes
// themselves are not synchronized: a store with more than one owner must only
// be read.
type Store struct {
	data   []byte
	size   int
	owners atomic.Int32
}

// NewStore allocates a zero-filled store of size bytes with one owner.
func NewStore(size int) (*Store, error) {
	if size < 0 || size > MaxStoreBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrAllocation, size)
	}
	s := &Store{data: make([]byte, size), size: size}
	s.owners.Store(1)
	log().Debug("image: store allocated", "bytes", size)
	return s, nil
}

// Attach registers one more owner. It must be called by a current owner on
// behalf of the new one, so the count is never resurrected from zero.
func (s *Store) Attach() {
	s.owners.Add(1)
}

// Detach drops one owner and returns the remaining count. The owner that
// brings the count to zero releases the buffer. Detaching a store that has
// no owners left does nothing and returns 0.
func (s *Store) Detach() int {
	for {
		n := s.owners.Load()
		if n <= 0 {
			return 0
		}
		if s.owners.CompareAndSwap(n, n-1) {
			if n == 1 {
				s.data = nil
				log().Debug("image: store released", "bytes", s.size)
			}
			return int(n - 1)
		}
	}
}

// Owners returns the current owner count. It is a snapshot meant for
// diagnostics and tests.
func (s *Store) Owners() int {
	return int(s.owners.Load())
}

// Len returns the store size in bytes, as allocated.
func (s *Store) Len() int {
	return s.size
}

// Bytes returns the backing buffer, or nil once the store is released.
func (s *Store) Bytes() []byte {
	return s.data
}
