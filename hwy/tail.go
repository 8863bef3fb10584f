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

package hwy

// ProcessWithTail calls fullFn for every complete vector of T in [0, size)
// and tailFn once for the remaining elements, if any. Offsets and counts are
// in elements.
//
// Example:
//
//	hwy.ProcessWithTail[uint8](len(buf),
//	    func(offset int) {
//	        block := buf[offset : offset+hwy.MaxLanes[uint8]()]
//	        // process one vector
//	    },
//	    func(offset, count int) {
//	        hwy.BaseAddSaturatedU8(buf[offset:offset+count], v)
//	    },
//	)
func ProcessWithTail[T Lanes](size int, fullFn func(offset int), tailFn func(offset, count int)) {
	maxLanes := MaxLanes[T]()

	fullVectors := size / maxLanes
	for i := range fullVectors {
		fullFn(i * maxLanes)
	}

	remaining := size % maxLanes
	if remaining > 0 {
		tailFn(fullVectors*maxLanes, remaining)
	}
}
