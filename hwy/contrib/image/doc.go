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

// Package image provides byte images whose pixel storage is shared between
// views and duplicated lazily on the first write (copy-on-write).
//
// A Store is a reference-counted byte buffer. An Image is a lightweight view
// describing width, height, channels and a row stride rounded up to a multiple
// of 4 bytes. Copying a view attaches another owner to the same store; any
// mutating access first makes the store exclusive to the writer.
//
// # Lifecycle
//
//	img, err := image.New(640, 480, 3)  // zero-filled
//	alias := img.Copy()                 // shares the store, owners == 2
//	alias.Set(0, 0, 0, 255)             // alias gets its own store first
//	alias.Release()                     // detach explicitly when done
//
// A view that becomes unreachable without Release detaches from its store
// when the garbage collector reclaims it.
//
// # Transforms
//
//	img.AdjustBrightness(40)            // saturating add, in place
//	out, err := image.Blend(a, b, 0.3)  // 0.3*a + 0.7*b, new image
//	out, err = img.GaussianBlur(5, 1.2) // separable blur, new image
//
// Images larger than ParallelThreshold pixels are processed in row blocks on
// a shared worker pool, and byte-lane kernels from package hwy are used where
// the layout allows it. Every path produces bit-identical output.
//
// # Edge Handling
//
// Blur samples outside the image repeat the nearest edge pixel (see Clamp).
package image
