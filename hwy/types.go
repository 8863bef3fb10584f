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

// Package hwy selects the widest vector target available at runtime and
// provides bulk byte-lane kernels for 8-bit pixel data.
//
// Every kernel has a scalar reference form, a portable SWAR form that works
// on 64-bit words and is unrolled to the detected vector width, and (when
// built with GOEXPERIMENT=simd on amd64) an AVX2 form. The kernel set is
// chosen once in init and exposed as function variables:
//
//	hwy.AddSaturatedU8(row, 40)   // row[i] = min(255, row[i]+40)
//	hwy.SubSaturatedU8(row, 40)   // row[i] = max(0, row[i]-40)
//
// All variants of a kernel produce bit-identical output, so callers may mix
// them freely (for instance a vector body with a scalar tail).
package hwy

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// Lanes is a constraint for all types that can be stored in vector lanes.
type Lanes interface {
	Floats | UnsignedInts | SignedInts
}
