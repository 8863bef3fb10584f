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

// Dispatch variables for the byte kernels. They start out pointing at the
// scalar reference and are overridden by init() in dispatch_*.go.
var (
	// AddSaturatedU8 adds v to every byte of buf in place, saturating at 255.
	AddSaturatedU8 func(buf []uint8, v uint8) = BaseAddSaturatedU8

	// SubSaturatedU8 subtracts v from every byte of buf in place, saturating at 0.
	SubSaturatedU8 func(buf []uint8, v uint8) = BaseSubSaturatedU8

	// BlendU8 computes dst[i] = round(alpha*a[i] + beta*b[i]) with saturation.
	BlendU8 func(dst, a, b []uint8, alpha, beta float32) = BaseBlendU8

	// MulAddU8F32 accumulates acc[i] += float32(src[i]) * w.
	MulAddU8F32 func(acc []float32, src []uint8, w float32) = BaseMulAddU8F32

	// RoundF32ToU8 narrows src into dst, rounding half-up with saturation.
	RoundF32ToU8 func(dst []uint8, src []float32) = BaseRoundF32ToU8
)

var kernelName = "scalar"

// KernelName returns the kernel family selected at startup: "scalar", "swar" or "avx2".
func KernelName() string {
	return kernelName
}

func useScalarKernels() {
	AddSaturatedU8 = BaseAddSaturatedU8
	SubSaturatedU8 = BaseSubSaturatedU8
	BlendU8 = BaseBlendU8
	MulAddU8F32 = BaseMulAddU8F32
	RoundF32ToU8 = BaseRoundF32ToU8
	kernelName = "scalar"
}

func useSWARKernels() {
	AddSaturatedU8 = swarAddSaturatedU8
	SubSaturatedU8 = swarSubSaturatedU8
	BlendU8 = laneBlendU8
	MulAddU8F32 = laneMulAddU8F32
	RoundF32ToU8 = laneRoundF32ToU8
	kernelName = "swar"
}
