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

//go:build amd64 && goexperiment.simd

package hwy

import "simd/archsimd"

// AVX2 saturating byte kernels: VPADDUSB / VPSUBUSB on 32 lanes at a time.
// The float kernels stay on the lane-blocked SWAR forms.

func useAVX2Kernels() {
	AddSaturatedU8 = addSaturatedU8AVX2
	SubSaturatedU8 = subSaturatedU8AVX2
	kernelName = "avx2"
}

func addSaturatedU8AVX2(buf []uint8, v uint8) {
	if v == 0 {
		return
	}
	dv := archsimd.BroadcastUint8x32(v)
	i := 0
	for ; i+32 <= len(buf); i += 32 {
		x := archsimd.LoadUint8x32Slice(buf[i:])
		x.AddSaturated(dv).StoreSlice(buf[i:])
	}
	BaseAddSaturatedU8(buf[i:], v)
}

func subSaturatedU8AVX2(buf []uint8, v uint8) {
	if v == 0 {
		return
	}
	dv := archsimd.BroadcastUint8x32(v)
	i := 0
	for ; i+32 <= len(buf); i += 32 {
		x := archsimd.LoadUint8x32Slice(buf[i:])
		x.SubSaturated(dv).StoreSlice(buf[i:])
	}
	BaseSubSaturatedU8(buf[i:], v)
}
