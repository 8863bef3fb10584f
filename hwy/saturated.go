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

// This file provides the scalar reference forms of the byte kernels.
// Saturated operations clamp results to [0, 255] instead of wrapping, and the
// float helpers round every product to float32 before adding it, so no target
// can fuse a multiply-add and drift from the reference by one ulp.

// AddClampU8 returns clamp(v+delta, 0, 255).
func AddClampU8(v uint8, delta int) uint8 {
	s := int(v) + delta
	if s < 0 {
		return 0
	}
	if s > 255 {
		return 255
	}
	return uint8(s)
}

// RoundU8 rounds x half-up and saturates it to [0, 255]. NaN maps to 0.
//
// The half is added in float64, where x+0.5 is exact for every float32
// below 255; in float32 the sum of 0.49999997 and 0.5 rounds up to 1.
func RoundU8(x float32) uint8 {
	if !(x > 0) {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(float64(x) + 0.5)
}

// MulAddF32 returns acc + s*w with the product rounded to float32 first.
func MulAddF32(acc, s, w float32) float32 {
	return acc + float32(s*w)
}

// BlendByte returns round(alpha*a + beta*b) saturated to [0, 255].
func BlendByte(a, b uint8, alpha, beta float32) uint8 {
	return RoundU8(float32(alpha*float32(a)) + float32(beta*float32(b)))
}

// BaseAddSaturatedU8 adds v to every byte of buf in place, saturating at 255.
func BaseAddSaturatedU8(buf []uint8, v uint8) {
	for i, x := range buf {
		s := uint16(x) + uint16(v)
		if s > 255 {
			s = 255
		}
		buf[i] = uint8(s)
	}
}

// BaseSubSaturatedU8 subtracts v from every byte of buf in place, saturating at 0.
func BaseSubSaturatedU8(buf []uint8, v uint8) {
	for i, x := range buf {
		if x < v {
			buf[i] = 0
		} else {
			buf[i] = x - v
		}
	}
}

// BaseBlendU8 computes dst[i] = BlendByte(a[i], b[i], alpha, beta).
func BaseBlendU8(dst, a, b []uint8, alpha, beta float32) {
	n := min(len(dst), len(a), len(b))
	for i := range n {
		dst[i] = BlendByte(a[i], b[i], alpha, beta)
	}
}

// BaseMulAddU8F32 accumulates acc[i] += float32(src[i]) * w.
func BaseMulAddU8F32(acc []float32, src []uint8, w float32) {
	n := min(len(acc), len(src))
	for i := range n {
		acc[i] = MulAddF32(acc[i], float32(src[i]), w)
	}
}

// BaseRoundF32ToU8 narrows src into dst with RoundU8.
func BaseRoundF32ToU8(dst []uint8, src []float32) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = RoundU8(src[i])
	}
}
