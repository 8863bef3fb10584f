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

import "encoding/binary"

// SWAR ("SIMD within a register") kernels treat a uint64 as eight uint8 lanes.
// Each outer iteration consumes one full vector of CurrentWidth bytes so the
// loop shape matches the hardware kernels; the tail falls back to scalar.

const (
	lo7Mask  = 0x7f7f7f7f7f7f7f7f
	hi1Mask  = 0x8080808080808080
	byteOnes = 0x0101010101010101
)

// maxFloatLanes bounds the float32 lane buffers (AVX-512: 64 bytes / 4).
const maxFloatLanes = 16

// addSatWord adds y to x lane-wise with unsigned saturation.
func addSatWord(x, y uint64) uint64 {
	// Add the low seven bits of each lane, then patch bit 7 in with xor so no
	// carry crosses a lane boundary.
	sum := ((x & lo7Mask) + (y & lo7Mask)) ^ ((x ^ y) & hi1Mask)
	carry := ((x & y) | ((x | y) &^ sum)) & hi1Mask
	return sum | (carry>>7)*0xff
}

// subSatWord subtracts y from x lane-wise with unsigned saturation.
func subSatWord(x, y uint64) uint64 {
	diff := ((x | hi1Mask) - (y & lo7Mask)) ^ ((x ^ ^y) & hi1Mask)
	borrow := ((^x & y) | (^(x ^ y) & diff)) & hi1Mask
	return diff &^ ((borrow >> 7) * 0xff)
}

// satBlock applies op to every whole uint64 word of block.
func satBlock(block []uint8, y uint64, op func(x, y uint64) uint64) {
	for j := 0; j+8 <= len(block); j += 8 {
		w := binary.LittleEndian.Uint64(block[j:])
		binary.LittleEndian.PutUint64(block[j:], op(w, y))
	}
}

func swarAddSaturatedU8(buf []uint8, v uint8) {
	if v == 0 {
		return
	}
	y := uint64(v) * byteOnes
	ProcessWithTail[uint8](len(buf),
		func(offset int) { satBlock(buf[offset:offset+currentWidth], y, addSatWord) },
		func(offset, count int) { BaseAddSaturatedU8(buf[offset:offset+count], v) },
	)
}

func swarSubSaturatedU8(buf []uint8, v uint8) {
	if v == 0 {
		return
	}
	y := uint64(v) * byteOnes
	ProcessWithTail[uint8](len(buf),
		func(offset int) { satBlock(buf[offset:offset+currentWidth], y, subSatWord) },
		func(offset, count int) { BaseSubSaturatedU8(buf[offset:offset+count], v) },
	)
}

// laneBlendU8 widens MaxLanes[float32] bytes of each input at a time,
// multiply-adds in float32 lanes, then narrows back with saturation.
func laneBlendU8(dst, a, b []uint8, alpha, beta float32) {
	n := min(len(dst), len(a), len(b))
	lanes := min(MaxLanes[float32](), maxFloatLanes)
	var va, vb [maxFloatLanes]float32
	i := 0
	for ; i+lanes <= n; i += lanes {
		pa := a[i : i+lanes : i+lanes]
		pb := b[i : i+lanes : i+lanes]
		pd := dst[i : i+lanes : i+lanes]
		for j := range pa {
			va[j] = float32(pa[j])
			vb[j] = float32(pb[j])
		}
		for j := range lanes {
			va[j] = float32(alpha*va[j]) + float32(beta*vb[j])
		}
		for j := range pd {
			pd[j] = RoundU8(va[j])
		}
	}
	BaseBlendU8(dst[i:n], a[i:n], b[i:n], alpha, beta)
}

func laneMulAddU8F32(acc []float32, src []uint8, w float32) {
	n := min(len(acc), len(src))
	lanes := min(MaxLanes[float32](), maxFloatLanes)
	var vs [maxFloatLanes]float32
	i := 0
	for ; i+lanes <= n; i += lanes {
		ps := src[i : i+lanes : i+lanes]
		pa := acc[i : i+lanes : i+lanes]
		for j := range ps {
			vs[j] = float32(ps[j])
		}
		for j := range pa {
			pa[j] += float32(vs[j] * w)
		}
	}
	BaseMulAddU8F32(acc[i:n], src[i:n], w)
}

func laneRoundF32ToU8(dst []uint8, src []float32) {
	n := min(len(dst), len(src))
	lanes := min(MaxLanes[float32](), maxFloatLanes)
	i := 0
	for ; i+lanes <= n; i += lanes {
		ps := src[i : i+lanes : i+lanes]
		pd := dst[i : i+lanes : i+lanes]
		for j := range pd {
			pd[j] = RoundU8(ps[j])
		}
	}
	BaseRoundF32ToU8(dst[i:n], src[i:n])
}
