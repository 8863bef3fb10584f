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

	"github.com/go-highway/pixbuf/hwy"
)

func blendPath(out, a, b *Image) execPath {
	if !large(out.width, out.height) {
		return pathScalar
	}
	if out.Packed() && a.Packed() && b.Packed() {
		return pathVector
	}
	return pathParallel
}

// Blend returns a new image whose bytes are alpha*a + (1-alpha)*b, rounded
// half up. a and b must be non-empty with the same shape, and alpha must lie
// in [0, 1]. Nothing is allocated when validation fails.
func Blend(a, b *Image, alpha float32) (*Image, error) {
	if a == nil || b == nil || a.store == nil || b.store == nil {
		return nil, fmt.Errorf("%w: blend needs two non-empty images", ErrInvalidArgument)
	}
	if !(alpha >= 0 && alpha <= 1) {
		return nil, fmt.Errorf("%w: blend alpha %v outside [0, 1]", ErrInvalidArgument, alpha)
	}
	if a.width != b.width || a.height != b.height || a.channels != b.channels {
		return nil, fmt.Errorf("%w: blend of %dx%dx%d and %dx%dx%d images",
			ErrInvalidArgument, a.width, a.height, a.channels, b.width, b.height, b.channels)
	}
	out, err := New(a.width, a.height, a.channels)
	if err != nil {
		return nil, err
	}
	beta := 1 - alpha
	p := blendPath(out, a, b)
	log().Debug("image: blend", "alpha", alpha, "path", p, "kernels", hwy.KernelName())
	switch p {
	case pathVector:
		parallelRows(out.height, func(start, end int) { blendRowsVector(out, a, b, alpha, beta, start, end) })
	case pathParallel:
		parallelRows(out.height, func(start, end int) { blendRows(out, a, b, alpha, beta, start, end) })
	default:
		blendRows(out, a, b, alpha, beta, 0, out.height)
	}
	return out, nil
}

func blendRows(out, a, b *Image, alpha, beta float32, start, end int) {
	for y := start; y < end; y++ {
		dst, ra, rb := out.rowMut(y), a.Row(y), b.Row(y)
		for i := range dst {
			dst[i] = hwy.BlendByte(ra[i], rb[i], alpha, beta)
		}
	}
}

// blendRowsVector assumes all three images are packed, so a block of rows is
// one contiguous span.
func blendRowsVector(out, a, b *Image, alpha, beta float32, start, end int) {
	rowBytes := out.width * out.channels
	lo, hi := start*rowBytes, end*rowBytes
	hwy.BlendU8(out.store.data[lo:hi], a.store.data[lo:hi], b.store.data[lo:hi], alpha, beta)
}

// rowMut is Row for images the caller already owns exclusively.
func (img *Image) rowMut(y int) []uint8 {
	start := y * img.stride
	return img.store.data[start : start+img.width*img.channels]
}
