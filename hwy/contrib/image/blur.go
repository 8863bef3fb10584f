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

	"github.com/go-highway/pixbuf/hwy"
)

// Clamp clamps index to [0, size-1] (repeat edge pixels).
func Clamp(index, size int) int {
	if index < 0 {
		return 0
	}
	if index >= size {
		return size - 1
	}
	return index
}

// GaussianKernel returns the normalized 1D Gaussian weights for an odd size
// and a positive sigma. Weights are computed in float64, stored as float32
// and divided by their float32 sum.
func GaussianKernel(size int, sigma float64) ([]float32, error) {
	if size <= 0 || size%2 == 0 {
		return nil, fmt.Errorf("%w: kernel size %d must be positive and odd", ErrInvalidArgument, size)
	}
	if !(sigma > 0) || math.IsInf(sigma, 1) {
		return nil, fmt.Errorf("%w: sigma %v must be positive and finite", ErrInvalidArgument, sigma)
	}
	r := size / 2
	kernel := make([]float32, size)
	var sum float32
	for i := range kernel {
		x := float64(i - r)
		kernel[i] = float32(math.Exp(-x * x / (2 * sigma * sigma)))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel, nil
}

// GaussianBlur returns a blurred copy of img using a separable Gaussian of
// the given odd kernel size and sigma. Samples beyond the border repeat the
// edge pixel. img itself is not modified.
func (img *Image) GaussianBlur(kernelSize int, sigma float64) (*Image, error) {
	if img.store == nil {
		return nil, fmt.Errorf("%w: blur of an empty image", ErrInvalidArgument)
	}
	kernel, err := GaussianKernel(kernelSize, sigma)
	if err != nil {
		return nil, err
	}
	tmp, err := New(img.width, img.height, img.channels)
	if err != nil {
		return nil, err
	}
	defer tmp.Release()
	out, err := New(img.width, img.height, img.channels)
	if err != nil {
		return nil, err
	}

	if large(img.width, img.height) {
		log().Debug("image: blur", "size", kernelSize, "sigma", sigma, "path", pathVector)
		parallelRows(img.height, func(start, end int) { blurHorizontalFast(img, tmp, kernel, start, end) })
		parallelRows(img.height, func(start, end int) { blurVerticalFast(tmp, out, kernel, start, end) })
	} else {
		log().Debug("image: blur", "size", kernelSize, "sigma", sigma, "path", pathScalar)
		blurHorizontal(img, tmp, kernel, 0, img.height)
		blurVertical(tmp, out, kernel, 0, img.height)
	}
	return out, nil
}

// blurHorizontal is the reference horizontal pass. Every faster variant sums
// the same products in the same order.
func blurHorizontal(src, dst *Image, kernel []float32, start, end int) {
	w, c, r := src.width, src.channels, len(kernel)/2
	for y := start; y < end; y++ {
		in, out := src.Row(y), dst.rowMut(y)
		for x := range w {
			for ch := range c {
				var sum float32
				for k, wt := range kernel {
					sum = hwy.MulAddF32(sum, float32(in[Clamp(x+k-r, w)*c+ch]), wt)
				}
				out[x*c+ch] = hwy.RoundU8(sum)
			}
		}
	}
}

// blurVertical is the reference vertical pass.
func blurVertical(src, dst *Image, kernel []float32, start, end int) {
	w, h, c, r := src.width, src.height, src.channels, len(kernel)/2
	for y := start; y < end; y++ {
		out := dst.rowMut(y)
		for i := range w * c {
			var sum float32
			for k, wt := range kernel {
				sum = hwy.MulAddF32(sum, float32(src.Row(Clamp(y+k-r, h))[i]), wt)
			}
			out[i] = hwy.RoundU8(sum)
		}
	}
}

// blurHorizontalFast skips the clamp for columns whose window lies inside
// the row.
func blurHorizontalFast(src, dst *Image, kernel []float32, start, end int) {
	w, c, r := src.width, src.channels, len(kernel)/2
	for y := start; y < end; y++ {
		in, out := src.Row(y), dst.rowMut(y)
		for x := range w {
			if x < r || x >= w-r {
				for ch := range c {
					var sum float32
					for k, wt := range kernel {
						sum = hwy.MulAddF32(sum, float32(in[Clamp(x+k-r, w)*c+ch]), wt)
					}
					out[x*c+ch] = hwy.RoundU8(sum)
				}
				continue
			}
			for ch := range c {
				base := (x-r)*c + ch
				var sum float32
				for k, wt := range kernel {
					sum = hwy.MulAddF32(sum, float32(in[base+k*c]), wt)
				}
				out[x*c+ch] = hwy.RoundU8(sum)
			}
		}
	}
}

// blurVerticalFast accumulates whole source rows into a float32 row with the
// byte-lane kernels, then rounds the row in one pass.
func blurVerticalFast(src, dst *Image, kernel []float32, start, end int) {
	h, r := src.height, len(kernel)/2
	acc := make([]float32, src.width*src.channels)
	for y := start; y < end; y++ {
		clear(acc)
		for k, wt := range kernel {
			hwy.MulAddU8F32(acc, src.Row(Clamp(y+k-r, h)), wt)
		}
		hwy.RoundF32ToU8(dst.rowMut(y), acc)
	}
}
