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

func brightnessPath(width, height, channels int) execPath {
	if !large(width, height) {
		return pathScalar
	}
	switch channels {
	case 1, 3, 4:
		return pathVector
	}
	return pathParallel
}

// AdjustBrightness adds delta to every pixel byte, saturating at 0 and 255.
// delta must lie in [-255, 255]. Padding bytes are not touched.
func (img *Image) AdjustBrightness(delta int) error {
	if delta < -255 || delta > 255 {
		return fmt.Errorf("%w: brightness delta %d outside [-255, 255]", ErrInvalidArgument, delta)
	}
	if img.store == nil {
		return fmt.Errorf("%w: adjust brightness of an empty image", ErrOperationFailed)
	}
	if err := img.CopyOnWrite(); err != nil {
		return err
	}
	p := brightnessPath(img.width, img.height, img.channels)
	log().Debug("image: brightness", "delta", delta, "path", p, "kernels", hwy.KernelName())
	switch p {
	case pathVector:
		img.brightnessVector(delta)
	case pathParallel:
		parallelRows(img.height, func(start, end int) { img.brightnessRows(delta, start, end) })
	default:
		img.brightnessRows(delta, 0, img.height)
	}
	return nil
}

func (img *Image) brightnessRows(delta, start, end int) {
	rowBytes := img.width * img.channels
	for y := start; y < end; y++ {
		row := img.store.data[y*img.stride : y*img.stride+rowBytes]
		for i, v := range row {
			row[i] = hwy.AddClampU8(v, delta)
		}
	}
}

func (img *Image) brightnessVector(delta int) {
	kernel, v := hwy.AddSaturatedU8, uint8(delta)
	if delta < 0 {
		kernel, v = hwy.SubSaturatedU8, uint8(-delta)
	}
	data, stride := img.store.data, img.stride
	rowBytes := img.width * img.channels
	packed := img.Packed()
	parallelRows(img.height, func(start, end int) {
		if packed {
			kernel(data[start*rowBytes:end*rowBytes], v)
			return
		}
		for y := start; y < end; y++ {
			kernel(data[y*stride:y*stride+rowBytes], v)
		}
	})
}
