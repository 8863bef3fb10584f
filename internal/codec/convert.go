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

package codec

import (
	"fmt"
	"image"
	"image/color"
)

// unpack converts a decoded image into packed bytes and picks the channel
// count from its colour model.
func unpack(m image.Image) (pix []byte, width, height, channels int) {
	b := m.Bounds()
	width, height = b.Dx(), b.Dy()

	switch m := m.(type) {
	case *image.Gray:
		pix = make([]byte, width*height)
		for y := range height {
			copy(pix[y*width:], m.Pix[y*m.Stride:y*m.Stride+width])
		}
		return pix, width, height, 1
	case *image.Gray16:
		pix = make([]byte, width*height)
		for y := range height {
			row := m.Pix[y*m.Stride:]
			for x := range width {
				pix[y*width+x] = row[2*x]
			}
		}
		return pix, width, height, 1
	case *image.Paletted:
		if lut, ok := grayPalette(m.Palette); ok {
			pix = make([]byte, width*height)
			i := 0
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					pix[i] = lut[m.ColorIndexAt(x, y)]
					i++
				}
			}
			return pix, width, height, 1
		}
	case *image.NRGBA:
		if !m.Opaque() {
			pix = make([]byte, width*height*4)
			for y := range height {
				copy(pix[y*width*4:], m.Pix[y*m.Stride:y*m.Stride+width*4])
			}
			return pix, width, height, 4
		}
	}

	channels = 4
	if o, ok := m.(interface{ Opaque() bool }); ok && o.Opaque() {
		channels = 3
	}
	pix = make([]byte, width*height*channels)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			pix[i], pix[i+1], pix[i+2] = c.R, c.G, c.B
			if channels == 4 {
				pix[i+3] = c.A
			}
			i += channels
		}
	}
	return pix, width, height, channels
}

// grayPalette returns the gray level of every palette entry when all of
// them are opaque grays. Indices past the palette map to 0, like At.
func grayPalette(p color.Palette) (lut [256]uint8, ok bool) {
	if len(p) == 0 || len(p) > 256 {
		return lut, false
	}
	for i, c := range p {
		r, g, b, a := c.RGBA()
		if r != g || g != b || a != 0xffff {
			return lut, false
		}
		lut[i] = uint8(r >> 8)
	}
	return lut, true
}

// convertChannels repacks pix from one channel layout to another. Gray is
// replicated into RGB, a missing alpha reads as 255 and colour narrows to
// gray by keeping the red byte. Both counts must be in 1..4.
func convertChannels(pix []byte, from, to int) []byte {
	n := len(pix) / from
	out := make([]byte, n*to)
	for i := range n {
		s, d := pix[i*from:], out[i*to:]
		var r, g, b, a uint8
		switch from {
		case 1:
			r, g, b, a = s[0], s[0], s[0], 255
		case 2:
			r, g, b, a = s[0], s[0], s[0], s[1]
		case 3:
			r, g, b, a = s[0], s[1], s[2], 255
		default:
			r, g, b, a = s[0], s[1], s[2], s[3]
		}
		switch to {
		case 1:
			d[0] = r
		case 2:
			d[0], d[1] = r, a
		case 3:
			d[0], d[1], d[2] = r, g, b
		default:
			d[0], d[1], d[2], d[3] = r, g, b, a
		}
	}
	return out
}

// pack wraps packed bytes in an image.Image for the standard encoders.
// Without keepAlpha, alpha channels are dropped and the result is opaque.
func pack(pix []byte, width, height, channels int, keepAlpha bool) (image.Image, error) {
	rect := image.Rect(0, 0, width, height)
	n := width * height

	switch channels {
	case 1:
		return &image.Gray{Pix: pix[:n], Stride: width, Rect: rect}, nil
	case 2, 3, 4:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	}

	if channels == 4 && keepAlpha {
		return &image.NRGBA{Pix: pix[:n*4], Stride: width * 4, Rect: rect}, nil
	}
	out := image.NewNRGBA(rect)
	for i := range n {
		s, d := pix[i*channels:], out.Pix[i*4:]
		switch channels {
		case 2:
			d[0], d[1], d[2] = s[0], s[0], s[0]
		default:
			d[0], d[1], d[2] = s[0], s[1], s[2]
		}
		d[3] = 255
		if keepAlpha && channels == 2 {
			d[3] = s[1]
		}
	}
	return out, nil
}
