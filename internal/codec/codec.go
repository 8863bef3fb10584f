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

// Package codec reads and writes image files as tightly packed row-major
// bytes with one byte per channel.
//
// PNG, JPEG and BMP go through the standard image codecs (BMP from
// golang.org/x/image/bmp). PXZ is a small raw format compressed with zstd
// that keeps any channel count exactly.
package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"golang.org/x/image/bmp"
)

// Format tags accepted by Encode.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatBMP  = "bmp"
	FormatPXZ  = "pxz"
)

// JPEGQuality is the quality used for JPEG output.
const JPEGQuality = 95

var (
	// ErrUnsupportedChannels is returned when a channel count cannot be
	// represented in the requested format.
	ErrUnsupportedChannels = errors.New("codec: unsupported channel count")

	// ErrUnsupportedFormat is returned for an unknown format tag.
	ErrUnsupportedFormat = errors.New("codec: unsupported format")

	// ErrShortBuffer is returned when the pixel buffer is smaller than the
	// image it describes.
	ErrShortBuffer = errors.New("codec: pixel buffer too short")
)

// Decode reads the image file at path. Gray images decode to 1 channel,
// opaque colour images to 3 and colour images with alpha to 4. PXZ files,
// and PNG files written by Encode, keep the channel count they were
// written with.
func Decode(path string) (pix []byte, width, height, channels int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	if IsPXZ(data) {
		return DecodePXZ(data)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("codec: %s: %w", path, err)
	}
	pix, width, height, channels = unpack(img)
	if format == FormatPNG {
		if c := pngChannels(data); c >= 1 && c <= 4 && c != channels {
			pix, channels = convertChannels(pix, channels, c), c
		}
	}
	return pix, width, height, channels, nil
}

// Encode writes pix to path in the given format. PNG and JPEG take 1 to 4
// channels, BMP takes 1 or 3 and PXZ accepts any count. JPEG drops the
// alpha channel.
func Encode(path, format string, pix []byte, width, height, channels int) (err error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return fmt.Errorf("codec: bad shape %dx%dx%d", width, height, channels)
	}
	if len(pix) < width*height*channels {
		return fmt.Errorf("%w: %d bytes for %dx%dx%d", ErrShortBuffer, len(pix), width, height, channels)
	}

	if format == FormatPXZ {
		data, err := EncodePXZ(pix, width, height, channels)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	}

	var write func(*bufio.Writer, image.Image) error
	switch format {
	case FormatPNG:
		write = func(w *bufio.Writer, m image.Image) error { return encodePNG(w, m, channels) }
	case FormatJPEG:
		write = func(w *bufio.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: JPEGQuality})
		}
	case FormatBMP:
		// BMP has no gray+alpha layout, and a fully opaque RGBA image is
		// written as 24-bit, so neither would read back with its count.
		if channels == 2 || channels == 4 {
			return fmt.Errorf("%w: %d for bmp", ErrUnsupportedChannels, channels)
		}
		write = func(w *bufio.Writer, m image.Image) error { return bmp.Encode(w, m) }
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	m, err := pack(pix, width, height, channels, format != FormatJPEG)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	w := bufio.NewWriter(f)
	if err := write(w, m); err != nil {
		return fmt.Errorf("codec: encode %s: %w", format, err)
	}
	return w.Flush()
}
