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
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/go-highway/pixbuf/internal/codec"
)

// Format names an encoded file format.
type Format string

// Supported file formats.
const (
	FormatPNG  Format = codec.FormatPNG
	FormatJPEG Format = codec.FormatJPEG
	FormatBMP  Format = codec.FormatBMP
	// FormatPXZ is a zstd-compressed raw dump that preserves any channel
	// count exactly.
	FormatPXZ Format = codec.FormatPXZ
)

// FormatFromPath maps the file extension of path to a Format.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	case "pxz":
		return FormatPXZ, nil
	case "":
		return "", fmt.Errorf("%w: %q has no file extension", ErrInvalidArgument, path)
	}
	return "", fmt.Errorf("%w: unsupported file extension %q", ErrInvalidArgument, ext)
}

// Decoder reads an image file into tightly packed row-major bytes.
type Decoder interface {
	Decode(path string) (pix []byte, width, height, channels int, err error)
}

// Encoder writes tightly packed row-major bytes to an image file.
type Encoder interface {
	Encode(path string, format Format, pix []byte, width, height, channels int) error
}

// Codec is the file collaborator used by Load and Save.
type Codec interface {
	Decoder
	Encoder
}

type fileCodec struct{}

func (fileCodec) Decode(path string) ([]byte, int, int, int, error) {
	return codec.Decode(path)
}

func (fileCodec) Encode(path string, format Format, pix []byte, width, height, channels int) error {
	return codec.Encode(path, string(format), pix, width, height, channels)
}

type codecHolder struct{ Codec }

var currentCodec atomic.Pointer[codecHolder]

func init() {
	SetCodec(nil)
}

// SetCodec replaces the collaborator used by Load and Save. A nil codec
// restores the default, which handles PNG, JPEG, BMP and PXZ files.
func SetCodec(c Codec) {
	if c == nil {
		c = fileCodec{}
	}
	currentCodec.Store(&codecHolder{c})
}

func getCodec() Codec {
	return currentCodec.Load().Codec
}

// Open decodes the file at path into a new image.
func Open(path string) (*Image, error) {
	img := &Image{}
	if err := img.Load(path); err != nil {
		return nil, err
	}
	return img, nil
}

// Load replaces img with the decoded contents of path. Rows are padded to
// the image stride. On error img is left as it was.
func (img *Image) Load(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty file name", ErrInvalidArgument)
	}
	pix, width, height, channels, err := getCodec().Decode(path)
	if err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrOperationFailed, path, err)
	}
	stride, size, err := shape(width, height, channels)
	if err != nil {
		return fmt.Errorf("%w: decode %s: bad shape: %v", ErrOperationFailed, path, err)
	}
	rowBytes := width * channels
	if len(pix) < rowBytes*height {
		return fmt.Errorf("%w: decode %s: %d bytes for %dx%dx%d",
			ErrOperationFailed, path, len(pix), width, height, channels)
	}
	s, err := NewStore(size)
	if err != nil {
		return err
	}
	if stride == rowBytes {
		copy(s.data, pix[:size])
	} else {
		for y := range height {
			copy(s.data[y*stride:], pix[y*rowBytes:(y+1)*rowBytes])
		}
	}
	img.Release()
	img.bind(s)
	img.setShape(width, height, channels, stride)
	log().Debug("image: loaded", "path", path, "width", width, "height", height, "channels", channels)
	return nil
}

// packed returns the pixel bytes without row padding. Packed images return
// their store directly.
func (img *Image) packed() []byte {
	rowBytes := img.width * img.channels
	if img.Packed() {
		return img.store.data[:img.height*rowBytes]
	}
	buf := make([]byte, img.height*rowBytes)
	for y := range img.height {
		copy(buf[y*rowBytes:], img.Row(y))
	}
	return buf
}

// Save encodes img to path in the format named by its extension.
func (img *Image) Save(path string) error {
	if img.store == nil {
		return fmt.Errorf("%w: cannot save an empty image", ErrInvalidArgument)
	}
	if path == "" {
		return fmt.Errorf("%w: empty file name", ErrInvalidArgument)
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := getCodec().Encode(path, format, img.packed(), img.width, img.height, img.channels); err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrOperationFailed, path, err)
	}
	log().Debug("image: saved", "path", path, "format", format)
	return nil
}
