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
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// PXZ layout: the 4-byte magic "PXZ1", then width, height and channels as
// little-endian uint32, then one zstd frame holding width*height*channels
// packed bytes.
const (
	pxzMagic     = "PXZ1"
	pxzHeaderLen = 16

	// maxPXZBytes bounds the decompressed size accepted from a header.
	maxPXZBytes = 1<<31 - 1

	// maxZstdExpansion is the largest output a zstd frame can produce per
	// input byte: a 4-byte RLE block expands to at most 128 KiB.
	maxZstdExpansion = (128 << 10) / 4
)

// ErrBadPXZ is returned for a malformed PXZ stream.
var ErrBadPXZ = errors.New("codec: malformed pxz data")

var zstdEncPool = sync.Pool{
	New: func() any {
		enc, _ := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
		return enc
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(maxPXZBytes))
		return dec
	},
}

// IsPXZ reports whether data starts with the PXZ magic.
func IsPXZ(data []byte) bool {
	return len(data) >= len(pxzMagic) && string(data[:len(pxzMagic)]) == pxzMagic
}

// EncodePXZ returns the PXZ encoding of the packed pixels.
func EncodePXZ(pix []byte, width, height, channels int) ([]byte, error) {
	n, err := pxzSize(uint64(width), uint64(height), uint64(channels))
	if err != nil {
		return nil, err
	}
	if len(pix) < n {
		return nil, fmt.Errorf("%w: %d bytes for %dx%dx%d", ErrShortBuffer, len(pix), width, height, channels)
	}

	hdr := make([]byte, pxzHeaderLen, pxzHeaderLen+n/2)
	copy(hdr, pxzMagic)
	binary.LittleEndian.PutUint32(hdr[4:], uint32(width))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(height))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(channels))

	enc := zstdEncPool.Get().(*zstd.Encoder)
	defer zstdEncPool.Put(enc)
	return enc.EncodeAll(pix[:n], hdr), nil
}

// DecodePXZ parses a PXZ stream.
func DecodePXZ(data []byte) (pix []byte, width, height, channels int, err error) {
	if len(data) < pxzHeaderLen || !IsPXZ(data) {
		return nil, 0, 0, 0, fmt.Errorf("%w: missing header", ErrBadPXZ)
	}
	w := binary.LittleEndian.Uint32(data[4:])
	h := binary.LittleEndian.Uint32(data[8:])
	c := binary.LittleEndian.Uint32(data[12:])
	n, err := pxzSize(uint64(w), uint64(h), uint64(c))
	if err != nil {
		return nil, 0, 0, 0, err
	}

	payload := data[pxzHeaderLen:]
	if uint64(n) > uint64(len(payload))*maxZstdExpansion {
		return nil, 0, 0, 0, fmt.Errorf("%w: %d payload bytes cannot hold %d pixel bytes", ErrBadPXZ, len(payload), n)
	}
	var fh zstd.Header
	if err := fh.Decode(payload); err != nil {
		return nil, 0, 0, 0, fmt.Errorf("%w: %w", ErrBadPXZ, err)
	}
	if fh.Skippable || (fh.HasFCS && fh.FrameContentSize != uint64(n)) {
		return nil, 0, 0, 0, fmt.Errorf("%w: frame content size %d, header says %d", ErrBadPXZ, fh.FrameContentSize, n)
	}

	// The destination grows with the decoded output, so a frame that fails
	// early never costs the size its header claims.
	dec := zstdDecPool.Get().(*zstd.Decoder)
	defer zstdDecPool.Put(dec)
	pix, err = dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("%w: %w", ErrBadPXZ, err)
	}
	if len(pix) != n {
		return nil, 0, 0, 0, fmt.Errorf("%w: %d pixel bytes, header says %d", ErrBadPXZ, len(pix), n)
	}
	return pix, int(w), int(h), int(c), nil
}

func pxzSize(w, h, c uint64) (int, error) {
	if w == 0 || h == 0 || c == 0 {
		return 0, fmt.Errorf("%w: shape %dx%dx%d", ErrBadPXZ, w, h, c)
	}
	if w > maxPXZBytes || h > maxPXZBytes || c > maxPXZBytes || w*h > maxPXZBytes || w*h*c > maxPXZBytes {
		return 0, fmt.Errorf("%w: shape %dx%dx%d too large", ErrBadPXZ, w, h, c)
	}
	return int(w * h * c), nil
}
