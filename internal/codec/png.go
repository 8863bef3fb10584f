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
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"
	"io"
)

// pngChannelChunk is a private ancillary chunk holding the channel count
// the pixels were encoded from. The PNG colour type alone cannot tell an
// opaque RGBA image from RGB, or gray+alpha from RGBA.
const pngChannelChunk = "pxCh"

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// encodePNG writes m as PNG with a channel chunk ahead of IEND.
func encodePNG(w io.Writer, m image.Image, channels int) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		return err
	}
	data := buf.Bytes()
	iend := len(data) - 12
	if _, err := w.Write(data[:iend]); err != nil {
		return err
	}
	if _, err := w.Write(pngChunk(pngChannelChunk, []byte{byte(channels)})); err != nil {
		return err
	}
	_, err := w.Write(data[iend:])
	return err
}

func pngChunk(typ string, payload []byte) []byte {
	c := make([]byte, 8, 12+len(payload))
	binary.BigEndian.PutUint32(c, uint32(len(payload)))
	copy(c[4:], typ)
	c = append(c, payload...)
	return binary.BigEndian.AppendUint32(c, crc32.ChecksumIEEE(c[4:]))
}

// pngChannels returns the channel count recorded in a PNG stream, or 0 when
// there is no valid channel chunk.
func pngChannels(data []byte) int {
	if !bytes.HasPrefix(data, pngSignature) {
		return 0
	}
	for off := len(pngSignature); off+12 <= len(data); {
		n := binary.BigEndian.Uint32(data[off:])
		if uint64(n) > uint64(len(data)-off-12) {
			return 0
		}
		body := data[off+4 : off+8+int(n)]
		switch string(body[:4]) {
		case pngChannelChunk:
			if n != 1 || crc32.ChecksumIEEE(body) != binary.BigEndian.Uint32(data[off+8+int(n):]) {
				return 0
			}
			return int(body[4])
		case "IEND":
			return 0
		}
		off += 12 + int(n)
	}
	return 0
}
