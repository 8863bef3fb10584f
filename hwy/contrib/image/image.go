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
	"runtime"
)

// Image is a view onto a shared pixel Store. Pixels are stored row-major with
// interleaved channels, one byte per channel. Each row occupies Stride bytes,
// which is Width*Channels rounded up to a multiple of 4; padding bytes are
// always zero.
//
// The zero Image is empty. Views must not be copied by value; use Copy,
// Assign or Move so the store's owner count stays accurate.
type Image struct {
	store    *Store
	cleanup  runtime.Cleanup
	width    int
	height   int
	channels int
	stride   int
}

// shape validates the dimensions and returns the row stride and store size.
func shape(width, height, channels int) (stride, size int, err error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return 0, 0, fmt.Errorf("%w: dimensions %dx%dx%d must be positive",
			ErrInvalidArgument, width, height, channels)
	}
	if width > (MaxStoreBytes-3)/channels {
		return 0, 0, fmt.Errorf("%w: row of %dx%d bytes", ErrAllocation, width, channels)
	}
	stride = (width*channels + 3) &^ 3
	if height > MaxStoreBytes/stride {
		return 0, 0, fmt.Errorf("%w: %d rows of %d bytes", ErrAllocation, height, stride)
	}
	return stride, height * stride, nil
}

// New returns a zero-filled image with its own store.
func New(width, height, channels int) (*Image, error) {
	img := &Image{}
	if err := img.Create(width, height, channels); err != nil {
		return nil, err
	}
	return img, nil
}

// bind makes img an owner of s. The caller has already counted img in s.
// A view dropped without Release detaches from s when it is collected.
func (img *Image) bind(s *Store) {
	img.store = s
	img.cleanup = runtime.AddCleanup(img, detachStore, s)
}

// unbind forgets the store without detaching it and returns it.
func (img *Image) unbind() *Store {
	s := img.store
	if s != nil {
		img.cleanup.Stop()
		img.store = nil
		img.cleanup = runtime.Cleanup{}
	}
	return s
}

func detachStore(s *Store) {
	s.Detach()
}

func (img *Image) setShape(width, height, channels, stride int) {
	img.width, img.height, img.channels, img.stride = width, height, channels, stride
}

// Create reshapes img into a zero-filled width x height x channels image.
// When the shape is unchanged the current store is reused, after making it
// exclusive. On error img is left as it was.
func (img *Image) Create(width, height, channels int) error {
	stride, size, err := shape(width, height, channels)
	if err != nil {
		return err
	}
	if img.store != nil && img.width == width && img.height == height && img.channels == channels {
		if err := img.CopyOnWrite(); err != nil {
			return err
		}
		clear(img.store.data)
		return nil
	}
	s, err := NewStore(size)
	if err != nil {
		return err
	}
	img.Release()
	img.bind(s)
	img.setShape(width, height, channels, stride)
	return nil
}

// Copy returns a view sharing img's store.
func (img *Image) Copy() *Image {
	c := &Image{}
	c.setShape(img.width, img.height, img.channels, img.stride)
	if img.store != nil {
		img.store.Attach()
		c.bind(img.store)
	}
	return c
}

// Assign makes img a view of src's store, detaching from its own.
func (img *Image) Assign(src *Image) {
	if img == src {
		return
	}
	// Attach before detaching: both views may already share one store.
	if src.store != nil {
		src.store.Attach()
	}
	if old := img.unbind(); old != nil {
		old.Detach()
	}
	img.setShape(src.width, src.height, src.channels, src.stride)
	if src.store != nil {
		img.bind(src.store)
	}
}

// Move transfers img's store to a new view and leaves img empty. The owner
// count is unchanged.
func (img *Image) Move() *Image {
	m := &Image{}
	m.setShape(img.width, img.height, img.channels, img.stride)
	if s := img.unbind(); s != nil {
		m.bind(s)
	}
	img.setShape(0, 0, 0, 0)
	return m
}

// Clone returns an image with identical bytes in an independent store.
// Cloning an empty image returns an empty image.
func (img *Image) Clone() (*Image, error) {
	c := &Image{}
	if img.store == nil {
		return c, nil
	}
	s, err := NewStore(img.store.Len())
	if err != nil {
		return nil, err
	}
	copy(s.data, img.store.data)
	c.bind(s)
	c.setShape(img.width, img.height, img.channels, img.stride)
	return c, nil
}

// CopyOnWrite gives img an exclusive store, duplicating the shared one if
// other views still own it.
func (img *Image) CopyOnWrite() error {
	if img.store == nil || img.store.Owners() <= 1 {
		return nil
	}
	s, err := NewStore(img.store.Len())
	if err != nil {
		return err
	}
	copy(s.data, img.store.data)
	img.unbind().Detach()
	img.bind(s)
	log().Debug("image: copy on write", "bytes", s.Len())
	return nil
}

// Release detaches img from its store and leaves it empty. Releasing an
// empty image does nothing.
func (img *Image) Release() {
	if s := img.unbind(); s != nil {
		s.Detach()
	}
	img.setShape(0, 0, 0, 0)
}

// Width returns the width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the height in pixels.
func (img *Image) Height() int { return img.height }

// Channels returns the number of bytes per pixel.
func (img *Image) Channels() int { return img.channels }

// Stride returns the number of bytes per row, including padding.
func (img *Image) Stride() int { return img.stride }

// Size returns Height*Stride.
func (img *Image) Size() int { return img.height * img.stride }

// Empty reports whether img has no store.
func (img *Image) Empty() bool { return img.store == nil }

// Packed reports whether rows carry no padding.
func (img *Image) Packed() bool { return img.stride == img.width*img.channels }

// OwnerCount returns the owner count of img's store, or 0 when empty.
func (img *Image) OwnerCount() int {
	if img.store == nil {
		return 0
	}
	return img.store.Owners()
}

func (img *Image) String() string {
	if img.store == nil {
		return "Image(empty)"
	}
	return fmt.Sprintf("Image(%dx%dx%d, stride %d, owners %d)",
		img.width, img.height, img.channels, img.stride, img.store.Owners())
}

func (img *Image) offset(row, col, ch int) (int, error) {
	if img.store == nil {
		return 0, fmt.Errorf("%w: image is empty", ErrOutOfRange)
	}
	if row < 0 || row >= img.height || col < 0 || col >= img.width || ch < 0 || ch >= img.channels {
		return 0, fmt.Errorf("%w: (%d, %d, %d) outside %dx%dx%d",
			ErrOutOfRange, row, col, ch, img.height, img.width, img.channels)
	}
	return row*img.stride + col*img.channels + ch, nil
}

// At returns the byte at (row, col, ch) without copying the store.
func (img *Image) At(row, col, ch int) (uint8, error) {
	off, err := img.offset(row, col, ch)
	if err != nil {
		return 0, err
	}
	return img.store.data[off], nil
}

// Ref returns a pointer to the byte at (row, col, ch) that may be written.
// The bounds are checked first, then the store is made exclusive.
func (img *Image) Ref(row, col, ch int) (*uint8, error) {
	off, err := img.offset(row, col, ch)
	if err != nil {
		return nil, err
	}
	if err := img.CopyOnWrite(); err != nil {
		return nil, err
	}
	return &img.store.data[off], nil
}

// Set writes v at (row, col, ch).
func (img *Image) Set(row, col, ch int, v uint8) error {
	p, err := img.Ref(row, col, ch)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Row returns the Width*Channels pixel bytes of row y, or nil when y is out
// of range. The slice aliases the store and must not be written.
func (img *Image) Row(y int) []uint8 {
	if img.store == nil || y < 0 || y >= img.height {
		return nil
	}
	start := y * img.stride
	end := start + img.width*img.channels
	return img.store.data[start:end:end]
}

// Bytes returns the whole store, padding included. The slice aliases the
// store and must not be written; use MutableBytes for that.
func (img *Image) Bytes() []uint8 {
	if img.store == nil {
		return nil
	}
	return img.store.data
}

// MutableBytes makes the store exclusive and returns it.
func (img *Image) MutableBytes() ([]uint8, error) {
	if img.store == nil {
		return nil, fmt.Errorf("%w: image is empty", ErrOperationFailed)
	}
	if err := img.CopyOnWrite(); err != nil {
		return nil, err
	}
	return img.store.data, nil
}

// Fill sets every pixel byte to v. Padding stays zero.
func (img *Image) Fill(v uint8) error {
	data, err := img.MutableBytes()
	if err != nil {
		return err
	}
	rowBytes := img.width * img.channels
	for y := range img.height {
		row := data[y*img.stride : y*img.stride+rowBytes]
		for i := range row {
			row[i] = v
		}
	}
	return nil
}

// Equal reports whether both images have the same shape and pixel bytes.
// Padding is ignored. Two empty images are equal.
func (img *Image) Equal(other *Image) bool {
	if img.width != other.width || img.height != other.height || img.channels != other.channels {
		return false
	}
	if img.store == nil || other.store == nil {
		return img.store == other.store
	}
	for y := range img.height {
		if string(img.Row(y)) != string(other.Row(y)) {
			return false
		}
	}
	return true
}
