package image

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/go-highway/pixbuf/internal/codec"
)

type fakeCodec struct {
	pix                     []byte
	width, height, channels int
	err                     error

	saved       []byte
	savedFormat Format
	encodes     int
}

func (f *fakeCodec) Decode(string) ([]byte, int, int, int, error) {
	return f.pix, f.width, f.height, f.channels, f.err
}

func (f *fakeCodec) Encode(_ string, format Format, pix []byte, width, height, channels int) error {
	f.encodes++
	if f.err != nil {
		return f.err
	}
	f.saved = append([]byte(nil), pix...)
	f.savedFormat = format
	f.width, f.height, f.channels = width, height, channels
	return nil
}

func withCodec(t *testing.T, c Codec) {
	t.Helper()
	SetCodec(c)
	t.Cleanup(func() { SetCodec(nil) })
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.png", FormatPNG},
		{"dir.v2/a.PNG", FormatPNG},
		{"a.jpg", FormatJPEG},
		{"a.JPEG", FormatJPEG},
		{"a.bmp", FormatBMP},
		{"a.pxz", FormatPXZ},
	}
	for _, tc := range tests {
		got, err := FormatFromPath(tc.path)
		if err != nil || got != tc.want {
			t.Errorf("FormatFromPath(%q) = %q, %v, want %q", tc.path, got, err, tc.want)
		}
	}
	for _, path := range []string{"a.gif", "a", "a.", "dir.png/a"} {
		if _, err := FormatFromPath(path); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("FormatFromPath(%q) error = %v, want ErrInvalidArgument", path, err)
		}
	}
}

func TestLoadPadsRows(t *testing.T) {
	// 3x2, 1 channel: stride 4.
	fc := &fakeCodec{pix: []byte{1, 2, 3, 4, 5, 6}, width: 3, height: 2, channels: 1}
	withCodec(t, fc)

	img, err := Open("x.png")
	if err != nil {
		t.Fatal(err)
	}
	defer img.Release()
	if img.Stride() != 4 {
		t.Fatalf("Stride() = %d, want 4", img.Stride())
	}
	want := []byte{1, 2, 3, 0, 4, 5, 6, 0}
	if string(img.Bytes()) != string(want) {
		t.Errorf("Bytes() = %v, want %v", img.Bytes(), want)
	}
}

func TestLoadErrors(t *testing.T) {
	img := mustNew(t, 2, 2, 1)
	defer img.Release()
	img.Fill(9)

	if err := img.Load(""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Load(\"\") error = %v, want ErrInvalidArgument", err)
	}

	decodeErr := errors.New("corrupt header")
	tests := []struct {
		name string
		fc   *fakeCodec
	}{
		{"decoder", &fakeCodec{err: decodeErr}},
		{"shape", &fakeCodec{pix: []byte{1}, width: 0, height: 1, channels: 1}},
		{"short", &fakeCodec{pix: []byte{1, 2, 3}, width: 2, height: 2, channels: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			withCodec(t, tc.fc)
			err := img.Load("x.png")
			if !errors.Is(err, ErrOperationFailed) {
				t.Errorf("Load error = %v, want ErrOperationFailed", err)
			}
			if v, _ := img.At(1, 1, 0); v != 9 || img.Width() != 2 {
				t.Error("failed Load modified the image")
			}
		})
	}
	withCodec(t, &fakeCodec{err: decodeErr})
	if err := img.Load("x.png"); !errors.Is(err, decodeErr) {
		t.Errorf("Load error = %v, want it to wrap the decoder error", err)
	}
}

func TestSaveRepacks(t *testing.T) {
	fc := &fakeCodec{}
	withCodec(t, fc)

	img := mustNew(t, 3, 2, 1)
	defer img.Release()
	for i, v := range []byte{1, 2, 3, 4, 5, 6} {
		img.Set(i/3, i%3, 0, v)
	}
	if err := img.Save("out.JPG"); err != nil {
		t.Fatal(err)
	}
	if string(fc.saved) != string([]byte{1, 2, 3, 4, 5, 6}) {
		t.Errorf("encoded bytes = %v, want packed rows", fc.saved)
	}
	if fc.savedFormat != FormatJPEG || fc.width != 3 || fc.height != 2 || fc.channels != 1 {
		t.Errorf("encoded as %s %dx%dx%d", fc.savedFormat, fc.width, fc.height, fc.channels)
	}
}

func TestSaveErrors(t *testing.T) {
	fc := &fakeCodec{}
	withCodec(t, fc)

	var empty Image
	if err := empty.Save("a.png"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Save of empty image error = %v, want ErrInvalidArgument", err)
	}
	img := mustNew(t, 2, 2, 3)
	defer img.Release()
	for _, path := range []string{"", "a.gif", "noext"} {
		if err := img.Save(path); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Save(%q) error = %v, want ErrInvalidArgument", path, err)
		}
	}
	if fc.encodes != 0 {
		t.Errorf("encoder called %d times for rejected saves", fc.encodes)
	}

	fc.err = errors.New("disk full")
	if err := img.Save("a.png"); !errors.Is(err, ErrOperationFailed) || !errors.Is(err, fc.err) {
		t.Errorf("Save error = %v, want ErrOperationFailed wrapping the encoder error", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(23, 24))
	dir := t.TempDir()
	tests := []struct {
		ext      string
		channels int
		opaque   bool
	}{
		{"png", 1, false},
		{"png", 2, false},
		{"png", 2, true},
		{"png", 3, false},
		{"png", 4, true},
		{"bmp", 1, false},
		{"bmp", 3, false},
		{"pxz", 1, false},
		{"pxz", 2, false},
		{"pxz", 3, false},
		{"pxz", 4, false},
		{"pxz", 5, false},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s_%d_opaque=%v", tc.ext, tc.channels, tc.opaque), func(t *testing.T) {
			img := randomImage(t, r, 13, 7, tc.channels)
			defer img.Release()
			if tc.opaque {
				for y := range 7 {
					for x := range 13 {
						img.Set(y, x, tc.channels-1, 255)
					}
				}
			}
			path := filepath.Join(dir, fmt.Sprintf("rt%d_%v.%s", tc.channels, tc.opaque, tc.ext))
			if err := img.Save(path); err != nil {
				t.Fatal(err)
			}
			got, err := Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer got.Release()
			if !got.Equal(img) {
				t.Errorf("round trip through %s changed the image: %v vs %v", tc.ext, got, img)
			}
		})
	}
}

func TestFileRoundTripRGBA(t *testing.T) {
	img := mustNew(t, 4, 4, 4)
	defer img.Release()
	for i := range 16 {
		img.Set(i/4, i%4, 0, uint8(i*16))
		img.Set(i/4, i%4, 1, 100)
		img.Set(i/4, i%4, 2, 200)
		img.Set(i/4, i%4, 3, uint8(i*16+15))
	}
	path := filepath.Join(t.TempDir(), "rgba.png")
	if err := img.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(img) {
		t.Errorf("RGBA PNG round trip changed the image")
	}
}

func TestSaveBMPRejectsAlpha(t *testing.T) {
	dir := t.TempDir()
	for _, c := range []int{2, 4} {
		img := mustNew(t, 3, 3, c)
		err := img.Save(filepath.Join(dir, fmt.Sprintf("a%d.bmp", c)))
		if !errors.Is(err, ErrOperationFailed) || !errors.Is(err, codec.ErrUnsupportedChannels) {
			t.Errorf("Save %d-channel bmp error = %v, want ErrOperationFailed wrapping codec.ErrUnsupportedChannels", c, err)
		}
		img.Release()
	}
}

func TestJPEGSave(t *testing.T) {
	img := mustNew(t, 16, 8, 3)
	defer img.Release()
	img.Fill(128)
	path := filepath.Join(t.TempDir(), "gray.jpg")
	if err := img.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width() != 16 || got.Height() != 8 || got.Channels() != 3 {
		t.Errorf("JPEG decoded as %v", got)
	}
	if v, _ := got.At(4, 4, 1); v < 126 || v > 130 {
		t.Errorf("JPEG pixel = %d, want about 128", v)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, ErrOperationFailed) {
		t.Errorf("Open(missing) error = %v, want ErrOperationFailed", err)
	}
}
