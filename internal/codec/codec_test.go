package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func randomPix(r *rand.Rand, n int) []byte {
	pix := make([]byte, n)
	for i := range pix {
		pix[i] = uint8(r.IntN(256))
	}
	return pix
}

func TestPXZRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, c := range []int{1, 2, 3, 4, 7} {
		pix := randomPix(r, 9*5*c)
		data, err := EncodePXZ(pix, 9, 5, c)
		if err != nil {
			t.Fatal(err)
		}
		if !IsPXZ(data) {
			t.Fatal("encoded data lacks the PXZ magic")
		}
		got, w, h, gc, err := DecodePXZ(data)
		if err != nil {
			t.Fatal(err)
		}
		if w != 9 || h != 5 || gc != c || !bytes.Equal(got, pix) {
			t.Errorf("channels=%d: decoded %dx%dx%d, equal=%v", c, w, h, gc, bytes.Equal(got, pix))
		}
	}
}

func TestPXZCompresses(t *testing.T) {
	pix := make([]byte, 256*256*3)
	data, err := EncodePXZ(pix, 256, 256, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) > len(pix)/10 {
		t.Errorf("zero image encoded to %d bytes", len(data))
	}
}

func pxzHeader(w, h, c uint32) []byte {
	hdr := make([]byte, pxzHeaderLen)
	copy(hdr, pxzMagic)
	binary.LittleEndian.PutUint32(hdr[4:], w)
	binary.LittleEndian.PutUint32(hdr[8:], h)
	binary.LittleEndian.PutUint32(hdr[12:], c)
	return hdr
}

func TestPXZErrors(t *testing.T) {
	good, _ := EncodePXZ([]byte{1, 2, 3, 4}, 2, 2, 1)
	// 300 bytes is enough for the frame to record its content size.
	other, _ := EncodePXZ(make([]byte, 300), 300, 1, 1)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"magic", append([]byte("PXZ2"), good[4:]...)},
		{"short_header", good[:10]},
		{"zero_width", func() []byte { d := bytes.Clone(good); d[4] = 0; return d }()},
		{"wrong_size", func() []byte { d := bytes.Clone(good); d[8] = 3; return d }()},
		{"truncated", good[:len(good)-2]},
		{"huge", func() []byte {
			d := bytes.Clone(good)
			copy(d[4:], []byte{0xff, 0xff, 0xff, 0x7f, 0xff, 0xff, 0xff, 0x7f})
			return d
		}()},
		{"large_shape_garbage", append(pxzHeader(16384, 16384, 1), "garbage!"...)},
		{"large_shape_not_zstd", append(pxzHeader(4096, 4096, 1), bytes.Repeat([]byte("garbage!"), 128)...)},
		{"frame_size_mismatch", append(pxzHeader(20, 20, 1), other[pxzHeaderLen:]...)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, _, _, err := DecodePXZ(tc.data); !errors.Is(err, ErrBadPXZ) {
				t.Errorf("DecodePXZ error = %v, want ErrBadPXZ", err)
			}
		})
	}

	if _, err := EncodePXZ([]byte{1}, 2, 2, 1); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("EncodePXZ short buffer error = %v", err)
	}
}

func TestPXZRejectsLargeShapeCheaply(t *testing.T) {
	data := append(pxzHeader(4096, 4096, 4), bytes.Repeat([]byte{0x28, 0xb5, 0x2f, 0xfd}, 1024)...)
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, _, _, _, err := DecodePXZ(data)
	runtime.ReadMemStats(&after)
	if !errors.Is(err, ErrBadPXZ) {
		t.Fatalf("DecodePXZ error = %v, want ErrBadPXZ", err)
	}
	if got, limit := after.TotalAlloc-before.TotalAlloc, uint64(8<<20); got > limit {
		t.Errorf("DecodePXZ allocated %d bytes, want at most %d", got, limit)
	}
}

func TestFileRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	dir := t.TempDir()
	tests := []struct {
		format   string
		channels int
		opaque   bool
	}{
		{FormatPNG, 1, false},
		{FormatPNG, 2, false},
		{FormatPNG, 2, true},
		{FormatPNG, 3, false},
		{FormatPNG, 4, false},
		{FormatPNG, 4, true},
		{FormatBMP, 1, false},
		{FormatBMP, 3, false},
		{FormatPXZ, 2, false},
		{FormatPXZ, 6, false},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s_%d_opaque=%v", tc.format, tc.channels, tc.opaque), func(t *testing.T) {
			pix := randomPix(r, 11*6*tc.channels)
			if tc.opaque {
				for i := tc.channels - 1; i < len(pix); i += tc.channels {
					pix[i] = 255
				}
			}
			path := filepath.Join(dir, fmt.Sprintf("img%d_%v.%s", tc.channels, tc.opaque, tc.format))
			if err := Encode(path, tc.format, pix, 11, 6, tc.channels); err != nil {
				t.Fatal(err)
			}
			got, w, h, c, err := Decode(path)
			if err != nil {
				t.Fatal(err)
			}
			if w != 11 || h != 6 || c != tc.channels || !bytes.Equal(got, pix) {
				t.Errorf("decoded %dx%dx%d, equal=%v", w, h, c, bytes.Equal(got, pix))
			}
		})
	}
}

func TestEncodeRGBAKeepsAlpha(t *testing.T) {
	pix := []byte{10, 20, 30, 0, 40, 50, 60, 128}
	path := filepath.Join(t.TempDir(), "a.png")
	if err := Encode(path, FormatPNG, pix, 2, 1, 4); err != nil {
		t.Fatal(err)
	}
	got, _, _, c, err := Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if c != 4 || !bytes.Equal(got, pix) {
		t.Errorf("decoded %v with %d channels, want %v", got, c, pix)
	}
}

func TestEncodeGrayAlpha(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ga.png")
	if err := Encode(path, FormatPNG, []byte{100, 255, 200, 0}, 2, 1, 2); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := color.NRGBAModel.Convert(m.At(0, 0)).(color.NRGBA); got != (color.NRGBA{100, 100, 100, 255}) {
		t.Errorf("pixel 0 = %v", got)
	}
	if _, _, _, a := m.At(1, 0).RGBA(); a != 0 {
		t.Errorf("pixel 1 alpha = %d, want 0", a)
	}
}

func TestEncodeJPEGDropsAlpha(t *testing.T) {
	pix := bytes.Repeat([]byte{200, 200, 200, 0}, 16*16)
	path := filepath.Join(t.TempDir(), "a.jpg")
	if err := Encode(path, FormatJPEG, pix, 16, 16, 4); err != nil {
		t.Fatal(err)
	}
	got, _, _, c, err := Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if c != 3 {
		t.Fatalf("JPEG decoded with %d channels, want 3", c)
	}
	if got[0] < 195 || got[0] > 205 {
		t.Errorf("JPEG pixel = %d, want about 200", got[0])
	}
}

func TestEncodeErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		format   string
		pix      []byte
		channels int
		want     error
	}{
		{"channels", FormatPNG, make([]byte, 20), 5, ErrUnsupportedChannels},
		{"format", "gif", make([]byte, 4), 1, ErrUnsupportedFormat},
		{"short", FormatPNG, make([]byte, 3), 1, ErrShortBuffer},
		{"bmp_gray_alpha", FormatBMP, make([]byte, 8), 2, ErrUnsupportedChannels},
		{"bmp_rgba", FormatBMP, make([]byte, 16), 4, ErrUnsupportedChannels},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := Encode(path, tc.format, tc.pix, 2, 2, tc.channels); !errors.Is(err, tc.want) {
				t.Errorf("Encode error = %v, want %v", err, tc.want)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Error("failed Encode left a file behind")
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	if _, _, _, _, err := Decode(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Decode(missing) error = %v", err)
	}
	junk := filepath.Join(dir, "junk.png")
	os.WriteFile(junk, []byte("not an image"), 0o644)
	if _, _, _, _, err := Decode(junk); !errors.Is(err, image.ErrFormat) {
		t.Errorf("Decode(junk) error = %v, want image.ErrFormat", err)
	}
}

func TestUnpackModels(t *testing.T) {
	rect := image.Rect(0, 0, 2, 1)

	g16 := image.NewGray16(rect)
	g16.SetGray16(1, 0, color.Gray16{Y: 0xabcd})
	if pix, _, _, c := unpack(g16); c != 1 || pix[1] != 0xab {
		t.Errorf("Gray16: channels=%d pix=%v", c, pix)
	}

	pal := image.NewPaletted(rect, color.Palette{color.RGBA{1, 2, 3, 255}, color.RGBA{4, 5, 6, 255}})
	pal.SetColorIndex(1, 0, 1)
	if pix, _, _, c := unpack(pal); c != 3 || !bytes.Equal(pix, []byte{1, 2, 3, 4, 5, 6}) {
		t.Errorf("Paletted: channels=%d pix=%v", c, pix)
	}

	grays := image.NewPaletted(rect, color.Palette{color.Gray{Y: 9}, color.RGBA{200, 200, 200, 255}})
	grays.SetColorIndex(0, 0, 1)
	if pix, _, _, c := unpack(grays); c != 1 || !bytes.Equal(pix, []byte{200, 9}) {
		t.Errorf("gray Paletted: channels=%d pix=%v", c, pix)
	}

	sub := image.NewGray(image.Rect(0, 0, 4, 4)).SubImage(image.Rect(1, 1, 3, 2)).(*image.Gray)
	sub.SetGray(2, 1, color.Gray{Y: 77})
	if pix, w, h, c := unpack(sub); w != 2 || h != 1 || c != 1 || pix[1] != 77 {
		t.Errorf("Gray sub-image: %dx%dx%d pix=%v", w, h, c, pix)
	}
}

func TestConvertChannels(t *testing.T) {
	tests := []struct {
		from, to int
		in, want []byte
	}{
		{1, 3, []byte{7, 8}, []byte{7, 7, 7, 8, 8, 8}},
		{1, 2, []byte{7}, []byte{7, 255}},
		{3, 2, []byte{5, 5, 5}, []byte{5, 255}},
		{3, 4, []byte{1, 2, 3}, []byte{1, 2, 3, 255}},
		{4, 2, []byte{6, 6, 6, 40}, []byte{6, 40}},
		{4, 3, []byte{1, 2, 3, 4}, []byte{1, 2, 3}},
		{2, 4, []byte{9, 10}, []byte{9, 9, 9, 10}},
		{3, 1, []byte{1, 2, 3}, []byte{1}},
	}
	for _, tc := range tests {
		if got := convertChannels(tc.in, tc.from, tc.to); !bytes.Equal(got, tc.want) {
			t.Errorf("convertChannels(%v, %d, %d) = %v, want %v", tc.in, tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPNGChannelChunk(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 3, 2))
	var buf bytes.Buffer
	if err := encodePNG(&buf, m, 4); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if got := pngChannels(data); got != 4 {
		t.Errorf("pngChannels = %d, want 4", got)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("png.Decode with channel chunk: %v", err)
	}

	var plain bytes.Buffer
	if err := png.Encode(&plain, m); err != nil {
		t.Fatal(err)
	}
	if got := pngChannels(plain.Bytes()); got != 0 {
		t.Errorf("pngChannels(plain png) = %d, want 0", got)
	}

	bad := bytes.Clone(data)
	i := bytes.Index(bad, []byte(pngChannelChunk))
	bad[i+4] ^= 1
	if got := pngChannels(bad); got != 0 {
		t.Errorf("pngChannels(bad crc) = %d, want 0", got)
	}
	if got := pngChannels(data[:20]); got != 0 {
		t.Errorf("pngChannels(truncated) = %d, want 0", got)
	}
}
