package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestNextPowerOf2(t *testing.T) {
	tests := []struct {
		in, want uint32
	}{
		{0, 64},
		{1, 64},
		{63, 64},
		{64, 64},
		{65, 128},
		{200, 256},
		{256, 256},
		{1023, 1024},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextPowerOf2(tt.in), "in=%d", tt.in)
	}
}

func TestTileOffset(t *testing.T) {
	tests := []struct {
		x, y, pw, want uint32
	}{
		{0, 0, 64, 0},
		{1, 0, 64, 4},
		{0, 1, 64, 8},
		{1, 1, 64, 12},
		{2, 0, 64, 16},
		{0, 2, 64, 32},
		{4, 0, 64, 64},
		{0, 4, 64, 128},
		{7, 7, 64, 63 * 4},
		{8, 0, 64, 64 * 4},
		{0, 8, 64, 8 * 64 * 4},
		{9, 9, 128, ((1*16+1)<<6 + 3) * 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TileOffset(tt.x, tt.y, tt.pw), "(%d,%d) pw=%d", tt.x, tt.y, tt.pw)
	}
}

func TestTileOffsetIsPermutation(t *testing.T) {
	const pw, ph = 128, 64
	seen := make(map[uint32]bool, pw*ph)
	for y := uint32(0); y < ph; y++ {
		for x := uint32(0); x < pw; x++ {
			off := TileOffset(x, y, pw)
			require.Less(t, off, uint32(pw*ph*BytesPerPixel))
			require.Zero(t, off%BytesPerPixel)
			require.False(t, seen[off], "offset %d reused at (%d,%d)", off, x, y)
			seen[off] = true
		}
	}
	assert.Len(t, seen, pw*ph)
}

func TestTile(t *testing.T) {
	raw := &RawImage{Width: 3, Height: 2, Pix: make([]byte, 3*2*4)}
	for i := range raw.Pix {
		raw.Pix[i] = byte(i + 1)
	}

	tex, err := Tile(raw)
	require.NoError(t, err)

	assert.Equal(t, uint32(64), tex.PowWidth)
	assert.Equal(t, uint32(64), tex.PowHeight)
	assert.Len(t, tex.Data, 64*64*4)
	assert.Equal(t, TransparentBorder, tex.Border)

	// texel (1,1) comes from source bytes 16..19 = RGBA 17,18,19,20
	off := TileOffset(1, 1, 64)
	assert.Equal(t, []byte{20, 19, 18, 17}, tex.Data[off:off+4])

	// outside the image stays zero
	off = TileOffset(3, 0, 64)
	assert.Equal(t, []byte{0, 0, 0, 0}, tex.Data[off:off+4])

	assert.Equal(t, raw.Pix, tex.Linear().Pix)
}

func TestTileRejectsOversize(t *testing.T) {
	_, err := Tile(&RawImage{Width: 1024, Height: 1, Pix: make([]byte, 1024*4)})
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Tile(&RawImage{Width: 0, Height: 1})
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestClassify(t *testing.T) {
	tests := map[string]ImageType{
		"a.bmp":          ImageTypeBMP,
		"a.GIF":          ImageTypeGIF,
		"a.jpg":          ImageTypeJPEG,
		"a.JPEG":         ImageTypeJPEG,
		"/sd/Pics/a.Png": ImageTypePNG,
		"a.webp":         ImageTypeWEBP,
		"a.txt":          ImageTypeOther,
		"png":            ImageTypeOther,
	}
	for path, want := range tests {
		assert.Equal(t, want, Classify(path), path)
	}
}

func pattern(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 3), G: uint8(y * 5), B: uint8(x + y), A: alpha})
		}
	}
	return img
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func assertUV(t *testing.T, tex *Texture) {
	t.Helper()
	assert.Equal(t, float32(0), tex.Sub.Left)
	assert.Equal(t, float32(1), tex.Sub.Top)
	assert.InDelta(t, float64(tex.Width)/float64(tex.PowWidth), tex.Sub.Right, 1e-6)
	assert.InDelta(t, 1-float64(tex.Height)/float64(tex.PowHeight), tex.Sub.Bottom, 1e-6)
	assert.Equal(t, uint16(tex.Width), tex.Sub.Width)
	assert.Equal(t, uint16(tex.Height), tex.Sub.Height)
}

func TestLoad_PNG(t *testing.T) {
	src := pattern(70, 33, 128)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	path := writeFile(t, "shot.PNG", buf.Bytes())

	tex, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, 70, tex.Width)
	assert.Equal(t, 33, tex.Height)
	assert.Equal(t, uint32(128), tex.PowWidth)
	assert.Equal(t, uint32(64), tex.PowHeight)
	assertUV(t, tex)
	assert.Equal(t, src.Pix, tex.Linear().Pix)
}

func TestLoad_BMP(t *testing.T) {
	src := pattern(20, 10, 255)
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, src))
	path := writeFile(t, "icon.bmp", buf.Bytes())

	tex, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20, tex.Width)
	assert.Equal(t, 10, tex.Height)
	assertUV(t, tex)
	assert.Equal(t, src.Pix, tex.Linear().Pix)
}

func TestLoad_TruncatedBMP(t *testing.T) {
	src := pattern(20, 10, 255)
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, src))
	data := buf.Bytes()
	path := writeFile(t, "cut.bmp", data[:len(data)*3/4])

	tex, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20, tex.Width)
	assert.Equal(t, 10, tex.Height)
	got := tex.Linear()
	// rows are stored bottom-up, so the top of the image is what got cut
	assert.Equal(t, src.NRGBAAt(3, 9), got.NRGBAAt(3, 9))
	top := got.NRGBAAt(3, 0)
	assert.Equal(t, []uint8{0, 0, 0}, []uint8{top.R, top.G, top.B})
}

func TestLoad_TruncatedLargeBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, pattern(450, 450, 255)))
	data := buf.Bytes()

	_, err := NewLoader().Load(writeFile(t, "big.bmp", data[:len(data)/2]))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLoad_GIF(t *testing.T) {
	pal := color.Palette{
		color.NRGBA{A: 255},
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{G: 255, A: 255},
	}
	frame := image.NewPaletted(image.Rect(0, 0, 16, 9), pal)
	for i := range frame.Pix {
		frame.Pix[i] = uint8(i % 3)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, frame, nil))
	path := writeFile(t, "anim.gif", buf.Bytes())

	tex, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, 16, tex.Width)
	assert.Equal(t, 9, tex.Height)
	assertUV(t, tex)
	got := tex.Linear()
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, got.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, got.NRGBAAt(2, 0))
	assert.Equal(t, color.NRGBA{A: 255}, got.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, got.NRGBAAt(0, 1))
}

func TestLoad_JPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, pattern(400, 240, 255), nil))
	path := writeFile(t, "photo.jpg", buf.Bytes())

	tex, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, 400, tex.Width)
	assert.Equal(t, 240, tex.Height)
	assert.Equal(t, uint32(512), tex.PowWidth)
	assert.Equal(t, uint32(256), tex.PowHeight)
	assertUV(t, tex)
	assert.Equal(t, byte(255), tex.Data[0], "alpha comes first")
}

func TestLoad_Unsupported(t *testing.T) {
	_, err := NewLoader().Load(writeFile(t, "a.webp", []byte("RIFF....WEBP")))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = NewLoader().Load(writeFile(t, "a.txt", []byte("hello")))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestLoad_Corrupt(t *testing.T) {
	_, err := NewLoader().Load(writeFile(t, "bad.png", []byte("definitely not a png")))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "gone.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// countingDecoder records whether the pixel decode ran.
type countingDecoder struct {
	Decoder
	decodes int
}

func (c *countingDecoder) Decode(data []byte) (*RawImage, error) {
	c.decodes++
	return c.Decoder.Decode(data)
}

func newCountingLoader(maxBytes int64) (*Loader, *countingDecoder) {
	base, _ := DecoderFor(ImageTypePNG)
	c := &countingDecoder{Decoder: base}
	return &Loader{MaxBytes: maxBytes, decoders: map[ImageType]Decoder{ImageTypePNG: c}}, c
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestLoad_FileOverByteBudget(t *testing.T) {
	data := encodePNG(t, 8, 8)
	l, c := newCountingLoader(int64(len(data) - 1))

	_, err := l.Load(writeFile(t, "a.png", data))

	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Zero(t, c.decodes)
}

func TestLoad_AreaOverBudget(t *testing.T) {
	data := encodePNG(t, 100, 100)
	// enough for the file, not for 100*100*4 decoded bytes
	l, c := newCountingLoader(int64(100*100*4 - 4))
	require.Less(t, len(data), 100*100*4-4)

	_, err := l.Load(writeFile(t, "a.png", data))

	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Zero(t, c.decodes)
}

func TestLoad_SideOverHardwareLimit(t *testing.T) {
	l, c := newCountingLoader(DefaultMaxBytes)

	_, err := l.Load(writeFile(t, "wide.png", encodePNG(t, 1024, 4)))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = l.Load(writeFile(t, "tall.png", encodePNG(t, 4, 1024)))
	assert.ErrorIs(t, err, ErrTooLarge)

	assert.Zero(t, c.decodes)

	tex, err := l.Load(writeFile(t, "ok.png", encodePNG(t, 1023, 4)))
	require.NoError(t, err)
	assert.Equal(t, uint32(1024), tex.PowWidth)
	assert.Equal(t, 1, c.decodes)
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(2, 2, 4, 3))
	src.SetRGBA(2, 2, color.RGBA{R: 0x80, A: 0x80})
	src.SetRGBA(3, 2, color.RGBA{G: 0xFF, A: 0xFF})

	raw, err := FromImage(src)
	require.NoError(t, err)
	assert.Equal(t, 2, raw.Width)
	assert.Equal(t, 1, raw.Height)
	// premultiplied input comes out straight
	assert.Equal(t, []byte{0xFF, 0, 0, 0x80, 0, 0xFF, 0, 0xFF}, raw.Pix)

	_, err = FromImage(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, ErrCorrupt)
}
