// Package texture decodes image files into GPU textures.
//
// Images are decoded to RGBA, byte-swapped to ABGR and laid out in the
// 8x8 Morton-tiled RGBA8 format used by the PICA200 family of GPUs, inside a
// power-of-two backing buffer. The visible part of the buffer is described by
// the texture's SubTexture UV rectangle.
package texture

import (
	"errors"
	"fmt"
	"image"
)

const (
	// BytesPerPixel is the size of one RGBA8 texel.
	BytesPerPixel = 4
	// MaxSide is the exclusive limit on either side of a texture.
	MaxSide = 1024
	// minPowerOf2 is the smallest backing dimension the GPU accepts.
	minPowerOf2 = 64
	// TransparentBorder is the border colour sampled outside the image.
	TransparentBorder uint32 = 0xFFFFFFFF
)

var (
	// ErrUnsupported is returned for file types with no decoder.
	ErrUnsupported = errors.New("unsupported image type")
	// ErrTooLarge is returned when the file or its pixel dimensions exceed the limits.
	ErrTooLarge = errors.New("image too large")
	// ErrCorrupt is returned when a decoder rejects the data.
	ErrCorrupt = errors.New("corrupt image data")
)

// SubTexture is the visible region of a texture in UV space. Top is 1 and
// Bottom is below it because texture rows run bottom-up on the GPU.
type SubTexture struct {
	Width  uint16
	Height uint16
	Left   float32
	Top    float32
	Right  float32
	Bottom float32
}

// Texture is a tiled RGBA8 texture ready for upload.
type Texture struct {
	Width     int
	Height    int
	PowWidth  uint32
	PowHeight uint32
	// Data holds PowWidth*PowHeight texels in tile order, ABGR bytes each.
	// Texels outside the image are zero.
	Data   []byte
	Sub    SubTexture
	Border uint32
}

// NextPowerOf2 rounds v up to a power of two, never below 64.
func NextPowerOf2(v uint32) uint32 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++
	if v < minPowerOf2 {
		return minPowerOf2
	}
	return v
}

// TileOffset returns the byte offset of texel (x, y) in a tiled buffer whose
// width is powWidth. Texels are grouped in 8x8 tiles stored row by row; inside
// a tile the low three bits of x and y are interleaved (x in the even bits).
func TileOffset(x, y, powWidth uint32) uint32 {
	tile := (y>>3)*(powWidth>>3) + (x >> 3)
	morton := (x & 1) | ((y & 1) << 1) | ((x & 2) << 1) | ((y & 2) << 2) | ((x & 4) << 2) | ((y & 4) << 3)
	return ((tile << 6) + morton) * BytesPerPixel
}

// Tile converts raw into a texture.
func Tile(raw *RawImage) (*Texture, error) {
	if raw == nil || raw.Width <= 0 || raw.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrCorrupt)
	}
	if raw.Width >= MaxSide || raw.Height >= MaxSide {
		return nil, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrTooLarge, raw.Width, raw.Height, MaxSide-1, MaxSide-1)
	}
	if len(raw.Pix) < raw.Width*raw.Height*BytesPerPixel {
		return nil, fmt.Errorf("%w: short pixel buffer", ErrCorrupt)
	}

	w, h := uint32(raw.Width), uint32(raw.Height)
	pw, ph := NextPowerOf2(w), NextPowerOf2(h)
	data := make([]byte, pw*ph*BytesPerPixel)

	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			src := raw.Pix[(y*w+x)*BytesPerPixel:]
			dst := data[TileOffset(x, y, pw):]
			dst[0] = src[3] // A
			dst[1] = src[2] // B
			dst[2] = src[1] // G
			dst[3] = src[0] // R
		}
	}

	return &Texture{
		Width:     raw.Width,
		Height:    raw.Height,
		PowWidth:  pw,
		PowHeight: ph,
		Data:      data,
		Sub: SubTexture{
			Width:  uint16(w),
			Height: uint16(h),
			Left:   0,
			Top:    1,
			Right:  float32(w) / float32(pw),
			Bottom: 1 - float32(h)/float32(ph),
		},
		Border: TransparentBorder,
	}, nil
}

// Linear untiles the visible region back into a regular image.
func (t *Texture) Linear() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			src := t.Data[TileOffset(uint32(x), uint32(y), t.PowWidth):]
			dst := img.Pix[y*img.Stride+x*BytesPerPixel:]
			dst[0] = src[3]
			dst[1] = src[2]
			dst[2] = src[1]
			dst[3] = src[0]
		}
	}
	return img
}
