package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// ImageType is the image format picked from a file extension.
type ImageType int

const (
	ImageTypeBMP ImageType = iota
	ImageTypeGIF
	ImageTypeJPEG
	ImageTypePNG
	ImageTypeWEBP // recognised, not decoded
	ImageTypeOther
)

func (t ImageType) String() string {
	switch t {
	case ImageTypeBMP:
		return "BMP"
	case ImageTypeGIF:
		return "GIF"
	case ImageTypeJPEG:
		return "JPEG"
	case ImageTypePNG:
		return "PNG"
	case ImageTypeWEBP:
		return "WEBP"
	default:
		return "Other"
	}
}

// Classify returns the image type for path by its extension, ignoring case.
func Classify(path string) ImageType {
	switch strings.ToUpper(filepath.Ext(path)) {
	case ".BMP":
		return ImageTypeBMP
	case ".GIF":
		return ImageTypeGIF
	case ".JPG", ".JPEG":
		return ImageTypeJPEG
	case ".PNG":
		return ImageTypePNG
	case ".WEBP":
		return ImageTypeWEBP
	default:
		return ImageTypeOther
	}
}

// RawImage is a decoded image as tightly packed, row-major RGBA bytes with
// straight (non-premultiplied) alpha.
type RawImage struct {
	Width  int
	Height int
	Pix    []byte
}

// Decoder turns encoded bytes of one format into a RawImage.
type Decoder interface {
	// DecodeConfig reads only the header.
	DecodeConfig(data []byte) (width, height int, err error)
	Decode(data []byte) (*RawImage, error)
}

// stdCodec adapts an image package's Decode/DecodeConfig pair.
type stdCodec struct {
	config func(io.Reader) (image.Config, error)
	decode func(io.Reader) (image.Image, error)
}

func (c stdCodec) DecodeConfig(data []byte) (int, int, error) {
	cfg, err := c.config(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func (c stdCodec) Decode(data []byte) (*RawImage, error) {
	img, err := c.decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return FromImage(img)
}

// maxTruncatedBMPPixels is the largest BMP, in pixels, that is still shown
// when its pixel data is cut short.
const maxTruncatedBMPPixels = 200000

// bmpCodec decodes BMPs, showing small truncated files with the missing
// rows left blank.
type bmpCodec struct{}

func (bmpCodec) DecodeConfig(data []byte) (int, int, error) {
	cfg, err := bmp.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func (bmpCodec) Decode(data []byte) (*RawImage, error) {
	img, err := bmp.Decode(bytes.NewReader(data))
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		img, err = decodeTruncatedBMP(data, err)
	}
	if err != nil {
		return nil, err
	}
	return FromImage(img)
}

// decodeTruncatedBMP pads the pixel data with zeros and decodes again. cause
// is returned unchanged when the image is too large to be worth it.
func decodeTruncatedBMP(data []byte, cause error) (image.Image, error) {
	cfg, err := bmp.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width*cfg.Height > maxTruncatedBMPPixels {
		return nil, cause
	}
	// 4 bytes per pixel covers every bit depth, row padding included
	padded := make([]byte, len(data)+4*cfg.Width*(cfg.Height+1))
	copy(padded, data)
	return bmp.Decode(bytes.NewReader(padded))
}

// gifCodec decodes the first frame only, composed onto the logical screen.
type gifCodec struct{}

func (gifCodec) DecodeConfig(data []byte) (int, int, error) {
	cfg, err := gif.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func (gifCodec) Decode(data []byte) (*RawImage, error) {
	cfg, err := gif.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	frame, err := gif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	screen := image.Rect(0, 0, cfg.Width, cfg.Height)
	if screen.Empty() {
		screen = image.Rect(0, 0, frame.Bounds().Max.X, frame.Bounds().Max.Y)
	}
	canvas := image.NewNRGBA(screen)
	draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
	return &RawImage{Width: screen.Dx(), Height: screen.Dy(), Pix: canvas.Pix}, nil
}

var decoders = map[ImageType]Decoder{
	ImageTypeBMP:  bmpCodec{},
	ImageTypeGIF:  gifCodec{},
	ImageTypeJPEG: stdCodec{config: jpeg.DecodeConfig, decode: jpeg.Decode},
	ImageTypePNG:  stdCodec{config: png.DecodeConfig, decode: png.Decode},
}

// DecoderFor returns the decoder for t, or false for WEBP and Other.
func DecoderFor(t ImageType) (Decoder, bool) {
	d, ok := decoders[t]
	return d, ok
}

// toRaw converts any image to tightly packed straight-alpha RGBA.
func toRaw(img image.Image) *RawImage {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return &RawImage{Width: b.Dx(), Height: b.Dy(), Pix: n.Pix}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	return &RawImage{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

// FromImage wraps an already decoded image. The BMP, JPEG and PNG decoders
// hand their result through here.
func FromImage(img image.Image) (*RawImage, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrCorrupt)
	}
	return toRaw(img), nil
}
