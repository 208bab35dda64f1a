package texture

import (
	"fmt"
	"io"
	"log"
	"os"
)

// DefaultMaxBytes bounds both the encoded file size and the decoded RGBA
// buffer (MaxBytes/4 pixels).
const DefaultMaxBytes = 48 << 20

// Loader reads image files and turns them into textures.
type Loader struct {
	// MaxBytes caps the file size and the decoded buffer; zero means DefaultMaxBytes.
	MaxBytes int64

	decoders map[ImageType]Decoder
}

// NewLoader returns a Loader with the default limits and decoders.
func NewLoader() *Loader {
	return &Loader{MaxBytes: DefaultMaxBytes, decoders: decoders}
}

func (l *Loader) maxBytes() int64 {
	if l.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return l.MaxBytes
}

func (l *Loader) decoder(t ImageType) (Decoder, bool) {
	if l.decoders == nil {
		return DecoderFor(t)
	}
	d, ok := l.decoders[t]
	return d, ok
}

// Load reads path and decodes it into a texture.
func (l *Loader) Load(path string) (*Texture, error) {
	data, err := l.readFile(path)
	if err != nil {
		return nil, err
	}
	tex, err := l.Decode(path, data)
	if err != nil {
		log.Printf("texture: load failed path=%s: %v", path, err)
		return nil, err
	}
	return tex, nil
}

// Decode decodes data, choosing the decoder from name's extension. The header
// dimensions are checked against the limits before any pixel buffer exists.
func (l *Loader) Decode(name string, data []byte) (*Texture, error) {
	typ := Classify(name)
	dec, ok := l.decoder(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, typ)
	}
	if int64(len(data)) > l.maxBytes() {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	w, h, err := dec.DecodeConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s header: %v", ErrCorrupt, typ, err)
	}
	if err := l.checkDimensions(w, h); err != nil {
		return nil, err
	}

	raw, err := dec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, typ, err)
	}
	return Tile(raw)
}

func (l *Loader) checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrCorrupt, w, h)
	}
	if int64(w)*int64(h) > l.maxBytes()/BytesPerPixel {
		return fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, w, h)
	}
	if w >= MaxSide || h >= MaxSide {
		return fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrTooLarge, w, h, MaxSide-1, MaxSide-1)
	}
	return nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	limit := l.maxBytes()
	if info.Size() > limit {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, info.Size())
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: grew past %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}
