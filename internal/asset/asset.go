// Package asset turns editor-supplied image payloads into embeddable bytes.
package asset

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUndecodable reports an image payload that cannot be embedded.
var ErrUndecodable = errors.New("undecodable image")

// Image is a decoded payload ready for embedding.
type Image struct {
	Data   []byte
	Format string // png, jpeg, gif, bmp or tiff
	Width  int    // intrinsic size in pixels
	Height int
}

// MaxPixels caps the size of images that must be decoded for transcoding.
const MaxPixels = 4096 * 4096

// Formats a word processor can display without conversion.
var embeddable = map[string]bool{
	"png":  true,
	"jpeg": true,
	"gif":  true,
	"bmp":  true,
	"tiff": true,
}

// Decode parses a data URI (or bare base64 string) into an Image. WebP input
// is re-encoded as PNG.
func Decode(uri string) (Image, error) {
	raw, err := payload(uri)
	if err != nil {
		return Image{}, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if embeddable[format] {
		return Image{Data: raw, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxPixels/cfg.Height {
		return Image{}, fmt.Errorf("%w: %s image of %dx%d exceeds %d pixels", ErrUndecodable, format, cfg.Width, cfg.Height, MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Image{}, fmt.Errorf("%w: decode %s: %v", ErrUndecodable, format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Image{}, fmt.Errorf("%w: transcode %s: %v", ErrUndecodable, format, err)
	}
	b := img.Bounds()
	return Image{Data: buf.Bytes(), Format: "png", Width: b.Dx(), Height: b.Dy()}, nil
}

// payload extracts the base64 body of a data URI and decodes it.
func payload(uri string) ([]byte, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrUndecodable)
	}
	body := uri
	if strings.HasPrefix(uri, "data:") {
		comma := strings.IndexByte(uri, ',')
		if comma < 0 {
			return nil, fmt.Errorf("%w: data URI without payload", ErrUndecodable)
		}
		if !strings.HasSuffix(uri[:comma], ";base64") {
			return nil, fmt.Errorf("%w: data URI is not base64", ErrUndecodable)
		}
		body = uri[comma+1:]
	}
	body = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, body)

	enc := base64.StdEncoding
	if !strings.HasSuffix(body, "=") && len(body)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	raw, err := enc.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return raw, nil
}
