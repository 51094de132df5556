package asset

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

func sample(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	return img
}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, sample(2, 3)); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// 1x1 lossless WebP.
const tinyWebP = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

func TestDecodeFormats(t *testing.T) {
	pngData := encodePNG(t)

	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, sample(4, 4), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	var bm bytes.Buffer
	if err := bmp.Encode(&bm, sample(3, 2)); err != nil {
		t.Fatalf("bmp.Encode: %v", err)
	}

	tests := []struct {
		name       string
		uri        string
		wantFormat string
		wantW      int
		wantH      int
	}{
		{"png data uri", dataURI("image/png", pngData), "png", 2, 3},
		{"bare base64", base64.StdEncoding.EncodeToString(pngData), "png", 2, 3},
		{"unpadded base64", "data:image/png;base64," + base64.RawStdEncoding.EncodeToString(pngData), "png", 2, 3},
		{"wrapped lines", "data:image/png;base64," + wrap(base64.StdEncoding.EncodeToString(pngData), 20), "png", 2, 3},
		{"jpeg", dataURI("image/jpeg", jpg.Bytes()), "jpeg", 4, 4},
		{"bmp", dataURI("image/bmp", bm.Bytes()), "bmp", 3, 2},
		{"webp becomes png", "data:image/webp;base64," + tinyWebP, "png", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(tt.uri)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if img.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", img.Format, tt.wantFormat)
			}
			if img.Width != tt.wantW || img.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", img.Width, img.Height, tt.wantW, tt.wantH)
			}
			if len(img.Data) == 0 {
				t.Error("expected image bytes")
			}
		})
	}
}

func TestDecodeWebPProducesPNG(t *testing.T) {
	img, err := Decode("data:image/webp;base64," + tinyWebP)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(img.Data)); err != nil {
		t.Errorf("transcoded bytes are not PNG: %v", err)
	}
}

// VP8L header declaring a 16383x16383 image with no pixel data.
const hugeWebP = "RIFF\x12\x00\x00\x00WEBPVP8L\x05\x00\x00\x00\x2f\xfe\xbf\xff\x0f\x00"

func TestDecodeRejectsOversizedTranscode(t *testing.T) {
	cfg, format, err := image.DecodeConfig(strings.NewReader(hugeWebP))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != "webp" || cfg.Width != 16383 || cfg.Height != 16383 {
		t.Fatalf("header = %s %dx%d, want webp 16383x16383", format, cfg.Width, cfg.Height)
	}

	_, err = Decode(dataURI("image/webp", []byte(hugeWebP)))
	if !errors.Is(err, ErrUndecodable) {
		t.Fatalf("Decode() error = %v, want ErrUndecodable", err)
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("Decode() error = %v, want pixel budget error", err)
	}
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"no comma", "data:image/png;base64"},
		{"not base64 encoded", "data:image/svg+xml,<svg/>"},
		{"invalid base64", "data:image/png;base64,@@@@"},
		{"not an image", dataURI("text/plain", []byte("hello, world"))},
		{"truncated png", dataURI("image/png", []byte("\x89PNG\r\n\x1a\n"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.uri)
			if !errors.Is(err, ErrUndecodable) {
				t.Errorf("Decode() error = %v, want ErrUndecodable", err)
			}
		})
	}
}

func wrap(s string, n int) string {
	var b strings.Builder
	for len(s) > n {
		b.WriteString(s[:n])
		b.WriteString("\n")
		s = s[n:]
	}
	b.WriteString(s)
	return b.String()
}
