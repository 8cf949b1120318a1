package processor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/andreyxaxa/Photo-Storage/pkg/types/errs"
)

func gradient(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	return img
}

func TestThumbnailIsFixedSizeJPEG(t *testing.T) {
	var pngBuf, jpegBuf bytes.Buffer
	if err := png.Encode(&pngBuf, gradient(640, 480)); err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(&jpegBuf, gradient(37, 250), nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"png landscape", pngBuf.Bytes()},
		{"jpeg portrait", jpegBuf.Bytes()},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := p.Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			thumb, err := p.Thumbnail(img)
			if err != nil {
				t.Fatalf("Thumbnail: %v", err)
			}

			cfg, format, err := image.DecodeConfig(bytes.NewReader(thumb))
			if err != nil {
				t.Fatalf("thumbnail does not decode: %v", err)
			}
			if format != "jpeg" {
				t.Fatalf("expected jpeg, got %s", format)
			}
			if cfg.Width != ThumbnailWidth || cfg.Height != ThumbnailHeight {
				t.Fatalf("expected %dx%d, got %dx%d", ThumbnailWidth, ThumbnailHeight, cfg.Width, cfg.Height)
			}
		})
	}
}

func TestDecodeCorrupt(t *testing.T) {
	_, err := New().Decode([]byte("definitely not an image"))
	if !errors.Is(err, errs.ErrCorruptImage) {
		t.Fatalf("expected ErrCorruptImage, got %v", err)
	}
}
