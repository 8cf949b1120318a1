package processor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/andreyxaxa/Photo-Storage/pkg/types/errs"
	"github.com/disintegration/imaging"
)

const (
	ThumbnailWidth  = 100
	ThumbnailHeight = 100

	_defaultJPEGQuality = 85
)

type ImageProcessor struct {
	quality int
}

func New() *ImageProcessor {
	return &ImageProcessor{quality: _defaultJPEGQuality}
}

// Decode reads a JPEG or PNG image, applying its EXIF orientation.
func (p *ImageProcessor) Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Decode - imaging.Decode: %w: %w", errs.ErrCorruptImage, err)
	}

	return img, nil
}

// Thumbnail scales img to exactly ThumbnailWidth x ThumbnailHeight, ignoring the
// aspect ratio, and encodes it as JPEG.
func (p *ImageProcessor) Thumbnail(img image.Image) ([]byte, error) {
	thumb := imaging.Resize(img, ThumbnailWidth, ThumbnailHeight, imaging.Lanczos)

	var buf bytes.Buffer
	err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(p.quality))
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Thumbnail - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}
