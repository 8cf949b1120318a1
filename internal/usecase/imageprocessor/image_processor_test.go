package imageprocessor

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"
)

type slowProcessor struct {
	delay time.Duration
}

func (p slowProcessor) Decode([]byte) (image.Image, error) {
	time.Sleep(p.delay)
	return image.NewGray(image.Rect(0, 0, 1, 1)), nil
}

func (p slowProcessor) Thumbnail(image.Image) ([]byte, error) {
	time.Sleep(p.delay)
	return []byte{0xff, 0xd8}, nil
}

func TestDecodeWithinTimeout(t *testing.T) {
	uc := New(slowProcessor{}, time.Second)

	img, err := uc.Decode(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img == nil {
		t.Fatal("expected image")
	}
}

func TestThumbnailCPUTimeout(t *testing.T) {
	uc := New(slowProcessor{delay: 200 * time.Millisecond}, 10*time.Millisecond)

	_, err := uc.Thumbnail(context.Background(), nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}
