package imageprocessor

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/andreyxaxa/Photo-Storage/internal/infrastructure"
)

// ImageProcessorUseCase bounds the CPU-heavy image steps by a timeout. A step that
// runs past it is abandoned and reported as the context error.
type ImageProcessorUseCase struct {
	p          infrastructure.ImageProcessor
	cpuTimeout time.Duration
}

func New(p infrastructure.ImageProcessor, cpuTimeout time.Duration) *ImageProcessorUseCase {
	return &ImageProcessorUseCase{
		p:          p,
		cpuTimeout: cpuTimeout,
	}
}

func (uc *ImageProcessorUseCase) Decode(ctx context.Context, data []byte) (image.Image, error) {
	img, err := bounded(ctx, uc.cpuTimeout, func() (image.Image, error) {
		return uc.p.Decode(data)
	})
	if err != nil {
		return nil, fmt.Errorf("ImageProcessorUseCase - Decode: %w", err)
	}

	return img, nil
}

func (uc *ImageProcessorUseCase) Thumbnail(ctx context.Context, img image.Image) ([]byte, error) {
	thumb, err := bounded(ctx, uc.cpuTimeout, func() ([]byte, error) {
		return uc.p.Thumbnail(img)
	})
	if err != nil {
		return nil, fmt.Errorf("ImageProcessorUseCase - Thumbnail: %w", err)
	}

	return thumb, nil
}

func bounded[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		v   T
		err error
	}

	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
