package usecase

import (
	"context"
	"image"
	"time"

	"github.com/andreyxaxa/Photo-Storage/internal/dto"
	"github.com/andreyxaxa/Photo-Storage/internal/entity"
)

type (
	PhotoUseCase interface {
		UploadPhoto(ctx context.Context, photo dto.NewPhoto) (*entity.Photo, error)
		GetPhoto(ctx context.Context, id string) (*entity.Photo, error)
		OpenOriginal(ctx context.Context, id string) (*entity.Blob, error)
		OpenThumbnail(ctx context.Context, id string) (*entity.Blob, error)
		RequestThumbnail(ctx context.Context, id string) (*entity.Photo, error)
		EnqueueMissingThumbnails(ctx context.Context, minAge time.Duration, limit int) (int, error)
	}

	ThumbnailUseCase interface {
		Generate(ctx context.Context, req dto.GenerationRequest) error
	}

	ImageProcessorUseCase interface {
		Decode(ctx context.Context, data []byte) (image.Image, error)
		Thumbnail(ctx context.Context, img image.Image) ([]byte, error)
	}
)
