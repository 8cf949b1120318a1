package repo

import (
	"context"
	"io"
	"time"

	"github.com/andreyxaxa/Photo-Storage/internal/entity"
	"github.com/google/uuid"
)

type (
	// BlobRepo is one bucket of the blob store. Missing keys yield errs.ErrBlobNotFound.
	BlobRepo interface {
		Put(ctx context.Context, key string, data io.Reader, size int64, contentType string, metadata map[string]string) error
		Get(ctx context.Context, key string) (*entity.Blob, error)
		GetBytes(ctx context.Context, key string) ([]byte, error)
		Delete(ctx context.Context, key string) error
	}

	// PhotoRepo stores photo records. Missing records yield errs.ErrRecordNotFound.
	PhotoRepo interface {
		Create(ctx context.Context, photo *entity.Photo) error
		GetByID(ctx context.Context, id uuid.UUID) (*entity.Photo, error)
		SetThumbID(ctx context.Context, id, thumbID uuid.UUID) error
		MarkThumbnailFailed(ctx context.Context, id uuid.UUID) error
		ListMissingThumbnails(ctx context.Context, createdBefore time.Time, limit int) ([]*entity.Photo, error)
	}
)
