package persistent

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/andreyxaxa/Photo-Storage/internal/entity"
	"github.com/andreyxaxa/Photo-Storage/pkg/minioclient"
	"github.com/andreyxaxa/Photo-Storage/pkg/types/errs"
	"github.com/minio/minio-go/v7"
)

// MinioBlobRepo is one bucket of a MinIO server accessed through minio-go.
type MinioBlobRepo struct {
	*minioclient.MinioClient
	bucket string
}

func NewMinioBlobRepo(mc *minioclient.MinioClient, bucket string) *MinioBlobRepo {
	return &MinioBlobRepo{mc, bucket}
}

func (r *MinioBlobRepo) Put(
	ctx context.Context,
	key string,
	data io.Reader,
	size int64,
	contentType string,
	metadata map[string]string,
) error {
	_, err := r.Client.PutObject(ctx, r.bucket, key, data, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: encodeMetadata(metadata),
	})
	if err != nil {
		return fmt.Errorf("MinioBlobRepo - Put - r.Client.PutObject(%s/%s): %w", r.bucket, key, err)
	}

	return nil
}

func (r *MinioBlobRepo) Get(ctx context.Context, key string) (*entity.Blob, error) {
	obj, err := r.Client.GetObject(ctx, r.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("MinioBlobRepo - Get - r.Client.GetObject(%s/%s): %w", r.bucket, key, err)
	}

	// GetObject is lazy, the first request goes out with Stat
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()

		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("MinioBlobRepo - Get(%s/%s): %w", r.bucket, key, errs.ErrBlobNotFound)
		}
		return nil, fmt.Errorf("MinioBlobRepo - Get - obj.Stat(%s/%s): %w", r.bucket, key, err)
	}

	return &entity.Blob{
		Key:         key,
		ContentType: info.ContentType,
		Size:        info.Size,
		Metadata:    decodeMetadata(info.UserMetadata),
		Body:        obj,
	}, nil
}

func (r *MinioBlobRepo) GetBytes(ctx context.Context, key string) ([]byte, error) {
	blob, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer blob.Body.Close()

	var buf bytes.Buffer
	if blob.Size > 0 {
		buf.Grow(int(blob.Size))
	}

	_, err = io.Copy(&buf, blob.Body)
	if err != nil {
		return nil, fmt.Errorf("MinioBlobRepo - GetBytes - io.Copy(%s/%s): %w", r.bucket, key, err)
	}

	return buf.Bytes(), nil
}

func (r *MinioBlobRepo) Delete(ctx context.Context, key string) error {
	err := r.Client.RemoveObject(ctx, r.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("MinioBlobRepo - Delete - r.Client.RemoveObject(%s/%s): %w", r.bucket, key, err)
	}

	return nil
}
