package persistent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/andreyxaxa/Photo-Storage/internal/entity"
	"github.com/andreyxaxa/Photo-Storage/pkg/s3client"
	"github.com/andreyxaxa/Photo-Storage/pkg/types/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3BlobRepo is one bucket of an S3-compatible store accessed through aws-sdk-go-v2.
type S3BlobRepo struct {
	*s3client.S3Client
	bucket string
}

func NewS3BlobRepo(s3c *s3client.S3Client, bucket string) *S3BlobRepo {
	return &S3BlobRepo{s3c, bucket}
}

func (r *S3BlobRepo) Put(
	ctx context.Context,
	key string,
	data io.Reader,
	size int64,
	contentType string,
	metadata map[string]string,
) error {
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          data,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		Metadata:      encodeMetadata(metadata),
	})
	if err != nil {
		return fmt.Errorf("S3BlobRepo - Put - r.Client.PutObject(%s/%s): %w", r.bucket, key, err)
	}

	return nil
}

func (r *S3BlobRepo) Get(ctx context.Context, key string) (*entity.Blob, error) {
	result, err := r.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("S3BlobRepo - Get(%s/%s): %w", r.bucket, key, errs.ErrBlobNotFound)
		}
		return nil, fmt.Errorf("S3BlobRepo - Get - r.Client.GetObject(%s/%s): %w", r.bucket, key, err)
	}

	return &entity.Blob{
		Key:         key,
		ContentType: aws.ToString(result.ContentType),
		Size:        aws.ToInt64(result.ContentLength),
		Metadata:    decodeMetadata(result.Metadata),
		Body:        result.Body,
	}, nil
}

func (r *S3BlobRepo) GetBytes(ctx context.Context, key string) ([]byte, error) {
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
		return nil, fmt.Errorf("S3BlobRepo - GetBytes - io.Copy(%s/%s): %w", r.bucket, key, err)
	}

	return buf.Bytes(), nil
}

func (r *S3BlobRepo) Delete(ctx context.Context, key string) error {
	_, err := r.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("S3BlobRepo - Delete - r.Client.DeleteObject(%s/%s): %w", r.bucket, key, err)
	}

	return nil
}

func isS3NotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
