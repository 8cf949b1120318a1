package minioclient

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
)

// MinioClient talks to MinIO or any other S3-compatible server through minio-go.
type MinioClient struct {
	connAttempts int
	connTimeout  time.Duration

	endpoint  string
	region    string
	accessKey string
	secretKey string
	useSSL    bool

	Client *minio.Client
}

func New(ctx context.Context, endpoint, accessKey, secretKey string, opts ...Option) (*MinioClient, error) {
	mc := &MinioClient{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		endpoint:     endpoint,
		accessKey:    accessKey,
		secretKey:    secretKey,
	}

	for _, opt := range opts {
		opt(mc)
	}

	// minio-go wants host:port, the scheme only selects TLS
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		mc.endpoint = u.Host
		mc.useSSL = mc.useSSL || u.Scheme == "https"
	}

	var err error
	for mc.connAttempts > 0 {
		err = mc.connect(ctx)
		if err == nil {
			break
		}

		log.Printf("MinIO is trying to connect, attempts left: %d", mc.connAttempts)

		time.Sleep(mc.connTimeout)

		mc.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("MinioClient - New - connAttempts == 0: %w", err)
	}

	return mc, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (m *MinioClient) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := m.Client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("MinioClient - EnsureBucket - m.Client.BucketExists(%s): %w", bucket, err)
	}
	if exists {
		return nil
	}

	err = m.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: m.region})
	if err != nil {
		return fmt.Errorf("MinioClient - EnsureBucket - m.Client.MakeBucket(%s): %w", bucket, err)
	}

	return nil
}

func (m *MinioClient) connect(ctx context.Context) error {
	client, err := minio.New(m.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(m.accessKey, m.secretKey, ""),
		Secure: m.useSSL,
		Region: m.region,
	})
	if err != nil {
		return fmt.Errorf("MinioClient - minio.New: %w", err)
	}

	// check connection
	_, err = client.ListBuckets(ctx)
	if err != nil {
		return fmt.Errorf("MinioClient - client.ListBuckets: %w", err)
	}

	m.Client = client

	return nil
}
