package app

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Photo-Storage/config"
	"github.com/andreyxaxa/Photo-Storage/internal/repo"
	"github.com/andreyxaxa/Photo-Storage/internal/repo/persistent"
	"github.com/andreyxaxa/Photo-Storage/pkg/minioclient"
	"github.com/andreyxaxa/Photo-Storage/pkg/s3client"
)

// newBlobRepos connects to the configured blob backend and returns the originals
// and thumbnails buckets, creating them when missing.
func newBlobRepos(ctx context.Context, cfg config.Blob) (repo.BlobRepo, repo.BlobRepo, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.CfgLoadTimeout)
	defer cancel()

	switch cfg.Backend {
	case config.BlobBackendMinio:
		mc, err := minioclient.New(ctx, cfg.Endpoint, cfg.AccessKey, cfg.SecretKey,
			minioclient.Region(cfg.Region),
			minioclient.UseSSL(cfg.UseSSL),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("minioclient.New: %w", err)
		}

		for _, bucket := range []string{cfg.PhotosBucket, cfg.ThumbsBucket} {
			err = mc.EnsureBucket(ctx, bucket)
			if err != nil {
				return nil, nil, fmt.Errorf("mc.EnsureBucket: %w", err)
			}
		}

		return persistent.NewMinioBlobRepo(mc, cfg.PhotosBucket), persistent.NewMinioBlobRepo(mc, cfg.ThumbsBucket), nil
	default:
		s3c, err := s3client.New(ctx, cfg.Endpoint, cfg.AccessKey, cfg.SecretKey,
			s3client.Region(cfg.Region),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("s3client.New: %w", err)
		}

		for _, bucket := range []string{cfg.PhotosBucket, cfg.ThumbsBucket} {
			err = s3c.EnsureBucket(ctx, bucket)
			if err != nil {
				return nil, nil, fmt.Errorf("s3c.EnsureBucket: %w", err)
			}
		}

		return persistent.NewS3BlobRepo(s3c, cfg.PhotosBucket), persistent.NewS3BlobRepo(s3c, cfg.ThumbsBucket), nil
	}
}
