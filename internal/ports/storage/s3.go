package storage

import (
	"context"
	"time"
)

// IS3Client is the S3-compatible object storage holding restaurant and
// profile images.
type IS3Client interface {
	GetFile(ctx context.Context, path string) ([]byte, error)
	ListFiles(ctx context.Context, prefix string) ([]string, error)
	GetPresignedURL(ctx context.Context, path string, expires time.Duration) (string, error)
}
