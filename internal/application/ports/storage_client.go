package ports

import (
	"context"
	"io"
	"time"

	"design-market-api/internal/infrastructure/s3"
)

// StorageClient is the credential-holding object-storage gateway. It never
// inspects entitlement; callers decide, it moves bytes.
type StorageClient interface {
	Upload(ctx context.Context, data []byte, key, contentType string) (*s3.Object, error)
	PresignDownload(ctx context.Context, key, fileName string, expiry time.Duration) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, string, int64, error)
	List(ctx context.Context, prefix string, maxKeys int32, continuationToken string) (*s3.Listing, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	GetBucket() string
}
