package ports

import (
	"context"
	"io"

	"design-market-api/internal/domain/product"
	"design-market-api/internal/domain/user"
)

// DownloadResult carries one approved, fetched object ready to stream to
// the client.
type DownloadResult struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	FileName      string
}

// DownloadService runs the check -> fetch -> record sequence. userUUID is
// nil for unauthenticated requests; the evaluator turns that into a denial
// before any storage call.
type DownloadService interface {
	DownloadByKey(ctx context.Context, userUUID *user.UUID, key string) (*DownloadResult, error)
	DownloadProduct(ctx context.Context, userUUID *user.UUID, productUUID product.UUID) (*DownloadResult, error)
	SignedURL(ctx context.Context, userUUID *user.UUID, key string) (string, int, error)
}
