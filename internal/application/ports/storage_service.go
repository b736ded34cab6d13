package ports

import (
	"context"
	"mime/multipart"

	"design-market-api/internal/infrastructure/s3"
)

// StorageService is the admin-facing file surface: raw uploads, listing and
// deletion by key.
type StorageService interface {
	Upload(ctx context.Context, fh *multipart.FileHeader, path string) (*s3.Object, error)
	UploadBatch(ctx context.Context, fhs []*multipart.FileHeader, folder string) ([]*s3.Object, error)
	List(ctx context.Context, prefix string, maxKeys int32, continuationToken string) (*s3.Listing, error)
	Delete(ctx context.Context, key string) error
}
