package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/prometheus/client_golang/prometheus"

	"design-market-api/config"
	"design-market-api/internal/application/ports"
	"design-market-api/internal/infrastructure/s3"
)

var (
	ErrEmptyPath       = errors.New("destination path is required")
	ErrPayloadTooLarge = errors.New("file exceeds the upload size limit")
	ErrTooManyFiles    = errors.New("too many files in one batch")
)

type StorageService struct {
	s3       ports.StorageClient
	limits   config.Limits
	mCounter *prometheus.CounterVec
}

func NewStorageService(
	s3Client ports.StorageClient,
	limits config.Limits,
	mCounter *prometheus.CounterVec,
) ports.StorageService {
	return &StorageService{
		s3:       s3Client,
		limits:   limits,
		mCounter: mCounter,
	}
}

func (ss *StorageService) Upload(ctx context.Context, fh *multipart.FileHeader, path string) (*s3.Object, error) {
	if path == "" {
		path = fh.Filename
	}
	if path == "" {
		return nil, ErrEmptyPath
	}
	if fh.Size <= 0 || fh.Size > ss.limits.MaxUploadBytes {
		return nil, ErrPayloadTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	obj, err := ss.s3.Upload(ctx, data, path, fh.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	ss.mCounter.WithLabelValues("uploads_total").Inc()

	return obj, nil
}

// UploadBatch uploads files one by one under folder. The first failure
// aborts the batch; earlier successful puts stay in place.
func (ss *StorageService) UploadBatch(ctx context.Context, fhs []*multipart.FileHeader, folder string) ([]*s3.Object, error) {
	if len(fhs) == 0 {
		return nil, ErrEmptyPath
	}
	if len(fhs) > ss.limits.MaxBatchFiles {
		return nil, ErrTooManyFiles
	}

	results := make([]*s3.Object, 0, len(fhs))
	for _, fh := range fhs {
		path := fh.Filename
		if folder != "" {
			path = fmt.Sprintf("%s/%s", folder, fh.Filename)
		}

		obj, err := ss.Upload(ctx, fh, path)
		if err != nil {
			return nil, fmt.Errorf("upload %q: %w", fh.Filename, err)
		}
		results = append(results, obj)
	}

	return results, nil
}

func (ss *StorageService) List(ctx context.Context, prefix string, maxKeys int32, continuationToken string) (*s3.Listing, error) {
	if maxKeys <= 0 {
		maxKeys = 100
	}
	return ss.s3.List(ctx, prefix, maxKeys, continuationToken)
}

func (ss *StorageService) Delete(ctx context.Context, key string) error {
	return ss.s3.Delete(ctx, key)
}
