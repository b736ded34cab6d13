package product

import (
	"context"
)

type Repository interface {
	CreateProduct(ctx context.Context, req *Product) (*Product, error)
	FetchProductByID(ctx context.Context, uuid UUID) (*Product, error)
	// FetchByCategory returns products ordered by created_at descending.
	// page is 1-based.
	FetchByCategory(ctx context.Context, category string, pageSize, page int) (Products, error)
	FetchAll(ctx context.Context, pageSize int) (Products, error)
	// FetchRecent returns the newest rows, optionally category-filtered,
	// as the search window.
	FetchRecent(ctx context.Context, category string, limit int) (Products, error)
	FetchPopular(ctx context.Context, limit int) (Products, error)
	UpdateProduct(ctx context.Context, req *Product) (*Product, error)
	DeleteProduct(ctx context.Context, uuid UUID) error
	// IncrementDownloads atomically bumps the download counter by one and
	// returns the value after the bump.
	IncrementDownloads(ctx context.Context, uuid UUID) (int64, error)
}
