package ports

import (
	"context"
	"mime/multipart"

	"design-market-api/internal/domain/product"
)

type CreateProductInput struct {
	Category    string
	Name        string
	Description string
	Tags        []string
	Image       *multipart.FileHeader
	File        *multipart.FileHeader
}

type ProductService interface {
	Create(ctx context.Context, in CreateProductInput) (*product.Product, error)
	FindByID(ctx context.Context, uuid product.UUID) (*product.Product, error)
	ListByCategory(ctx context.Context, category string, pageSize, page int) (product.Products, error)
	ListAll(ctx context.Context, pageSize int) (product.Products, error)
	Search(ctx context.Context, term, category string) (product.Products, error)
	Popular(ctx context.Context, limit int) (product.Products, error)
	Update(ctx context.Context, p *product.Product) (*product.Product, error)
	Delete(ctx context.Context, uuid product.UUID) error
}
