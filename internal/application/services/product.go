package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"design-market-api/internal/application/ports"
	domain "design-market-api/internal/domain/product"
	"design-market-api/internal/infrastructure/mq"
)

var ErrInvalidCategory = errors.New("unknown product category")

// searchWindow bounds Search to the newest rows; this is not a full-corpus
// search.
const searchWindow = 50

type ProductService struct {
	productRepository domain.Repository
	s3                ports.StorageClient
	mq                ports.RabbitMQ
	mCounter          *prometheus.CounterVec
	logger            *zap.Logger
}

func NewProductService(
	productRepository domain.Repository,
	s3 ports.StorageClient,
	rabbit ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
) ports.ProductService {
	return &ProductService{
		productRepository: productRepository,
		s3:                s3,
		mq:                rabbit,
		mCounter:          mCounter,
		logger:            logger,
	}
}

// Create uploads the preview image and the design file, then writes the
// catalog row. A failed file upload aborts creation; an already-uploaded
// image is left behind rather than rolled back.
func (ps *ProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	if !domain.ValidCategory(in.Category) {
		return nil, ErrInvalidCategory
	}

	folder := domain.FolderFor(in.Category)
	now := time.Now().UTC()

	imageKey, err := ps.uploadPart(ctx, in.Image, folder, "images", now)
	if err != nil {
		return nil, fmt.Errorf("image upload: %w", err)
	}
	fileKey, err := ps.uploadPart(ctx, in.File, folder, "files", now)
	if err != nil {
		return nil, fmt.Errorf("file upload: %w", err)
	}

	p, err := ps.productRepository.CreateProduct(ctx, &domain.Product{
		Category:    in.Category,
		Name:        in.Name,
		Description: in.Description,
		Tags:        in.Tags,
		FileKey:     fileKey,
		ImageKey:    imageKey,
		FileName:    SanitizeFileName(in.File.Filename),
	})
	if err != nil {
		return nil, err
	}

	ps.mq.GetInputChan() <- mq.Event{
		Id:        uuid.New(),
		TS:        time.Now(),
		Route:     mq.RouteProductCreated,
		ProductID: p.UUID.String(),
		FileKey:   p.FileKey,
	}
	ps.mCounter.WithLabelValues("products_created_total").Inc()

	return p, nil
}

func (ps *ProductService) uploadPart(ctx context.Context, fh *multipart.FileHeader, folder, kind string, now time.Time) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	key := objectKey(folder, kind, fh.Filename, now)
	if _, err = ps.s3.Upload(ctx, data, key, fh.Header.Get("Content-Type")); err != nil {
		return "", err
	}

	return key, nil
}

func (ps *ProductService) FindByID(ctx context.Context, uuid domain.UUID) (*domain.Product, error) {
	return ps.productRepository.FetchProductByID(ctx, uuid)
}

func (ps *ProductService) ListByCategory(ctx context.Context, category string, pageSize, page int) (domain.Products, error) {
	if !domain.ValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	return ps.productRepository.FetchByCategory(ctx, category, pageSize, page)
}

func (ps *ProductService) ListAll(ctx context.Context, pageSize int) (domain.Products, error) {
	return ps.productRepository.FetchAll(ctx, pageSize)
}

// Search filters the newest searchWindow rows by a case-insensitive
// substring over name, description and tags.
func (ps *ProductService) Search(ctx context.Context, term, category string) (domain.Products, error) {
	if category != "" && !domain.ValidCategory(category) {
		return nil, ErrInvalidCategory
	}

	recent, err := ps.productRepository.FetchRecent(ctx, category, searchWindow)
	if err != nil {
		return nil, err
	}

	return domain.FilterByTerm(recent, term), nil
}

func (ps *ProductService) Popular(ctx context.Context, limit int) (domain.Products, error) {
	return ps.productRepository.FetchPopular(ctx, limit)
}

func (ps *ProductService) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if !domain.ValidCategory(p.Category) {
		return nil, ErrInvalidCategory
	}
	return ps.productRepository.UpdateProduct(ctx, p)
}

// Delete removes the catalog row and both storage objects. Object deletes
// are idempotent so an already-gone file does not fail the operation.
func (ps *ProductService) Delete(ctx context.Context, productUUID domain.UUID) error {
	p, err := ps.productRepository.FetchProductByID(ctx, productUUID)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}

	if err = ps.productRepository.DeleteProduct(ctx, productUUID); err != nil {
		return err
	}

	for _, key := range []string{p.FileKey, p.ImageKey} {
		if key == "" {
			continue
		}
		if err := ps.s3.Delete(ctx, key); err != nil {
			ps.logger.Error("failed to delete product object", zap.String("key", key), zap.Error(err))
		}
	}

	ps.mq.GetInputChan() <- mq.Event{
		Id:        uuid.New(),
		TS:        time.Now(),
		Route:     mq.RouteProductDeleted,
		ProductID: p.UUID.String(),
		FileKey:   p.FileKey,
	}

	return nil
}
