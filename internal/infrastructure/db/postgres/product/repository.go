package product

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"design-market-api/internal/domain/product"
	"design-market-api/internal/infrastructure/db/postgres"
)

var ErrNotFound = errors.New("product not found")

type Repository struct {
	db postgres.Querier
}

func NewRepository(db postgres.Querier) product.Repository {
	return &Repository{db: db}
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	p := new(Product)
	err := row.Scan(
		&p.ID,
		&p.UUID,
		&p.Category,

		&p.Name,
		&p.Description,
		&p.Tags,

		&p.FileKey,
		&p.ImageKey,
		&p.FileName,

		&p.Downloads,

		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(p), nil
}

func (r *Repository) collect(rows pgx.Rows) (product.Products, error) {
	defer rows.Close()

	var ps Products
	for rows.Next() {
		p := new(Product)

		if err := rows.Scan(
			&p.ID,
			&p.UUID,
			&p.Category,

			&p.Name,
			&p.Description,
			&p.Tags,

			&p.FileKey,
			&p.ImageKey,
			&p.FileName,

			&p.Downloads,

			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}

		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&ps), nil
}

func (r *Repository) CreateProduct(ctx context.Context, req *product.Product) (*product.Product, error) {
	return scanProduct(r.db.QueryRow(
		ctx,
		InsertProduct,
		req.Category, req.Name, req.Description, req.Tags, req.FileKey, req.ImageKey, req.FileName,
	))
}

func (r *Repository) FetchProductByID(ctx context.Context, uuid product.UUID) (*product.Product, error) {
	return scanProduct(r.db.QueryRow(ctx, SelectProductByID, uuid.String()))
}

func (r *Repository) FetchByCategory(ctx context.Context, category string, pageSize, page int) (product.Products, error) {
	rows, err := r.db.Query(ctx, SelectByCategory, category, pageSize, page)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *Repository) FetchAll(ctx context.Context, pageSize int) (product.Products, error) {
	rows, err := r.db.Query(ctx, SelectAll, pageSize)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *Repository) FetchRecent(ctx context.Context, category string, limit int) (product.Products, error) {
	rows, err := r.db.Query(ctx, SelectRecent, category, limit)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *Repository) FetchPopular(ctx context.Context, limit int) (product.Products, error) {
	rows, err := r.db.Query(ctx, SelectPopular, limit)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *Repository) UpdateProduct(ctx context.Context, req *product.Product) (*product.Product, error) {
	return scanProduct(r.db.QueryRow(
		ctx,
		UpdateProductByUUID,
		req.UUID.String(), req.Category, req.Name, req.Description, req.Tags, req.FileKey, req.ImageKey, req.FileName,
	))
}

func (r *Repository) DeleteProduct(ctx context.Context, uuid product.UUID) error {
	tag, err := r.db.Exec(ctx, DeleteProductByUUID, uuid.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) IncrementDownloads(ctx context.Context, uuid product.UUID) (int64, error) {
	var downloads int64
	err := r.db.QueryRow(ctx, IncrementDownloadsByUUID, uuid.String()).Scan(&downloads)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return downloads, nil
}
