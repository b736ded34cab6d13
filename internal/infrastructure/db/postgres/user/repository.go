package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"design-market-api/internal/domain/user"
	"design-market-api/internal/infrastructure/db/postgres"
)

var ErrEmailAlreadyExists = errors.New("email already exists")

type Repository struct {
	db postgres.Querier
}

func NewRepository(db postgres.Querier) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) scanUser(row pgx.Row) (*user.User, error) {
	u := new(User)
	err := row.Scan(
		&u.ID,
		&u.UUID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.DisplayName,

		&u.SubscriptionStatus,
		&u.SubscriptionEnd,

		&u.DailyDownloads,
		&u.LastDownloadDate,
		&u.TotalDownloads,

		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) FetchUserByID(ctx context.Context, uuid user.UUID) (*user.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, SelectUserByID, uuid.String()))
}

func (r *Repository) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, SelectUserByEmail, email))
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	u, err := r.scanUser(r.db.QueryRow(
		ctx,
		InsertUser,
		req.Email, req.PasswordHash, req.DisplayName,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return u, nil
}

func (r *Repository) UpdateSubscription(ctx context.Context, uuid user.UUID, status string, end *string) (*user.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, UpdateSubscriptionByUUID, uuid.String(), status, end))
}

func (r *Repository) RecordDownload(ctx context.Context, uuid user.UUID, today string) (*user.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, RecordDownloadByUUID, uuid.String(), today))
}

func (r *Repository) RecordTotalDownload(ctx context.Context, uuid user.UUID) (*user.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, RecordTotalDownloadByUUID, uuid.String()))
}
