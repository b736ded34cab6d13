package ports

import (
	"context"

	"design-market-api/internal/domain/user"
)

type UserService interface {
	Register(ctx context.Context, email, password, displayName string) (*user.User, error)
	FindUserByID(ctx context.Context, uuid user.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	UpdateSubscription(ctx context.Context, uuid user.UUID, status string, end *string) (*user.User, error)
}
