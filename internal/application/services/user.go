package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"design-market-api/internal/application/ports"
	domain "design-market-api/internal/domain/user"
)

type UserService struct {
	userRepository domain.Repository
	mCounter       *prometheus.CounterVec
}

func NewUserService(
	userRepository domain.Repository,
	mCounter *prometheus.CounterVec,
) ports.UserService {
	return &UserService{
		userRepository: userRepository,
		mCounter:       mCounter,
	}
}

// Register creates a free-tier user profile with a bcrypt password hash.
func (us *UserService) Register(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	u, err := us.userRepository.CreateUser(ctx, domain.User{
		Email:        email,
		PasswordHash: &hashStr,
		DisplayName:  displayName,
	})
	if err != nil {
		return nil, err
	}

	us.mCounter.WithLabelValues("user_created_total").Inc()

	return u, nil
}

func (us *UserService) FindUserByID(ctx context.Context, uuid domain.UUID) (*domain.User, error) {
	return us.userRepository.FetchUserByID(ctx, uuid)
}

func (us *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return us.userRepository.FetchUserByEmail(ctx, email)
}

func (us *UserService) UpdateSubscription(ctx context.Context, uuid domain.UUID, status string, end *string) (*domain.User, error) {
	u, err := us.userRepository.UpdateSubscription(ctx, uuid, status, end)
	if err != nil {
		return nil, err
	}

	us.mCounter.WithLabelValues("subscription_updated_total").Inc()

	return u, nil
}
