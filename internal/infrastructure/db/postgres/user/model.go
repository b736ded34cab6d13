package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		ID           uint64
		UUID         uuid.UUID
		Email        string
		PasswordHash *string
		Role         string
		DisplayName  string

		SubscriptionStatus string
		SubscriptionEnd    *time.Time

		DailyDownloads   int
		LastDownloadDate *string
		TotalDownloads   int64

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Users []*User
)
