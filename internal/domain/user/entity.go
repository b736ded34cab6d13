package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	SubscriptionFree   = "free"
	SubscriptionActive = "active"
)

type (
	ID   uint64
	UUID = uuid.UUID
	User struct {
		UUID         UUID
		Email        string
		PasswordHash *string
		Role         string
		DisplayName  string

		SubscriptionStatus string
		SubscriptionEnd    *time.Time

		DailyDownloads   int
		LastDownloadDate string // YYYY-MM-DD of the last counted download
		TotalDownloads   int64

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Users []*User
)

// Subscribed reports whether the subscription grants unlimited downloads at
// the given moment: status must be active and the end date, if set, must be
// in the future.
func (u *User) Subscribed(now time.Time) bool {
	if u.SubscriptionStatus != SubscriptionActive {
		return false
	}
	return u.SubscriptionEnd == nil || u.SubscriptionEnd.After(now)
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
