package user

import (
	"context"
)

type Repository interface {
	FetchUserByID(ctx context.Context, uuid UUID) (*User, error)
	FetchUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, req User) (*User, error)
	UpdateSubscription(ctx context.Context, uuid UUID, status string, end *string) (*User, error)
	// RecordDownload charges one download against the quota in a single
	// conditional update: daily_downloads resets to 1 when the stored
	// last_download_date differs from today, otherwise increments, and
	// total_downloads always increments. Returns the updated counters.
	RecordDownload(ctx context.Context, uuid UUID, today string) (*User, error)
	// RecordTotalDownload increments total_downloads only, leaving the
	// daily quota fields untouched. Used for subscriber downloads.
	RecordTotalDownload(ctx context.Context, uuid UUID) (*User, error)
}
