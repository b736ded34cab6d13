package user

import (
	"time"

	"design-market-api/internal/domain/entitlement"
	domain "design-market-api/internal/domain/user"
)

// ToProfile reports the daily counter as the caller experiences it: zero
// once the calendar day has rolled over, whatever the stored row says.
func ToProfile(u domain.User, now time.Time) Profile {
	return Profile{
		UUID:               u.UUID.String(),
		Email:              u.Email,
		DisplayName:        u.DisplayName,
		Role:               u.Role,
		SubscriptionStatus: u.SubscriptionStatus,
		SubscriptionEnd:    u.SubscriptionEnd,
		DailyDownloads:     entitlement.EffectiveDailyCount(&u, now),
		TotalDownloads:     u.TotalDownloads,
	}
}
