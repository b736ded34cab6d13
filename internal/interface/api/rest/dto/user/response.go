package user

import "time"

type (
	Profile struct {
		UUID               string     `json:"uuid"`
		Email              string     `json:"email"`
		DisplayName        string     `json:"display_name"`
		Role               string     `json:"role"`
		SubscriptionStatus string     `json:"subscription_status"`
		SubscriptionEnd    *time.Time `json:"subscription_end,omitempty"`
		DailyDownloads     int        `json:"daily_downloads"`
		TotalDownloads     int64      `json:"total_downloads"`
	}
)
