package user

type (
	UpdateSubscriptionRequest struct {
		Status          string  `json:"status"`
		SubscriptionEnd *string `json:"subscription_end,omitempty"`
	}
)
