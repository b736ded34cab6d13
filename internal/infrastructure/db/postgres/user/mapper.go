package user

import (
	domain "design-market-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	var lastDate string
	if model.LastDownloadDate != nil {
		lastDate = *model.LastDownloadDate
	}

	return &domain.User{
		UUID:         model.UUID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Role:         model.Role,
		DisplayName:  model.DisplayName,

		SubscriptionStatus: model.SubscriptionStatus,
		SubscriptionEnd:    model.SubscriptionEnd,

		DailyDownloads:   model.DailyDownloads,
		LastDownloadDate: lastDate,
		TotalDownloads:   model.TotalDownloads,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
