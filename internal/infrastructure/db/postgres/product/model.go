package product

import (
	"time"

	"github.com/google/uuid"
)

type (
	Product struct {
		ID       uint64
		UUID     uuid.UUID
		Category string

		Name        string
		Description string
		Tags        []string

		FileKey  string
		ImageKey string
		FileName string

		Downloads int64

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Products []*Product
)
