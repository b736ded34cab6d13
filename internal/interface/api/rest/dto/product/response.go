package product

import "time"

type (
	Product struct {
		UUID        string    `json:"uuid"`
		Category    string    `json:"category"`
		Name        string    `json:"name"`
		Description string    `json:"description,omitempty"`
		Tags        []string  `json:"tags,omitempty"`
		ImageKey    string    `json:"image_key"`
		FileName    string    `json:"file_name"`
		Downloads   int64     `json:"downloads"`
		CreatedAt   time.Time `json:"created_at"`
	}
	Products     []Product
	ResponseData struct {
		Data Products `json:"data"`
	}
)
