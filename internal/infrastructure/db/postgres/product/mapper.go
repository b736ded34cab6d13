package product

import (
	domain "design-market-api/internal/domain/product"
)

func fromDBModel(model *Product) *domain.Product {
	return &domain.Product{
		UUID:        model.UUID,
		Category:    model.Category,
		Name:        model.Name,
		Description: model.Description,
		Tags:        model.Tags,

		FileKey:  model.FileKey,
		ImageKey: model.ImageKey,
		FileName: model.FileName,

		Downloads: model.Downloads,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func fromDBModels(models *Products) domain.Products {
	ps := make(domain.Products, len(*models))
	for idx, p := range *models {
		ps[idx] = fromDBModel(p)
	}

	return ps
}
