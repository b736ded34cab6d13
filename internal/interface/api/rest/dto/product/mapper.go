package product

import (
	domain "design-market-api/internal/domain/product"
)

// ToResponseProduct deliberately omits FileKey: the storage key of the
// design file is only ever handed out through the download endpoints.
func ToResponseProduct(pDomain domain.Product) Product {
	return Product{
		UUID:        pDomain.UUID.String(),
		Category:    pDomain.Category,
		Name:        pDomain.Name,
		Description: pDomain.Description,
		Tags:        pDomain.Tags,
		ImageKey:    pDomain.ImageKey,
		FileName:    pDomain.FileName,
		Downloads:   pDomain.Downloads,
		CreatedAt:   pDomain.CreatedAt,
	}
}

func ToResponseProducts(pDomain domain.Products) Products {
	ps := make(Products, len(pDomain))
	for idx, p := range pDomain {
		ps[idx] = ToResponseProduct(*p)
	}

	return ps
}
