package service

import (
	"context"
	"strings"

	"mushroomservice/internal/models"
	"mushroomservice/internal/repository"
)

type ProductService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ListProducts returns catalog entries, optionally narrowed to one section
// or to the featured selection. The catalog is public.
func (s *ProductService) ListProducts(
	ctx context.Context, section string, featuredOnly bool,
) ([]*models.Product, error) {
	section = strings.TrimSpace(section)
	switch section {
	case "", models.ProductSectionFresh, models.ProductSectionSupplies, models.ProductSectionEquipment:
	default:
		return nil, models.NewValidationError("Section must be one of: fresh, supplies, equipment")
	}

	products, err := s.productRepo.List(ctx, section, featuredOnly)
	if err != nil {
		return nil, models.NewExternalError("store", err)
	}
	return products, nil
}

// GetProduct returns one catalog entry by SKU.
func (s *ProductService) GetProduct(ctx context.Context, sku string) (*models.Product, error) {
	product, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, storeError(err, "Product", sku)
	}
	return product, nil
}
