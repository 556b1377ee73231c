package repository

import (
	"context"
	"errors"

	"mushroomservice/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines interface for catalog operations
type ProductRepository interface {
	// Upsert creates the product or updates the existing row with the same
	// SKU; seeding runs it repeatedly without duplicating the catalog.
	Upsert(ctx context.Context, product *models.Product) error
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	// List returns products in a section, or all products when section is
	// empty. Featured=true narrows to the home page selection.
	List(ctx context.Context, section string, featuredOnly bool) ([]*models.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Upsert(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "price", "weight_grams",
			"dimensions", "max_quantity", "image_url", "section", "featured",
		}),
	}).Create(product).Error
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, section string, featuredOnly bool) ([]*models.Product, error) {
	var products []*models.Product
	q := r.db.WithContext(ctx).Order("name asc")
	if section != "" {
		q = q.Where("section = ?", section)
	}
	if featuredOnly {
		q = q.Where("featured = ?", true)
	}
	err := q.Find(&products).Error
	return products, err
}
