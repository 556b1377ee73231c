package models

import (
	"time"

	"gorm.io/gorm"
)

// Product catalog sections.
const (
	ProductSectionFresh     = "fresh"
	ProductSectionSupplies  = "supplies"
	ProductSectionEquipment = "equipment"
)

// Product is a catalog entry. The attribute set mirrors what the embedded
// cart widget consumes: sku, name, price, weight, dimensions and a max
// order quantity. Checkout itself happens entirely in the widget.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SKU         string         `gorm:"uniqueIndex;not null" json:"sku"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	WeightGrams int            `json:"weight_grams"`
	Dimensions  string         `json:"dimensions,omitempty"`
	MaxQuantity int            `json:"max_quantity"`
	ImageURL    string         `json:"image_url,omitempty"`
	Section     string         `gorm:"index" json:"section"`
	Featured    bool           `json:"featured"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
