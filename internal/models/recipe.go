package models

import (
	"time"

	"gorm.io/gorm"
)

// Recipe lifecycle statuses. A freshly submitted recipe is always pending;
// approve and reject are terminal until the recipe is deleted outright.
const (
	RecipeStatusPending  = "pending"
	RecipeStatusApproved = "approved"
	RecipeStatusRejected = "rejected"
)

// Recipe categories. "all" is not a stored category; listings treat it as
// the absence of a category filter.
const (
	RecipeCategoryAgar          = "agar"
	RecipeCategoryLiquidCulture = "liquid-culture"
	RecipeCategorySubstrate     = "substrate"
	RecipeCategoryOther         = "other"
)

// RecipeCategories lists every storable category.
var RecipeCategories = []string{
	RecipeCategoryAgar,
	RecipeCategoryLiquidCulture,
	RecipeCategorySubstrate,
	RecipeCategoryOther,
}

// ValidRecipeCategory reports whether s is a storable category value.
func ValidRecipeCategory(s string) bool {
	for _, c := range RecipeCategories {
		if c == s {
			return true
		}
	}
	return false
}

// Recipe represents a cultivation recipe, either curated seed content
// (IsCustom=false) or a user submission (IsCustom=true).
type Recipe struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Category    string         `gorm:"not null;index" json:"category"`
	Description string         `gorm:"type:text" json:"description"`
	Ingredients StringList     `gorm:"type:text;serializer:json" json:"ingredients"`
	Steps       StringList     `gorm:"type:text;serializer:json" json:"steps"`
	Status      string         `gorm:"not null;default:pending;index" json:"status"`
	IsCustom    bool           `json:"is_custom"`
	UserID      *uint          `gorm:"index" json:"user_id,omitempty"`
	User        *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// StringList is a JSON-serialized string slice column.
type StringList []string

// AfterFind applies the read-path defaulting rules so rows written by older
// clients never surface undefined values: missing status reads as pending,
// missing category as other, missing created-at as now.
func (r *Recipe) AfterFind(_ *gorm.DB) error {
	if r.Status == "" {
		r.Status = RecipeStatusPending
	}
	if r.Category == "" {
		r.Category = RecipeCategoryOther
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}
