package database

import (
	"fmt"

	"mushroomservice/internal/models"

	"gorm.io/gorm"
)

// AllModels returns every model registered for auto-migration, in an order
// that satisfies foreign key creation.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Recipe{},
		&models.BlogPost{},
		&models.Comment{},
		&models.Product{},
	}
}

// Migrate runs gorm auto-migration for every registered model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}
