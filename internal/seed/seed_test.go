package seed

import (
	"context"
	"testing"

	"mushroomservice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.BlogPost{},
		&models.Comment{},
		&models.Product{},
	))
	return db
}

func TestEnsureAdminsIsIdempotent(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)
	ctx := context.Background()

	emails := "admin@mushroomservice.com, second@mushroomservice.com"
	require.NoError(t, s.EnsureAdmins(ctx, emails, "Bootstrap#Pass1"))
	require.NoError(t, s.EnsureAdmins(ctx, emails, "Bootstrap#Pass1"))

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestSeedRecipesCuratedAndApproved(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)
	ctx := context.Background()

	require.NoError(t, s.SeedRecipes(ctx))
	require.NoError(t, s.SeedRecipes(ctx))

	var recipes []models.Recipe
	require.NoError(t, db.Find(&recipes).Error)
	require.Len(t, recipes, 5)
	for _, r := range recipes {
		assert.False(t, r.IsCustom, r.Title)
		assert.Equal(t, models.RecipeStatusApproved, r.Status, r.Title)
		assert.Nil(t, r.UserID)
	}
}

func TestSeedProductsUpsertsBySKU(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)
	ctx := context.Background()

	require.NoError(t, s.SeedProducts(ctx))
	require.NoError(t, s.SeedProducts(ctx))

	var count int64
	db.Model(&models.Product{}).Count(&count)
	assert.EqualValues(t, 5, count)

	var oyster models.Product
	require.NoError(t, db.Where("sku = ?", "blue-oyster-fresh").First(&oyster).Error)
	assert.Equal(t, 12.99, oyster.Price)
	assert.Equal(t, 454, oyster.WeightGrams)
	assert.Equal(t, 10, oyster.MaxQuantity)
}

func TestDevContent(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)
	ctx := context.Background()

	require.NoError(t, s.DevContent(ctx, 5))

	var userCount, postCount, pendingCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.BlogPost{}).Where("is_published = ?", true).Count(&postCount)
	db.Model(&models.Recipe{}).Where("status = ?", models.RecipeStatusPending).Count(&pendingCount)

	assert.EqualValues(t, 5, userCount)
	assert.EqualValues(t, 3, postCount)
	assert.EqualValues(t, 3, pendingCount)
}
