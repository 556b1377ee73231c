// Package seed provides database seeding utilities for development and
// deployment bootstrap: the admin account, the curated recipe library and
// the product catalog are idempotent, fake social content is dev-only.
package seed

import (
	"context"
	"fmt"
	"log"
	"strings"

	"mushroomservice/internal/models"
	"mushroomservice/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder writes bootstrap data through the repositories so the same
// defaulting and upsert rules apply as in the running service.
type Seeder struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	recipeRepo  repository.RecipeRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	productRepo repository.ProductRepository
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		recipeRepo:  repository.NewRecipeRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		productRepo: repository.NewProductRepository(db),
	}
}

// EnsureAdmins creates an account for each allow-listed admin email that
// does not already have one. The password is only a bootstrap value; it is
// expected to be rotated through the normal flow.
func (s *Seeder) EnsureAdmins(ctx context.Context, adminEmails, password string) error {
	for _, email := range strings.Split(adminEmails, ",") {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}

		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("lookup admin %s: %w", email, err)
		}
		if existing != nil {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := s.userRepo.Create(ctx, &models.User{
			Email:    email,
			Password: string(hash),
		}); err != nil {
			return fmt.Errorf("create admin %s: %w", email, err)
		}
		log.Printf("seeded admin account %s", email)
	}
	return nil
}

// SeedRecipes loads the curated recipe library. Curated recipes are not
// custom submissions and enter directly in the approved state. Existing
// titles are left alone so re-running the seeder never duplicates content.
func (s *Seeder) SeedRecipes(ctx context.Context) error {
	for _, r := range defaultRecipes() {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Where("title = ? AND is_custom = ?", r.Title, false).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		recipe := r
		if err := s.recipeRepo.Create(ctx, &recipe); err != nil {
			return fmt.Errorf("seed recipe %q: %w", r.Title, err)
		}
	}
	return nil
}

// SeedProducts upserts the product catalog by SKU.
func (s *Seeder) SeedProducts(ctx context.Context) error {
	for _, p := range catalogProducts() {
		product := p
		if err := s.productRepo.Upsert(ctx, &product); err != nil {
			return fmt.Errorf("seed product %q: %w", p.SKU, err)
		}
	}
	return nil
}

// ClearAll wipes every content table. Development use only.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.Comment{},
		&models.BlogPost{},
		&models.Recipe{},
		&models.Product{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return err
		}
	}
	log.Println("cleared all content tables")
	return nil
}

// defaultRecipes is the curated cultivation library shipped with the site.
func defaultRecipes() []models.Recipe {
	return []models.Recipe{
		{
			Title:       "Light Malt Extract Agar",
			Category:    models.RecipeCategoryAgar,
			Description: "The workhorse agar formulation for isolating and expanding cultures.",
			Ingredients: models.StringList{
				"20g agar agar",
				"20g light malt extract",
				"1L distilled water",
				"1g nutritional yeast (optional)",
			},
			Steps: models.StringList{
				"Combine dry ingredients in a flask and add water slowly while stirring.",
				"Cover the flask with foil and sterilize at 15 PSI for 30 minutes.",
				"Let cool to roughly 50C, then pour plates in still air or in front of a flow hood.",
				"Allow plates to solidify and condensation to settle before stacking.",
			},
			Status: models.RecipeStatusApproved,
		},
		{
			Title:       "Honey Liquid Culture",
			Category:    models.RecipeCategoryLiquidCulture,
			Description: "A simple 4% honey solution for expanding mycelium before grain inoculation.",
			Ingredients: models.StringList{
				"1 tbsp honey",
				"500ml distilled water",
				"Jar with self-healing injection port and air filter",
			},
			Steps: models.StringList{
				"Mix honey into the water until fully dissolved.",
				"Fill jars no more than two thirds and add a stir bar or marbles.",
				"Sterilize at 15 PSI for 20 minutes and cool completely.",
				"Inoculate from a clean agar wedge and shake daily once growth shows.",
			},
			Status: models.RecipeStatusApproved,
		},
		{
			Title:       "CVG Bulk Substrate",
			Category:    models.RecipeCategorySubstrate,
			Description: "Coir, vermiculite and gypsum at field capacity, pasteurized in a bucket.",
			Ingredients: models.StringList{
				"650g coco coir brick",
				"2 quarts vermiculite",
				"1 cup gypsum",
				"4.5L boiling water",
			},
			Steps: models.StringList{
				"Place the coir brick, vermiculite and gypsum in a large bucket.",
				"Pour the boiling water over, cover, and let sit for 4 hours.",
				"Mix thoroughly and verify field capacity with a squeeze test.",
				"Spawn to bulk at roughly 1:4 once cooled to room temperature.",
			},
			Status: models.RecipeStatusApproved,
		},
		{
			Title:       "Masters Mix",
			Category:    models.RecipeCategorySubstrate,
			Description: "50/50 hardwood sawdust and soy hulls for aggressive wood lovers like oysters.",
			Ingredients: models.StringList{
				"2.5kg hardwood fuel pellets",
				"2.5kg soy hull pellets",
				"6L water",
			},
			Steps: models.StringList{
				"Hydrate both pellet types together with the water in filter patch bags.",
				"Sterilize at 15 PSI for 2.5 hours.",
				"Cool overnight and inoculate with grain spawn at 10 percent.",
				"Colonize at 70-75F and fruit once the block consolidates.",
			},
			Status: models.RecipeStatusApproved,
		},
		{
			Title:       "Rye Grain Spawn Preparation",
			Category:    models.RecipeCategoryOther,
			Description: "Preparing rye berries for spawn jars without bursting kernels.",
			Ingredients: models.StringList{
				"1kg rye berries",
				"Water to cover plus 5cm",
				"1 tsp gypsum",
			},
			Steps: models.StringList{
				"Soak the rye for 12 to 24 hours to wake up endospores.",
				"Simmer 15 minutes until a few kernels begin to split.",
				"Drain and steam-dry until the surface is dry to the touch.",
				"Load jars two-thirds full and sterilize at 15 PSI for 90 minutes.",
			},
			Status: models.RecipeStatusApproved,
		},
	}
}

// catalogProducts is the storefront catalog the embedded cart widget sells.
func catalogProducts() []models.Product {
	return []models.Product{
		{
			SKU:         "blue-oyster-fresh",
			Name:        "Blue Oyster Mushrooms",
			Description: "Fresh, locally grown Blue Oyster mushrooms",
			Price:       12.99,
			WeightGrams: 454,
			MaxQuantity: 10,
			Section:     models.ProductSectionFresh,
			Featured:    true,
		},
		{
			SKU:         "coir",
			Name:        "Coir Block",
			Description: "Coir Block",
			Price:       4.99,
			WeightGrams: 1340,
			MaxQuantity: 8,
			Section:     models.ProductSectionFresh,
			Featured:    true,
		},
		{
			SKU:         "grain-spawn-sterile",
			Name:        "Sterilized Grain Spawn",
			Description: "Professional grade grain spawn bags",
			Price:       24.99,
			WeightGrams: 1134,
			MaxQuantity: 20,
			Section:     models.ProductSectionSupplies,
			Featured:    true,
		},
		{
			SKU:         "substrate-blocks",
			Name:        "Substrate Blocks",
			Description: "Ready-to-fruit substrate blocks",
			Price:       19.99,
			WeightGrams: 2268,
			MaxQuantity: 10,
			Section:     models.ProductSectionSupplies,
		},
		{
			SKU:         "pressure-cooker-23qt",
			Name:        "Pressure Cooker",
			Description: "23qt Pressure cooker for sterilization",
			Price:       299.99,
			WeightGrams: 6804,
			MaxQuantity: 3,
			Section:     models.ProductSectionEquipment,
		},
	}
}
