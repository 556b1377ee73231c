package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mushroomservice/internal/cache"
	"mushroomservice/internal/config"
	"mushroomservice/internal/estimator"
	"mushroomservice/internal/identity"
	"mushroomservice/internal/middleware"
	"mushroomservice/internal/models"
	"mushroomservice/internal/repository"
	"mushroomservice/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testAdminEmail = "admin@mushroomservice.com"

var (
	testAdmin  = identity.Actor{UserID: 1, Email: testAdminEmail}
	testMember = identity.Actor{UserID: 2, Email: "member@example.com"}
)

func setupServerTestDB(t *testing.T) *gorm.DB {
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

// newTestServer wires a Server against sqlite with no Redis and no
// completion client.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	db := setupServerTestDB(t)
	cfg := &config.Config{
		JWTSecret:         "test_secret",
		AdminEmails:       testAdminEmail,
		UploadDir:         t.TempDir(),
		FeedSnapshotLimit: 50,
	}
	policy := identity.NewAllowListPolicy(cfg.AdminEmails)
	middleware.InitMiddleware(cfg, policy)

	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	productRepo := repository.NewProductRepository(db)

	feedService := service.NewFeedService(postRepo, policy, cfg.FeedSnapshotLimit)

	s := &Server{
		config:         cfg,
		db:             db,
		policy:         policy,
		userRepo:       userRepo,
		recipeRepo:     recipeRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		productRepo:    productRepo,
		feedService:    feedService,
		userService:    service.NewUserService(userRepo),
		recipeService:  service.NewRecipeService(recipeRepo, policy, nil),
		postService:    service.NewPostService(postRepo, policy, nil),
		commentService: service.NewCommentService(commentRepo, postRepo, policy, nil),
		productService: service.NewProductService(productRepo),
		priceService:   service.NewPriceService(cache.NewPriceCache(nil, time.Minute), policy),
		imageService:   service.NewImageService(cfg.UploadDir),
		estimator:      estimator.New(nil),
	}
	t.Cleanup(func() { _ = feedService.Shutdown(context.Background()) })
	return s
}

// asActor stores the given actor in locals the way ActorMiddleware would.
func asActor(actor identity.Actor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("actor", actor)
		if actor.Authenticated() {
			c.Locals("userID", actor.UserID)
		}
		return c.Next()
	}
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
