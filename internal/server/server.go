// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "mushroomservice/docs" // swagger docs
	"mushroomservice/internal/cache"
	"mushroomservice/internal/config"
	"mushroomservice/internal/database"
	"mushroomservice/internal/estimator"
	"mushroomservice/internal/identity"
	"mushroomservice/internal/middleware"
	"mushroomservice/internal/models"
	"mushroomservice/internal/notifications"
	"mushroomservice/internal/repository"
	"mushroomservice/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	policy identity.Policy

	userRepo    repository.UserRepository
	recipeRepo  repository.RecipeRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	productRepo repository.ProductRepository

	notifier *notifications.Notifier

	userService    *service.UserService
	recipeService  *service.RecipeService
	postService    *service.PostService
	commentService *service.CommentService
	productService *service.ProductService
	priceService   *service.PriceService
	feedService    *service.FeedService
	imageService   *service.ImageService
	estimator      *estimator.Estimator
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	var completions estimator.CompletionClient
	if cfg.GenAIAPIKey != "" {
		client, err := estimator.NewGenAIClient(cfg.GenAIAPIKey, cfg.GenAIModel)
		if err != nil {
			return nil, fmt.Errorf("estimator client init failed: %w", err)
		}
		completions = client
	}

	return NewServerWithDeps(cfg, db, redisClient, completions)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding. A nil completions client leaves the
// estimator endpoint responding with an external-service error.
func NewServerWithDeps(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	completions estimator.CompletionClient,
) (*Server, error) {
	policy := identity.NewAllowListPolicy(cfg.AdminEmails)
	middleware.InitMiddleware(cfg, policy)

	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	productRepo := repository.NewProductRepository(db)

	prom := middleware.InitMetrics("mushroomservice-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		policy:         policy,
		userRepo:       userRepo,
		recipeRepo:     recipeRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		productRepo:    productRepo,
	}

	server.notifier = notifications.NewNotifier(redisClient)
	server.feedService = service.NewFeedService(postRepo, policy, cfg.FeedSnapshotLimit)

	events := &realtimeEvents{
		hub:      server.feedService.Hub(),
		notifier: server.notifier,
	}

	priceTTL := time.Duration(cfg.PriceCacheTTLMinutes) * time.Minute
	server.userService = service.NewUserService(userRepo)
	server.recipeService = service.NewRecipeService(recipeRepo, policy, events)
	server.postService = service.NewPostService(postRepo, policy, events)
	server.commentService = service.NewCommentService(commentRepo, postRepo, policy, events)
	server.productService = service.NewProductService(productRepo)
	server.priceService = service.NewPriceService(cache.NewPriceCache(redisClient, priceTTL), policy)
	server.imageService = service.NewImageService(cfg.UploadDir)
	server.estimator = estimator.New(completions)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// OpenTelemetry spans per request
	app.Use(middleware.TracingMiddleware())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	// Resolve the acting identity once per request. Handlers read the
	// Actor from locals and pass it to services explicitly.
	app.Use(middleware.ActorMiddleware())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Mushroom Service Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Featured-image uploads are served from the upload directory.
	app.Static("/media", s.config.UploadDir)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", middleware.AuthRequired, s.Me)

	// Recipe routes. Specific paths before generic /:id.
	recipes := api.Group("/recipes")
	recipes.Get("/", s.GetRecipes)
	recipes.Get("/categories", s.GetRecipeCategoryCounts)
	recipes.Post("/", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "submit_recipe"), s.SubmitRecipe)
	recipes.Post("/:id/approve", middleware.AdminRequired, s.ApproveRecipe)
	recipes.Post("/:id/reject", middleware.AdminRequired, s.RejectRecipe)
	recipes.Delete("/:id", middleware.AdminRequired, s.DeleteRecipe)
	recipes.Get("/:id", s.GetRecipe)

	// Blog routes. Listing and detail are actor-filtered, mutation is
	// admin only. Specific /:id/:resource routes before generic /:id.
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", middleware.AdminRequired, s.CreatePost)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 5, time.Minute, "create_comment"), s.CreateComment)
	posts.Post("/:id/publish", middleware.AdminRequired, s.PublishPost)
	posts.Post("/:id/image", middleware.AdminRequired, s.UploadPostImage)
	posts.Put("/:id", middleware.AdminRequired, s.UpdatePost)
	posts.Delete("/:id", middleware.AdminRequired, s.DeletePost)
	posts.Get("/:slug", s.GetPost)

	// Comment moderation
	api.Delete("/comments/:id", middleware.AdminRequired, s.DeleteComment)

	// Product catalog
	products := api.Group("/products")
	products.Get("/", s.GetProducts)
	products.Get("/:sku", s.GetProduct)

	// Market prices
	prices := api.Group("/prices")
	prices.Get("/", s.GetPrices)
	prices.Post("/refresh", middleware.AdminRequired, s.RefreshPrices)

	// Colonization estimator
	api.Post("/estimator", middleware.RateLimit(
		s.redis, 10, time.Minute, "estimator"), s.EstimateColonization)

	// Live feed WebSocket
	api.Get("/ws/feed", s.FeedUpgradeRequired, s.FeedWebSocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is optional: prices and cross-instance feed signals
		// degrade, the rest of the API keeps working.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Mushroom Service API",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "Mushroom Service API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire the feed hub to the Redis subscriber so content changes on
	// other instances rebuild our snapshots too.
	hub := s.feedService.Hub()
	go func() {
		if err := hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			log.Printf("failed to start %s wiring: %v", hub.Name(), err)
		}
	}()

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the wiring goroutine
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	// Shutdown the HTTP/WS server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close feed subscriptions gracefully
	if s.feedService != nil {
		if err := s.feedService.Shutdown(ctx); err != nil {
			log.Printf("error shutting down feed hub: %v", err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
