package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mushroomservice/internal/identity"
	"mushroomservice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminActor  = identity.Actor{UserID: 1, Email: "admin@mushroomservice.com"}
	memberActor = identity.Actor{UserID: 2, Email: "member@example.com"}
	anonActor   = identity.Anonymous

	testPolicy = identity.NewAllowListPolicy("admin@mushroomservice.com")
)

// eventsRecorder captures content-change signals.
type eventsRecorder struct {
	mu    sync.Mutex
	kinds []string
}

func (e *eventsRecorder) ContentChanged(_ context.Context, kind string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.kinds = append(e.kinds, kind)
}

func (e *eventsRecorder) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.kinds...)
}

// recipeRepoStub is a stub for repository.RecipeRepository.
type recipeRepoStub struct {
	createFn       func(context.Context, *models.Recipe) error
	getByIDFn      func(context.Context, uint) (*models.Recipe, error)
	listFn         func(context.Context, string) ([]*models.Recipe, error)
	updateStatusFn func(context.Context, uint, string) error
	deleteFn       func(context.Context, uint) error
}

func (s *recipeRepoStub) Create(ctx context.Context, r *models.Recipe) error {
	return s.createFn(ctx, r)
}
func (s *recipeRepoStub) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	return s.getByIDFn(ctx, id)
}
func (s *recipeRepoStub) List(ctx context.Context, status string) ([]*models.Recipe, error) {
	return s.listFn(ctx, status)
}
func (s *recipeRepoStub) UpdateStatus(ctx context.Context, id uint, status string) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *recipeRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopRecipeRepo() *recipeRepoStub {
	return &recipeRepoStub{
		createFn: func(_ context.Context, r *models.Recipe) error { r.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Recipe, error) {
			return &models.Recipe{ID: id, Status: models.RecipeStatusPending}, nil
		},
		listFn:         func(_ context.Context, _ string) ([]*models.Recipe, error) { return nil, nil },
		updateStatusFn: func(_ context.Context, _ uint, _ string) error { return nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.BlogPost) error
	getByIDFn       func(context.Context, uint) (*models.BlogPost, error)
	getBySlugFn     func(context.Context, string, bool) (*models.BlogPost, error)
	listFn          func(context.Context, bool, int, int) ([]*models.BlogPost, error)
	updateFn        func(context.Context, *models.BlogPost) error
	markPublishedFn func(context.Context, uint, time.Time) error
	deleteFn        func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, p *models.BlogPost) error {
	return s.createFn(ctx, p)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error) {
	return s.getBySlugFn(ctx, slug, publishedOnly)
}
func (s *postRepoStub) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*models.BlogPost, error) {
	return s.listFn(ctx, publishedOnly, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, p *models.BlogPost) error {
	return s.updateFn(ctx, p)
}
func (s *postRepoStub) MarkPublished(ctx context.Context, id uint, at time.Time) error {
	return s.markPublishedFn(ctx, id, at)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.BlogPost) error { p.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.BlogPost, error) {
			return &models.BlogPost{ID: id, IsPublished: true}, nil
		},
		getBySlugFn: func(_ context.Context, slug string, _ bool) (*models.BlogPost, error) {
			return &models.BlogPost{ID: 1, Slug: slug, IsPublished: true}, nil
		},
		listFn:          func(_ context.Context, _ bool, _, _ int) ([]*models.BlogPost, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.BlogPost) error { return nil },
		markPublishedFn: func(_ context.Context, _ uint, _ time.Time) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, bool) ([]*models.Comment, error)
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, approvedOnly bool) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, approvedOnly)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error { c.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByPostFn: func(_ context.Context, _ uint, _ bool) ([]*models.Comment, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// productRepoStub is a stub for repository.ProductRepository.
type productRepoStub struct {
	upsertFn   func(context.Context, *models.Product) error
	getBySKUFn func(context.Context, string) (*models.Product, error)
	listFn     func(context.Context, string, bool) ([]*models.Product, error)
}

func (s *productRepoStub) Upsert(ctx context.Context, p *models.Product) error {
	return s.upsertFn(ctx, p)
}
func (s *productRepoStub) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return s.getBySKUFn(ctx, sku)
}
func (s *productRepoStub) List(ctx context.Context, section string, featuredOnly bool) ([]*models.Product, error) {
	return s.listFn(ctx, section, featuredOnly)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:     func(_ context.Context, u *models.User) error { u.ID = 7; return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
	}
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeUnauthorized)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeNotFound)
}
