package repository

import (
	"context"
	"errors"
	"testing"

	"mushroomservice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPostRepository_ListPublishedOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com")
	published := &models.BlogPost{
		Title: "Published", Slug: "published", Content: "body",
		AuthorID: author.ID, IsPublished: true, CreatedAt: at(0),
	}
	draft := &models.BlogPost{
		Title: "Draft", Slug: "draft", Content: "body",
		AuthorID: author.ID, CreatedAt: at(5),
	}
	require.NoError(t, repo.Create(ctx, published))
	require.NoError(t, repo.Create(ctx, draft))

	visible, err := repo.List(ctx, true, 0, 0)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "published", visible[0].Slug)

	all, err := repo.List(ctx, false, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "draft", all[0].Slug, "newest first")
}

func TestPostRepository_GetBySlugHonorsPublishedOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com")
	draft := &models.BlogPost{Title: "Draft", Slug: "hidden-draft", Content: "body", AuthorID: author.ID}
	require.NoError(t, repo.Create(ctx, draft))

	_, err := repo.GetBySlug(ctx, "hidden-draft", true)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	got, err := repo.GetBySlug(ctx, "hidden-draft", false)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
	assert.Equal(t, "author@example.com", got.Author.Email)
}

func TestPostRepository_MarkPublished(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com")
	post := &models.BlogPost{Title: "Going Live", Slug: "going-live", Content: "body", AuthorID: author.ID}
	require.NoError(t, repo.Create(ctx, post))

	when := at(30)
	require.NoError(t, repo.MarkPublished(ctx, post.ID, when))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPublished)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, got.PublishedAt.Equal(when))
}

func TestPostRepository_MarkPublishedMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)

	err := repo.MarkPublished(context.Background(), 9999, at(0))
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPostRepository_CommentsCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com")
	reader := createTestUser(t, db, "reader@example.com")
	post := &models.BlogPost{Title: "Busy", Slug: "busy", Content: "body", AuthorID: author.ID, IsPublished: true}
	require.NoError(t, repo.Create(ctx, post))

	first := &models.Comment{PostID: post.ID, UserID: reader.ID, Content: "nice", IsApproved: true}
	second := &models.Comment{PostID: post.ID, UserID: reader.ID, Content: "agreed", IsApproved: true}
	require.NoError(t, comments.Create(ctx, first))
	require.NoError(t, comments.Create(ctx, second))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CommentsCount)

	// Soft-deleted comments drop out of the count.
	require.NoError(t, comments.Delete(ctx, second.ID))
	got, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentsCount)
}
