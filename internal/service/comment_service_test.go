package service

import (
	"context"
	"strings"
	"testing"

	"mushroomservice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentService_PostComment_RequiresSignIn(t *testing.T) {
	t.Parallel()

	storeTouched := false
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.BlogPost, error) {
		storeTouched = true
		return &models.BlogPost{ID: id, IsPublished: true}, nil
	}
	commentRepo := noopCommentRepo()
	commentRepo.createFn = func(_ context.Context, _ *models.Comment) error {
		storeTouched = true
		return nil
	}
	svc := NewCommentService(commentRepo, postRepo, testPolicy, nil)

	_, err := svc.PostComment(context.Background(), anonActor, 1, "hello")
	assertUnauthorizedError(t, err)
	assert.Contains(t, err.Error(), "sign in")
	assert.False(t, storeTouched, "anonymous comments never reach the store")
}

func TestCommentService_PostComment_ContentRules(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo(), noopPostRepo(), testPolicy, nil)
	ctx := context.Background()

	_, err := svc.PostComment(ctx, memberActor, 1, "   ")
	assertValidationError(t, err)

	_, err = svc.PostComment(ctx, memberActor, 1, strings.Repeat("x", models.MaxCommentLen+1))
	assertValidationError(t, err)

	// Exactly at the limit is fine.
	_, err = svc.PostComment(ctx, memberActor, 1, strings.Repeat("x", models.MaxCommentLen))
	assert.NoError(t, err)

	// The limit counts characters, not bytes. 1000 CJK runes are 3000
	// bytes and still within bounds.
	_, err = svc.PostComment(ctx, memberActor, 1, strings.Repeat("菌", models.MaxCommentLen))
	assert.NoError(t, err)

	_, err = svc.PostComment(ctx, memberActor, 1, strings.Repeat("菌", models.MaxCommentLen+1))
	assertValidationError(t, err)
}

func TestCommentService_PostComment_TrimsAndApproves(t *testing.T) {
	t.Parallel()

	var stored *models.Comment
	commentRepo := noopCommentRepo()
	commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 8
		stored = c
		return nil
	}
	events := &eventsRecorder{}
	svc := NewCommentService(commentRepo, noopPostRepo(), testPolicy, events)

	_, err := svc.PostComment(context.Background(), memberActor, 1, "  great write-up  ")
	require.NoError(t, err)
	assert.Equal(t, "great write-up", stored.Content)
	assert.True(t, stored.IsApproved)
	assert.Equal(t, memberActor.UserID, stored.UserID)
	assert.Equal(t, []string{"comment_posted"}, events.all())
}

func TestCommentService_PostComment_DraftPostHiddenFromMembers(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.BlogPost, error) {
		return &models.BlogPost{ID: id, IsPublished: false}, nil
	}
	svc := NewCommentService(noopCommentRepo(), postRepo, testPolicy, nil)
	ctx := context.Background()

	_, err := svc.PostComment(ctx, memberActor, 1, "hi")
	assertNotFoundError(t, err)

	_, err = svc.PostComment(ctx, adminActor, 1, "hi")
	assert.NoError(t, err, "admins can comment on drafts")
}

func TestCommentService_PostComment_MissingPost(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.BlogPost, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewCommentService(noopCommentRepo(), postRepo, testPolicy, nil)

	_, err := svc.PostComment(context.Background(), memberActor, 99, "hi")
	assertNotFoundError(t, err)
}

func TestCommentService_ListComments_ApprovalFilterByRole(t *testing.T) {
	t.Parallel()

	var askedApprovedOnly bool
	commentRepo := noopCommentRepo()
	commentRepo.listByPostFn = func(_ context.Context, _ uint, approvedOnly bool) ([]*models.Comment, error) {
		askedApprovedOnly = approvedOnly
		return nil, nil
	}
	svc := NewCommentService(commentRepo, noopPostRepo(), testPolicy, nil)
	ctx := context.Background()

	_, err := svc.ListComments(ctx, memberActor, 1)
	require.NoError(t, err)
	assert.True(t, askedApprovedOnly)

	_, err = svc.ListComments(ctx, adminActor, 1)
	require.NoError(t, err)
	assert.False(t, askedApprovedOnly)
}

func TestCommentService_DeleteComment_AdminOnly(t *testing.T) {
	t.Parallel()

	deleted := false
	commentRepo := noopCommentRepo()
	commentRepo.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}
	events := &eventsRecorder{}
	svc := NewCommentService(commentRepo, noopPostRepo(), testPolicy, events)
	ctx := context.Background()

	err := svc.DeleteComment(ctx, memberActor, 8)
	assertUnauthorizedError(t, err)
	assert.False(t, deleted)

	require.NoError(t, svc.DeleteComment(ctx, adminActor, 8))
	assert.True(t, deleted)
	assert.Equal(t, []string{"comment_deleted"}, events.all())
}
