package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"mushroomservice/internal/identity"
	"mushroomservice/internal/models"
	"mushroomservice/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	policy      identity.Policy
	events      ContentEvents
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	policy identity.Policy,
	events ContentEvents,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		policy:      policy,
		events:      events,
	}
}

// PostComment adds a comment to a post. Anonymous actors are refused before
// anything touches the store. Content is trimmed and capped.
func (s *CommentService) PostComment(
	ctx context.Context, actor identity.Actor, postID uint, content string,
) (*models.Comment, error) {
	if !actor.Authenticated() {
		return nil, models.NewUnauthorizedError("Please sign in to comment")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLen {
		return nil, models.NewValidationError(
			fmt.Sprintf("Comment too long (max %d characters)", models.MaxCommentLen))
	}

	if _, err := s.visiblePost(ctx, actor, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:     postID,
		UserID:     actor.UserID,
		Content:    content,
		IsApproved: true,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewExternalError("store", err)
	}

	if s.events != nil {
		s.events.ContentChanged(ctx, "comment_posted")
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, storeError(err, "Comment", comment.ID)
	}
	return created, nil
}

// ListComments returns a post's comments newest-first. Admins see every
// comment; everyone else sees approved ones.
func (s *CommentService) ListComments(
	ctx context.Context, actor identity.Actor, postID uint,
) ([]*models.Comment, error) {
	if _, err := s.visiblePost(ctx, actor, postID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID, !s.policy.IsAdmin(actor))
	if err != nil {
		return nil, models.NewExternalError("store", err)
	}
	return comments, nil
}

// DeleteComment removes a comment. Admin only.
func (s *CommentService) DeleteComment(
	ctx context.Context, actor identity.Actor, id uint,
) error {
	if !s.policy.IsAdmin(actor) {
		return models.NewUnauthorizedError("Administrator access required")
	}
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return storeError(err, "Comment", id)
	}

	if s.events != nil {
		s.events.ContentChanged(ctx, "comment_deleted")
	}
	return nil
}

// visiblePost resolves a post the actor may see. Drafts hide their comment
// threads from non-admins.
func (s *CommentService) visiblePost(
	ctx context.Context, actor identity.Actor, postID uint,
) (*models.BlogPost, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, storeError(err, "Post", postID)
	}
	if !post.IsPublished && !s.policy.IsAdmin(actor) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}
