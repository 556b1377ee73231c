package service

import (
	"context"
	"strings"
	"time"

	"mushroomservice/internal/identity"
	"mushroomservice/internal/models"
	"mushroomservice/internal/repository"
	"mushroomservice/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
	policy   identity.Policy
	events   ContentEvents
}

type PostInput struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Content         string `json:"content"`
	Excerpt         string `json:"excerpt"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
}

func NewPostService(
	postRepo repository.PostRepository,
	policy identity.Policy,
	events ContentEvents,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		policy:   policy,
		events:   events,
	}
}

// CreatePost stores a new draft. The slug is derived from the title when
// absent. Posts always start unpublished.
func (s *PostService) CreatePost(
	ctx context.Context, actor identity.Actor, in PostInput,
) (*models.BlogPost, error) {
	if !s.policy.IsAdmin(actor) {
		return nil, models.NewUnauthorizedError("Administrator access required")
	}
	if err := validatePostInput(&in); err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		Title:           in.Title,
		Slug:            in.Slug,
		Content:         in.Content,
		Excerpt:         in.Excerpt,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
		AuthorID:        actor.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewExternalError("store", err)
	}

	if s.events != nil {
		s.events.ContentChanged(ctx, "post_created")
	}
	return s.getByID(ctx, post.ID)
}

// UpdatePost replaces the editable fields of a post. Publish state is not
// touched here.
func (s *PostService) UpdatePost(
	ctx context.Context, actor identity.Actor, id uint, in PostInput,
) (*models.BlogPost, error) {
	if !s.policy.IsAdmin(actor) {
		return nil, models.NewUnauthorizedError("Administrator access required")
	}
	if err := validatePostInput(&in); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Post", id)
	}

	post.Title = in.Title
	post.Slug = in.Slug
	post.Content = in.Content
	post.Excerpt = in.Excerpt
	post.MetaTitle = in.MetaTitle
	post.MetaDescription = in.MetaDescription

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewExternalError("store", err)
	}

	if s.events != nil {
		s.events.ContentChanged(ctx, "post_updated")
	}
	return s.getByID(ctx, id)
}

// PublishPost makes a post visible to everyone. The first publish stamps
// PublishedAt; publishing an already-published post changes nothing.
func (s *PostService) PublishPost(
	ctx context.Context, actor identity.Actor, id uint,
) (*models.BlogPost, error) {
	if !s.policy.IsAdmin(actor) {
		return nil, models.NewUnauthorizedError("Administrator access required")
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Post", id)
	}
	if post.IsPublished {
		return post, nil
	}

	if err := s.postRepo.MarkPublished(ctx, id, time.Now().UTC()); err != nil {
		return nil, storeError(err, "Post", id)
	}

	if s.events != nil {
		s.events.ContentChanged(ctx, "post_published")
	}
	return s.getByID(ctx, id)
}

// DeletePost removes a post.
func (s *PostService) DeletePost(
	ctx context.Context, actor identity.Actor, id uint,
) error {
	if !s.policy.IsAdmin(actor) {
		return models.NewUnauthorizedError("Administrator access required")
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return storeError(err, "Post", id)
	}

	if s.events != nil {
		s.events.ContentChanged(ctx, "post_deleted")
	}
	return nil
}

// SetFeaturedImage records the stored image URL for a post.
func (s *PostService) SetFeaturedImage(
	ctx context.Context, actor identity.Actor, id uint, url string,
) (*models.BlogPost, error) {
	if !s.policy.IsAdmin(actor) {
		return nil, models.NewUnauthorizedError("Administrator access required")
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Post", id)
	}

	post.FeaturedImage = url
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewExternalError("store", err)
	}

	if s.events != nil {
		s.events.ContentChanged(ctx, "post_updated")
	}
	return s.getByID(ctx, id)
}

// GetPost returns one post by slug. Drafts are visible to admins only;
// everyone else gets NOT_FOUND for an unpublished slug.
func (s *PostService) GetPost(
	ctx context.Context, actor identity.Actor, slug string,
) (*models.BlogPost, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug, !s.policy.IsAdmin(actor))
	if err != nil {
		return nil, storeError(err, "Post", slug)
	}
	return post, nil
}

// ListPosts returns the posts the actor may see, newest-first.
func (s *PostService) ListPosts(
	ctx context.Context, actor identity.Actor, limit, offset int,
) ([]*models.BlogPost, error) {
	posts, err := s.postRepo.List(ctx, !s.policy.IsAdmin(actor), limit, offset)
	if err != nil {
		return nil, models.NewExternalError("store", err)
	}
	return posts, nil
}

func (s *PostService) getByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Post", id)
	}
	return post, nil
}

func validatePostInput(in *PostInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return models.NewValidationError("Content is required")
	}
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = validation.Slugify(in.Title)
	}
	if err := validation.ValidatePostSlug(in.Slug); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}
