package repository

import (
	"context"
	"time"

	"mushroomservice/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines interface for blog post operations
type PostRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id uint) (*models.BlogPost, error)
	// GetBySlug honors publishedOnly so unpublished drafts stay invisible
	// to non-admin readers even with a known slug.
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error)
	// List returns posts newest-first; publishedOnly filters on the publish
	// flag. A limit of 0 means no limit.
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost) error
	// MarkPublished flips is_published and stamps published_at in one write.
	MarkPublished(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// commentsCountSelect annotates each row with its comment count.
const commentsCountSelect = "blog_posts.*, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.post_id = blog_posts.id AND comments.deleted_at IS NULL) AS comments_count"

func (r *postRepository) Create(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).
		Select(commentsCountSelect).
		Preload("Author").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error) {
	var post models.BlogPost
	q := r.db.WithContext(ctx).
		Select(commentsCountSelect).
		Preload("Author").
		Where("slug = ?", slug)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if err := q.First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*models.BlogPost, error) {
	var posts []*models.BlogPost
	q := r.db.WithContext(ctx).
		Select(commentsCountSelect).
		Preload("Author").
		Order("created_at desc")
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	err := q.Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) MarkPublished(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.BlogPost{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_published": true,
			"published_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.BlogPost{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
