package models

import (
	"time"

	"gorm.io/gorm"
)

// BlogPost represents a blog article. Posts start unpublished and become
// visible to non-admin readers only once IsPublished is set; PublishedAt is
// written on the first publish and never touched again.
type BlogPost struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"not null" json:"title"`
	Slug            string     `gorm:"uniqueIndex;not null" json:"slug"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	Excerpt         string     `gorm:"type:text" json:"excerpt"`
	FeaturedImage   string     `json:"featured_image,omitempty"`
	MetaTitle       string     `json:"meta_title,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	AuthorID        uint       `gorm:"not null;index" json:"author_id"`
	Author          User       `gorm:"foreignKey:AuthorID" json:"author"`
	IsPublished     bool       `gorm:"index" json:"is_published"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int            `gorm:"->" json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// AfterFind applies the read-path defaulting rules: a missing created-at
// reads as now, and an unset publish flag reads as unpublished (the zero
// value already guarantees the latter).
func (p *BlogPost) AfterFind(_ *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	return nil
}
