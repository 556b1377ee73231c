package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxCommentLen bounds comment content length in characters.
const MaxCommentLen = 1000

// Comment belongs to exactly one blog post. IsApproved defaults to true;
// the column exists as a future moderation gate but no workflow currently
// flips it.
type Comment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	PostID     uint           `gorm:"not null;index" json:"post_id"`
	Post       BlogPost       `gorm:"foreignKey:PostID" json:"-"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	User       User           `gorm:"foreignKey:UserID" json:"user"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	IsApproved bool           `gorm:"default:true" json:"is_approved"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// AfterFind defaults a missing created-at to now, matching the read-path
// rules for the other content kinds.
func (c *Comment) AfterFind(_ *gorm.DB) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	return nil
}
