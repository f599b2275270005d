package models

import "time"

// CommentTargetType identifies what a comment is attached to
type CommentTargetType string

const (
	CommentOnPage       CommentTargetType = "page"
	CommentOnAttachment CommentTargetType = "attachment"
)

// Comment represents a comment on a page or attachment (PostgreSQL)
type Comment struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	Content    string            `json:"content" gorm:"type:text;not null"`
	TargetType CommentTargetType `json:"target_type" gorm:"size:20;index:idx_comments_target;not null"`
	TargetID   uint              `json:"target_id" gorm:"index:idx_comments_target;not null"`
	AuthorID   uint              `json:"author_id" gorm:"index;not null"`
	ParentID   *uint             `json:"parent_id,omitempty"` // reply threading

	IsDeleted bool `json:"is_deleted" gorm:"default:false"`
	IsEdited  bool `json:"is_edited" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommentRequest defines the request body for creating a comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=5000"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

// UpdateCommentRequest defines the request body for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}
