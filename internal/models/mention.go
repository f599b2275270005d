package models

import "time"

// CommentMention represents an @-reference to a user inside a comment (PostgreSQL)
type CommentMention struct {
	ID                uint   `json:"id" gorm:"primaryKey"`
	CommentID         uint   `json:"comment_id" gorm:"index;uniqueIndex:idx_mentions_comment_user;not null"`
	MentionedUserID   uint   `json:"mentioned_user_id" gorm:"index:idx_mentions_user_read;uniqueIndex:idx_mentions_comment_user;not null"`
	MentionedUsername string `json:"mentioned_username" gorm:"size:64;not null"` // username snapshot at mention time

	IsRead           bool       `json:"is_read" gorm:"default:false;index:idx_mentions_user_read"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
	NotificationSent bool       `json:"-" gorm:"default:false"`
	CreatedAt        time.Time  `json:"created_at"`
}
