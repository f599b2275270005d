package repositories

import (
	"github.com/ridwan-io/wikinote/backend/internal/models"
	"gorm.io/gorm"
)

// MentionRepository defines the interface for comment mention operations
type MentionRepository interface {
	CreateMention(mention *models.CommentMention) error
	Exists(commentID, mentionedUserID uint) (bool, error)
	GetByCommentID(commentID uint) ([]models.CommentMention, error)
	DeleteByCommentID(commentID uint) error
	MarkNotified(commentID, mentionedUserID uint) error
}

// PostgresMentionRepository implements MentionRepository for PostgreSQL
type PostgresMentionRepository struct {
	db *gorm.DB
}

// NewPostgresMentionRepository creates a new PostgresMentionRepository
func NewPostgresMentionRepository(db *gorm.DB) *PostgresMentionRepository {
	return &PostgresMentionRepository{db: db}
}

// CreateMention creates a new mention row in PostgreSQL
func (r *PostgresMentionRepository) CreateMention(mention *models.CommentMention) error {
	return r.db.Create(mention).Error
}

// Exists reports whether the (comment, user) pair already has a mention row
func (r *PostgresMentionRepository) Exists(commentID, mentionedUserID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CommentMention{}).
		Where("comment_id = ? AND mentioned_user_id = ?", commentID, mentionedUserID).
		Count(&count).Error
	return count > 0, err
}

// GetByCommentID retrieves all mentions for a comment
func (r *PostgresMentionRepository) GetByCommentID(commentID uint) ([]models.CommentMention, error) {
	var mentions []models.CommentMention
	if err := r.db.Where("comment_id = ?", commentID).Find(&mentions).Error; err != nil {
		return nil, err
	}
	return mentions, nil
}

// DeleteByCommentID removes all mentions for a comment; called before
// re-extraction when the comment content is edited
func (r *PostgresMentionRepository) DeleteByCommentID(commentID uint) error {
	return r.db.Where("comment_id = ?", commentID).Delete(&models.CommentMention{}).Error
}

// MarkNotified flags the (comment, user) mention as having produced a notification
func (r *PostgresMentionRepository) MarkNotified(commentID, mentionedUserID uint) error {
	return r.db.Model(&models.CommentMention{}).
		Where("comment_id = ? AND mentioned_user_id = ?", commentID, mentionedUserID).
		Update("notification_sent", true).Error
}
