package repositories

import (
	"github.com/ridwan-io/wikinote/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByTarget(targetType models.CommentTargetType, targetID uint) ([]models.Comment, error)
	UpdateComment(comment *models.Comment) error
	SoftDeleteComment(id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByTarget retrieves all live comments on a page or attachment
func (r *PostgresCommentRepository) GetCommentsByTarget(targetType models.CommentTargetType, targetID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("target_type = ? AND target_id = ? AND is_deleted = ?", targetType, targetID, false).
		Order("created_at").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateComment updates an existing comment in PostgreSQL
func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// SoftDeleteComment marks a comment deleted without removing the row
func (r *PostgresCommentRepository) SoftDeleteComment(id uint) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).Update("is_deleted", true).Error
}
