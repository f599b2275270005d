package repositories

import (
	"github.com/ridwan-io/wikinote/backend/internal/models"
	"gorm.io/gorm"
)

// AttachmentRepository defines the interface for attachment data operations
type AttachmentRepository interface {
	CreateAttachment(attachment *models.Attachment) error
	GetAttachmentByID(id uint) (*models.Attachment, error)
	GetAttachmentsByPageID(pageID uint) ([]models.Attachment, error)
	DeleteAttachment(id uint) error
}

// PostgresAttachmentRepository implements AttachmentRepository for PostgreSQL
type PostgresAttachmentRepository struct {
	db *gorm.DB
}

// NewPostgresAttachmentRepository creates a new PostgresAttachmentRepository
func NewPostgresAttachmentRepository(db *gorm.DB) *PostgresAttachmentRepository {
	return &PostgresAttachmentRepository{db: db}
}

// CreateAttachment creates a new attachment in PostgreSQL
func (r *PostgresAttachmentRepository) CreateAttachment(attachment *models.Attachment) error {
	return r.db.Create(attachment).Error
}

// GetAttachmentByID retrieves an attachment by ID from PostgreSQL
func (r *PostgresAttachmentRepository) GetAttachmentByID(id uint) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := r.db.First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// GetAttachmentsByPageID retrieves all attachments on a page from PostgreSQL
func (r *PostgresAttachmentRepository) GetAttachmentsByPageID(pageID uint) ([]models.Attachment, error) {
	var attachments []models.Attachment
	if err := r.db.Where("page_id = ?", pageID).Order("created_at").Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// DeleteAttachment deletes an attachment by ID from PostgreSQL
func (r *PostgresAttachmentRepository) DeleteAttachment(id uint) error {
	return r.db.Delete(&models.Attachment{}, id).Error
}
