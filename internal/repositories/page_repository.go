package repositories

import (
	"github.com/ridwan-io/wikinote/backend/internal/models"
	"gorm.io/gorm"
)

// PageRepository defines the interface for page data operations
type PageRepository interface {
	CreatePage(page *models.Page) error
	GetPageByID(id uint) (*models.Page, error)
	GetPageBySlug(slug string) (*models.Page, error)
	GetPagesByCategoryID(categoryID uint) ([]models.Page, error)
	UpdatePage(page *models.Page) error
	DeletePage(id uint) error
	IncrementViewCount(id uint) error
}

// PostgresPageRepository implements PageRepository for PostgreSQL
type PostgresPageRepository struct {
	db *gorm.DB
}

// NewPostgresPageRepository creates a new PostgresPageRepository
func NewPostgresPageRepository(db *gorm.DB) *PostgresPageRepository {
	return &PostgresPageRepository{db: db}
}

// CreatePage creates a new page in PostgreSQL
func (r *PostgresPageRepository) CreatePage(page *models.Page) error {
	return r.db.Create(page).Error
}

// GetPageByID retrieves a page by ID from PostgreSQL
func (r *PostgresPageRepository) GetPageByID(id uint) (*models.Page, error) {
	var page models.Page
	if err := r.db.First(&page, id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPageBySlug retrieves a page by slug from PostgreSQL
func (r *PostgresPageRepository) GetPageBySlug(slug string) (*models.Page, error) {
	var page models.Page
	if err := r.db.Where("slug = ?", slug).First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPagesByCategoryID retrieves all pages in a category from PostgreSQL
func (r *PostgresPageRepository) GetPagesByCategoryID(categoryID uint) ([]models.Page, error) {
	var pages []models.Page
	if err := r.db.Where("category_id = ?", categoryID).Order("title").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// UpdatePage updates an existing page in PostgreSQL
func (r *PostgresPageRepository) UpdatePage(page *models.Page) error {
	return r.db.Save(page).Error
}

// DeletePage deletes a page by ID from PostgreSQL
func (r *PostgresPageRepository) DeletePage(id uint) error {
	return r.db.Delete(&models.Page{}, id).Error
}

// IncrementViewCount bumps the denormalized view counter. This write is
// deliberately outside event capture.
func (r *PostgresPageRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.Page{}).Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}
