package repositories

import (
	"github.com/ridwan-io/wikinote/backend/internal/models"
	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	CreateCategory(category *models.Category) error
	GetCategoryByID(id uint) (*models.Category, error)
	GetCategories() ([]models.Category, error)
	UpdateCategory(category *models.Category) error
	DeleteCategory(id uint) error
	WouldCreateCycle(categoryID uint, parentID uint) (bool, error)
}

// PostgresCategoryRepository implements CategoryRepository for PostgreSQL
type PostgresCategoryRepository struct {
	db *gorm.DB
}

// NewPostgresCategoryRepository creates a new PostgresCategoryRepository
func NewPostgresCategoryRepository(db *gorm.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

// CreateCategory creates a new category in PostgreSQL
func (r *PostgresCategoryRepository) CreateCategory(category *models.Category) error {
	return r.db.Create(category).Error
}

// GetCategoryByID retrieves a category by ID from PostgreSQL
func (r *PostgresCategoryRepository) GetCategoryByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategories retrieves all categories from PostgreSQL
func (r *PostgresCategoryRepository) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateCategory updates an existing category in PostgreSQL
func (r *PostgresCategoryRepository) UpdateCategory(category *models.Category) error {
	return r.db.Save(category).Error
}

// DeleteCategory deletes a category by ID from PostgreSQL
func (r *PostgresCategoryRepository) DeleteCategory(id uint) error {
	return r.db.Delete(&models.Category{}, id).Error
}

// WouldCreateCycle reports whether setting parentID on categoryID would make
// the parent chain circular. The walk is iterative and bounded by a visited set.
func (r *PostgresCategoryRepository) WouldCreateCycle(categoryID uint, parentID uint) (bool, error) {
	visited := make(map[uint]bool)
	currentID := parentID
	for currentID != 0 {
		if currentID == categoryID {
			return true, nil
		}
		if visited[currentID] {
			return true, nil
		}
		visited[currentID] = true

		var category models.Category
		err := r.db.Select("id", "parent_id").First(&category, currentID).Error
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if category.ParentID == nil {
			return false, nil
		}
		currentID = *category.ParentID
	}
	return false, nil
}
