package repositories

import (
	"time"

	"github.com/ridwan-io/wikinote/backend/internal/models"
	"gorm.io/gorm"
)

// WatchRepository defines the interface for subscription data operations
type WatchRepository interface {
	Subscribe(userID uint, targetType models.WatchTargetType, targetID uint, events []models.WatchEventKind) (*models.Watch, error)
	Unsubscribe(userID uint, targetType models.WatchTargetType, targetID uint) (bool, error)
	Toggle(userID uint, targetType models.WatchTargetType, targetID uint, events []models.WatchEventKind) (*models.Watch, bool, error)
	GetByUser(userID uint, targetType models.WatchTargetType) ([]models.Watch, error)
	FindInterested(targetType models.WatchTargetType, targetID uint, kind models.WatchEventKind) ([]models.Watch, error)
	FindInterestedWithAncestors(categoryID uint, kind models.WatchEventKind) ([]models.Watch, error)
}

// PostgresWatchRepository implements WatchRepository for PostgreSQL
type PostgresWatchRepository struct {
	db *gorm.DB
}

// NewPostgresWatchRepository creates a new PostgresWatchRepository
func NewPostgresWatchRepository(db *gorm.DB) *PostgresWatchRepository {
	return &PostgresWatchRepository{db: db}
}

// Subscribe creates a watch, or reactivates the existing row for the
// (user, target_type, target_id) key and replaces its event kind set.
// An empty event set gets the defaults for the target type.
func (r *PostgresWatchRepository) Subscribe(userID uint, targetType models.WatchTargetType, targetID uint, events []models.WatchEventKind) (*models.Watch, error) {
	if len(events) == 0 {
		events = models.DefaultEventsFor(targetType)
	}

	var watch models.Watch
	err := r.db.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).First(&watch).Error
	if err == nil {
		watch.SetWatchedEvents(events)
		watch.IsActive = true
		watch.UpdatedAt = time.Now().UTC()
		if err := r.db.Save(&watch).Error; err != nil {
			return nil, err
		}
		return &watch, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	watch = models.Watch{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
		IsActive:   true,
	}
	watch.SetWatchedEvents(events)
	if err := r.db.Create(&watch).Error; err != nil {
		return nil, err
	}
	return &watch, nil
}

// Unsubscribe deactivates the watch for the key and reports whether an
// active row existed. The row is kept so a later subscribe reactivates it.
func (r *PostgresWatchRepository) Unsubscribe(userID uint, targetType models.WatchTargetType, targetID uint) (bool, error) {
	res := r.db.Model(&models.Watch{}).
		Where("user_id = ? AND target_type = ? AND target_id = ? AND is_active = ?", userID, targetType, targetID, true).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Toggle flips the watch state for the key; the second return value reports
// whether a new row was created.
func (r *PostgresWatchRepository) Toggle(userID uint, targetType models.WatchTargetType, targetID uint, events []models.WatchEventKind) (*models.Watch, bool, error) {
	var watch models.Watch
	err := r.db.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).First(&watch).Error
	if err == gorm.ErrRecordNotFound {
		created, err := r.Subscribe(userID, targetType, targetID, events)
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	if watch.IsActive {
		watch.IsActive = false
	} else {
		watch.IsActive = true
		if len(events) > 0 {
			watch.SetWatchedEvents(events)
		}
	}
	watch.UpdatedAt = time.Now().UTC()
	if err := r.db.Save(&watch).Error; err != nil {
		return nil, false, err
	}
	return &watch, false, nil
}

// GetByUser retrieves a user's active watches, optionally filtered by target type
func (r *PostgresWatchRepository) GetByUser(userID uint, targetType models.WatchTargetType) ([]models.Watch, error) {
	query := r.db.Where("user_id = ? AND is_active = ?", userID, true)
	if targetType != "" {
		query = query.Where("target_type = ?", targetType)
	}
	var watches []models.Watch
	if err := query.Order("created_at DESC").Find(&watches).Error; err != nil {
		return nil, err
	}
	return watches, nil
}

// FindInterested retrieves the active watches on the exact target whose stored
// event kind set contains the given kind. The kind set is a JSON blob, so
// membership is checked after loading rather than in SQL.
func (r *PostgresWatchRepository) FindInterested(targetType models.WatchTargetType, targetID uint, kind models.WatchEventKind) ([]models.Watch, error) {
	var candidates []models.Watch
	err := r.db.Where("target_type = ? AND target_id = ? AND is_active = ?", targetType, targetID, true).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	watches := make([]models.Watch, 0, len(candidates))
	for _, w := range candidates {
		if w.IsWatchingEvent(kind) {
			watches = append(watches, w)
		}
	}
	return watches, nil
}

// FindInterestedWithAncestors unions interested watches on the category and on
// every ancestor up the parent chain. The walk is iterative with a visited-id
// guard so a cycle upstream cannot hang it.
func (r *PostgresWatchRepository) FindInterestedWithAncestors(categoryID uint, kind models.WatchEventKind) ([]models.Watch, error) {
	visited := make(map[uint]bool)
	chain := make([]uint, 0, 4)

	currentID := categoryID
	for currentID != 0 && !visited[currentID] {
		visited[currentID] = true
		chain = append(chain, currentID)

		var category models.Category
		err := r.db.Select("id", "parent_id").First(&category, currentID).Error
		if err == gorm.ErrRecordNotFound {
			break
		}
		if err != nil {
			return nil, err
		}
		if category.ParentID == nil {
			break
		}
		currentID = *category.ParentID
	}

	var watches []models.Watch
	for _, id := range chain {
		matches, err := r.FindInterested(models.TargetCategory, id, kind)
		if err != nil {
			return nil, err
		}
		watches = append(watches, matches...)
	}
	return watches, nil
}
