package service

import (
	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/repositories"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// WatchService orchestrates subscription changes: it validates that the
// watched target exists before touching the subscription store.
type WatchService struct {
	watches repositories.WatchRepository
	pages   repositories.PageRepository
	cats    repositories.CategoryRepository
	log     zerolog.Logger
}

// NewWatchService creates a new WatchService
func NewWatchService(watches repositories.WatchRepository, pages repositories.PageRepository, cats repositories.CategoryRepository, log zerolog.Logger) *WatchService {
	return &WatchService{watches: watches, pages: pages, cats: cats, log: log}
}

// Subscribe creates or reactivates a watch after validating the target.
// Subscribing twice with the same kinds yields exactly one active row.
func (s *WatchService) Subscribe(userID uint, targetType models.WatchTargetType, targetID uint, events []models.WatchEventKind) (*models.Watch, error) {
	if err := s.validateTarget(targetType, targetID); err != nil {
		return nil, err
	}
	for _, kind := range events {
		if !kind.Valid() {
			return nil, models.ErrInvalidEventKind
		}
	}

	watch, err := s.watches.Subscribe(userID, targetType, targetID, events)
	if err != nil {
		s.log.Error().Err(err).
			Uint("user_id", userID).
			Str("target_type", string(targetType)).
			Uint("target_id", targetID).
			Msg("subscribe failed")
		return nil, err
	}
	return watch, nil
}

// Toggle flips the watch state; the bool reports whether a row was created
func (s *WatchService) Toggle(userID uint, targetType models.WatchTargetType, targetID uint, events []models.WatchEventKind) (*models.Watch, bool, error) {
	if err := s.validateTarget(targetType, targetID); err != nil {
		return nil, false, err
	}
	return s.watches.Toggle(userID, targetType, targetID, events)
}

// Unsubscribe deactivates the watch and reports whether one was active
func (s *WatchService) Unsubscribe(userID uint, targetType models.WatchTargetType, targetID uint) (bool, error) {
	if !targetType.Valid() {
		return false, models.ErrInvalidTarget
	}
	return s.watches.Unsubscribe(userID, targetType, targetID)
}

// List returns the user's active watches, optionally filtered by target type
func (s *WatchService) List(userID uint, targetType models.WatchTargetType) ([]models.Watch, error) {
	if targetType != "" && !targetType.Valid() {
		return nil, models.ErrInvalidTarget
	}
	return s.watches.GetByUser(userID, targetType)
}

func (s *WatchService) validateTarget(targetType models.WatchTargetType, targetID uint) error {
	switch targetType {
	case models.TargetPage:
		if _, err := s.pages.GetPageByID(targetID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return models.ErrTargetNotFound
			}
			return err
		}
	case models.TargetCategory:
		if _, err := s.cats.GetCategoryByID(targetID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return models.ErrTargetNotFound
			}
			return err
		}
	default:
		return models.ErrInvalidTarget
	}
	return nil
}
