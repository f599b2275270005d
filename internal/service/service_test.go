package service

import (
	"sync"
	"testing"

	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection: every goroutine must see the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Page{},
		&models.Attachment{},
		&models.Comment{},
		&models.CommentMention{},
		&models.Watch{},
		&models.Notification{},
	))
	return db
}

// captureScheduler records enqueued notification IDs instead of delivering
type captureScheduler struct {
	mu  sync.Mutex
	ids []uint
}

func (s *captureScheduler) Enqueue(notificationID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, notificationID)
}

func (s *captureScheduler) enqueued() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint(nil), s.ids...)
}
