package service

import (
	"testing"

	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/repositories"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newWatchServiceFixture(t *testing.T) (*gorm.DB, *WatchService) {
	t.Helper()
	db := openTestDB(t)
	svc := NewWatchService(
		repositories.NewPostgresWatchRepository(db),
		repositories.NewPostgresPageRepository(db),
		repositories.NewPostgresCategoryRepository(db),
		zerolog.Nop(),
	)
	return db, svc
}

func TestSubscribeRejectsMissingTarget(t *testing.T) {
	_, svc := newWatchServiceFixture(t)

	_, err := svc.Subscribe(1, models.TargetPage, 999, nil)
	assert.ErrorIs(t, err, models.ErrTargetNotFound)

	_, err = svc.Subscribe(1, models.TargetCategory, 999, nil)
	assert.ErrorIs(t, err, models.ErrTargetNotFound)
}

func TestSubscribeRejectsUnknownTargetType(t *testing.T) {
	_, svc := newWatchServiceFixture(t)

	_, err := svc.Subscribe(1, "attachment", 1, nil)
	assert.ErrorIs(t, err, models.ErrInvalidTarget)
}

func TestSubscribeRejectsUnknownEventKind(t *testing.T) {
	db, svc := newWatchServiceFixture(t)
	page := &models.Page{Title: "Welcome", Slug: "welcome", AuthorID: 1}
	require.NoError(t, db.Create(page).Error)

	_, err := svc.Subscribe(1, models.TargetPage, page.ID, []models.WatchEventKind{"page_renamed"})
	assert.ErrorIs(t, err, models.ErrInvalidEventKind)
}

func TestSubscribeAndListRoundTrip(t *testing.T) {
	db, svc := newWatchServiceFixture(t)
	page := &models.Page{Title: "Welcome", Slug: "welcome", AuthorID: 1}
	require.NoError(t, db.Create(page).Error)

	watch, err := svc.Subscribe(1, models.TargetPage, page.ID, nil)
	require.NoError(t, err)
	assert.True(t, watch.IsActive)

	watches, err := svc.List(1, models.TargetPage)
	require.NoError(t, err)
	require.Len(t, watches, 1)
	assert.Equal(t, page.ID, watches[0].TargetID)

	removed, err := svc.Unsubscribe(1, models.TargetPage, page.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	watches, err = svc.List(1, "")
	require.NoError(t, err)
	assert.Empty(t, watches)
}

func TestListRejectsUnknownTargetType(t *testing.T) {
	_, svc := newWatchServiceFixture(t)
	_, err := svc.List(1, "attachment")
	assert.ErrorIs(t, err, models.ErrInvalidTarget)
}
