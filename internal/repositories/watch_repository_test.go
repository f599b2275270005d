package repositories

import (
	"testing"

	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func countWatches(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Watch{}).Count(&count).Error)
	return count
}

func TestSubscribeAppliesDefaultEvents(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresWatchRepository(db)

	watch, err := repo.Subscribe(1, models.TargetPage, 10, nil)
	require.NoError(t, err)

	assert.True(t, watch.IsActive)
	assert.ElementsMatch(t, []models.WatchEventKind{
		models.EventPageUpdated,
		models.EventPageDeleted,
		models.EventAttachmentAdded,
		models.EventAttachmentRemoved,
	}, watch.GetWatchedEvents())

	catWatch, err := repo.Subscribe(1, models.TargetCategory, 10, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.WatchEventKind{
		models.EventPageCreated,
		models.EventPageUpdated,
		models.EventPageDeleted,
		models.EventCategoryUpdated,
	}, catWatch.GetWatchedEvents())
}

func TestSubscribeTwiceKeepsOneRow(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresWatchRepository(db)

	first, err := repo.Subscribe(1, models.TargetPage, 10, []models.WatchEventKind{models.EventPageUpdated})
	require.NoError(t, err)

	second, err := repo.Subscribe(1, models.TargetPage, 10, []models.WatchEventKind{models.EventPageDeleted})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(1), countWatches(t, db))

	// The event kind set is replaced, not merged
	assert.Equal(t, []models.WatchEventKind{models.EventPageDeleted}, second.GetWatchedEvents())
}

func TestUnsubscribeDeactivatesWithoutDeleting(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresWatchRepository(db)

	_, err := repo.Subscribe(1, models.TargetPage, 10, nil)
	require.NoError(t, err)

	removed, err := repo.Unsubscribe(1, models.TargetPage, 10)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, int64(1), countWatches(t, db))

	active, err := repo.GetByUser(1, "")
	require.NoError(t, err)
	assert.Empty(t, active)

	// Unsubscribing again reports nothing was active
	removed, err = repo.Unsubscribe(1, models.TargetPage, 10)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSubscribeReactivatesDeactivatedWatch(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresWatchRepository(db)

	_, err := repo.Subscribe(1, models.TargetPage, 10, nil)
	require.NoError(t, err)
	_, err = repo.Unsubscribe(1, models.TargetPage, 10)
	require.NoError(t, err)

	watch, err := repo.Subscribe(1, models.TargetPage, 10, []models.WatchEventKind{models.EventCommentAdded})
	require.NoError(t, err)

	assert.True(t, watch.IsActive)
	assert.Equal(t, int64(1), countWatches(t, db))
	assert.Equal(t, []models.WatchEventKind{models.EventCommentAdded}, watch.GetWatchedEvents())
}

func TestToggleLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresWatchRepository(db)

	watch, created, err := repo.Toggle(1, models.TargetPage, 10, nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, watch.IsActive)

	watch, created, err = repo.Toggle(1, models.TargetPage, 10, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.False(t, watch.IsActive)

	watch, created, err = repo.Toggle(1, models.TargetPage, 10, []models.WatchEventKind{models.EventPageDeleted})
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, watch.IsActive)
	assert.Equal(t, []models.WatchEventKind{models.EventPageDeleted}, watch.GetWatchedEvents())

	assert.Equal(t, int64(1), countWatches(t, db))
}

func TestGetByUserFiltersByTargetType(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresWatchRepository(db)

	_, err := repo.Subscribe(1, models.TargetPage, 10, nil)
	require.NoError(t, err)
	_, err = repo.Subscribe(1, models.TargetCategory, 5, nil)
	require.NoError(t, err)
	_, err = repo.Subscribe(2, models.TargetPage, 10, nil)
	require.NoError(t, err)

	all, err := repo.GetByUser(1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pagesOnly, err := repo.GetByUser(1, models.TargetPage)
	require.NoError(t, err)
	require.Len(t, pagesOnly, 1)
	assert.Equal(t, uint(10), pagesOnly[0].TargetID)
}

func TestFindInterestedFiltersByKindAndActivity(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresWatchRepository(db)

	_, err := repo.Subscribe(1, models.TargetPage, 10, []models.WatchEventKind{models.EventPageUpdated})
	require.NoError(t, err)
	_, err = repo.Subscribe(2, models.TargetPage, 10, []models.WatchEventKind{models.EventPageDeleted})
	require.NoError(t, err)
	_, err = repo.Subscribe(3, models.TargetPage, 10, []models.WatchEventKind{models.EventPageUpdated})
	require.NoError(t, err)
	_, err = repo.Unsubscribe(3, models.TargetPage, 10)
	require.NoError(t, err)

	matches, err := repo.FindInterested(models.TargetPage, 10, models.EventPageUpdated)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, uint(1), matches[0].UserID)
}

func TestFindInterestedWithAncestorsWalksChain(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresWatchRepository(db)

	root := models.Category{Name: "Engineering"}
	require.NoError(t, db.Create(&root).Error)
	child := models.Category{Name: "Backend", ParentID: &root.ID}
	require.NoError(t, db.Create(&child).Error)
	sibling := models.Category{Name: "Frontend", ParentID: &root.ID}
	require.NoError(t, db.Create(&sibling).Error)

	_, err := repo.Subscribe(1, models.TargetCategory, root.ID, []models.WatchEventKind{models.EventPageCreated})
	require.NoError(t, err)
	_, err = repo.Subscribe(2, models.TargetCategory, child.ID, []models.WatchEventKind{models.EventPageCreated})
	require.NoError(t, err)
	_, err = repo.Subscribe(3, models.TargetCategory, sibling.ID, []models.WatchEventKind{models.EventPageCreated})
	require.NoError(t, err)

	// An event in the child category reaches child and root watchers, not siblings
	matches, err := repo.FindInterestedWithAncestors(child.ID, models.EventPageCreated)
	require.NoError(t, err)

	userIDs := make([]uint, 0, len(matches))
	for _, w := range matches {
		userIDs = append(userIDs, w.UserID)
	}
	assert.ElementsMatch(t, []uint{1, 2}, userIDs)
}

func TestFindInterestedWithAncestorsSurvivesCycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresWatchRepository(db)

	a := models.Category{Name: "A"}
	require.NoError(t, db.Create(&a).Error)
	b := models.Category{Name: "B", ParentID: &a.ID}
	require.NoError(t, db.Create(&b).Error)
	require.NoError(t, db.Model(&a).Update("parent_id", b.ID).Error)

	_, err := repo.Subscribe(1, models.TargetCategory, a.ID, []models.WatchEventKind{models.EventPageCreated})
	require.NoError(t, err)
	_, err = repo.Subscribe(2, models.TargetCategory, b.ID, []models.WatchEventKind{models.EventPageCreated})
	require.NoError(t, err)

	matches, err := repo.FindInterestedWithAncestors(b.ID, models.EventPageCreated)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}
