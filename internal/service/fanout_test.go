package service

import (
	"context"
	"testing"

	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/repositories"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fanoutFixture struct {
	db        *gorm.DB
	watches   repositories.WatchRepository
	processor *FanoutProcessor
	scheduler *captureScheduler
}

func newFanoutFixture(t *testing.T) *fanoutFixture {
	t.Helper()
	db := openTestDB(t)

	watchRepo := repositories.NewPostgresWatchRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	pageRepo := repositories.NewPostgresPageRepository(db)
	categoryRepo := repositories.NewPostgresCategoryRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	userRepo := repositories.NewPostgresUserRepository(db)
	mentionRepo := repositories.NewPostgresMentionRepository(db)

	scheduler := &captureScheduler{}
	renderer := NewRenderer(pageRepo, categoryRepo, commentRepo, userRepo, "")
	processor := NewFanoutProcessor(watchRepo, notificationRepo, pageRepo, mentionRepo, renderer, scheduler, zerolog.Nop())

	return &fanoutFixture{db: db, watches: watchRepo, processor: processor, scheduler: scheduler}
}

func (f *fanoutFixture) notifications(t *testing.T) []models.Notification {
	t.Helper()
	var notifications []models.Notification
	require.NoError(t, f.db.Order("id").Find(&notifications).Error)
	return notifications
}

func TestProcessNotifiesPageWatcher(t *testing.T) {
	f := newFanoutFixture(t)
	actor := seedUser(t, f.db, "alice")
	watcher := seedUser(t, f.db, "bob")

	page := &models.Page{Title: "Welcome", Slug: "welcome", AuthorID: actor.ID}
	require.NoError(t, f.db.Create(page).Error)

	watch, err := f.watches.Subscribe(watcher.ID, models.TargetPage, page.ID, []models.WatchEventKind{models.EventPageUpdated})
	require.NoError(t, err)

	created := f.processor.Process(context.Background(), NewDomainEvent(models.EventPageUpdated, models.TargetPage, page.ID, &actor.ID))
	assert.Equal(t, 1, created)

	notifications := f.notifications(t)
	require.Len(t, notifications, 1)
	n := notifications[0]
	assert.Equal(t, watcher.ID, n.RecipientID)
	require.NotNil(t, n.WatchID)
	assert.Equal(t, watch.ID, *n.WatchID)
	assert.Equal(t, models.EventPageUpdated, n.EventType)
	assert.Equal(t, "Page updated: Welcome", n.Title)
	assert.Contains(t, n.Message, "alice")
	assert.Equal(t, "/page/welcome", n.URL)
	assert.False(t, n.IsRead)
	assert.False(t, n.IsSent)

	assert.Equal(t, []uint{n.ID}, f.scheduler.enqueued())
}

func TestProcessSkipsWatcherOfOtherKind(t *testing.T) {
	f := newFanoutFixture(t)
	actor := seedUser(t, f.db, "alice")
	watcher := seedUser(t, f.db, "bob")

	page := &models.Page{Title: "Welcome", Slug: "welcome", AuthorID: actor.ID}
	require.NoError(t, f.db.Create(page).Error)

	_, err := f.watches.Subscribe(watcher.ID, models.TargetPage, page.ID, []models.WatchEventKind{models.EventPageDeleted})
	require.NoError(t, err)

	created := f.processor.Process(context.Background(), NewDomainEvent(models.EventPageUpdated, models.TargetPage, page.ID, &actor.ID))
	assert.Zero(t, created)
	assert.Empty(t, f.notifications(t))
}

func TestProcessNeverNotifiesActor(t *testing.T) {
	f := newFanoutFixture(t)
	actor := seedUser(t, f.db, "alice")

	page := &models.Page{Title: "Welcome", Slug: "welcome", AuthorID: actor.ID}
	require.NoError(t, f.db.Create(page).Error)

	_, err := f.watches.Subscribe(actor.ID, models.TargetPage, page.ID, []models.WatchEventKind{models.EventPageUpdated})
	require.NoError(t, err)

	created := f.processor.Process(context.Background(), NewDomainEvent(models.EventPageUpdated, models.TargetPage, page.ID, &actor.ID))
	assert.Zero(t, created)
	assert.Empty(t, f.notifications(t))
}

func TestPageCreatedReachesAncestorCategoryWatcher(t *testing.T) {
	f := newFanoutFixture(t)
	actor := seedUser(t, f.db, "alice")
	watcher := seedUser(t, f.db, "bob")

	engineering := models.Category{Name: "Engineering"}
	require.NoError(t, f.db.Create(&engineering).Error)
	backend := models.Category{Name: "Backend", ParentID: &engineering.ID}
	require.NoError(t, f.db.Create(&backend).Error)

	_, err := f.watches.Subscribe(watcher.ID, models.TargetCategory, engineering.ID, []models.WatchEventKind{models.EventPageCreated})
	require.NoError(t, err)

	page := &models.Page{Title: "Deploy Guide", Slug: "deploy-guide", CategoryID: &backend.ID, AuthorID: actor.ID}
	require.NoError(t, f.db.Create(page).Error)

	created := f.processor.Process(context.Background(), NewDomainEvent(models.EventPageCreated, models.TargetPage, page.ID, &actor.ID))
	assert.Equal(t, 1, created)

	notifications := f.notifications(t)
	require.Len(t, notifications, 1)
	assert.Equal(t, watcher.ID, notifications[0].RecipientID)
	assert.Equal(t, "New page created: Deploy Guide", notifications[0].Title)
}

func TestOverlappingWatchesYieldOneNotification(t *testing.T) {
	f := newFanoutFixture(t)
	actor := seedUser(t, f.db, "alice")
	watcher := seedUser(t, f.db, "bob")

	engineering := models.Category{Name: "Engineering"}
	require.NoError(t, f.db.Create(&engineering).Error)
	backend := models.Category{Name: "Backend", ParentID: &engineering.ID}
	require.NoError(t, f.db.Create(&backend).Error)

	// Watching both the category and its ancestor still yields one notification
	_, err := f.watches.Subscribe(watcher.ID, models.TargetCategory, engineering.ID, []models.WatchEventKind{models.EventPageCreated})
	require.NoError(t, err)
	_, err = f.watches.Subscribe(watcher.ID, models.TargetCategory, backend.ID, []models.WatchEventKind{models.EventPageCreated})
	require.NoError(t, err)

	page := &models.Page{Title: "Deploy Guide", Slug: "deploy-guide", CategoryID: &backend.ID, AuthorID: actor.ID}
	require.NoError(t, f.db.Create(page).Error)

	created := f.processor.Process(context.Background(), NewDomainEvent(models.EventPageCreated, models.TargetPage, page.ID, &actor.ID))
	assert.Equal(t, 1, created)
	assert.Len(t, f.notifications(t), 1)
}

func TestCategoryEventPropagatesUpOnly(t *testing.T) {
	f := newFanoutFixture(t)
	actor := seedUser(t, f.db, "alice")
	rootWatcher := seedUser(t, f.db, "bob")
	childWatcher := seedUser(t, f.db, "carol")

	root := models.Category{Name: "Engineering"}
	require.NoError(t, f.db.Create(&root).Error)
	child := models.Category{Name: "Backend", ParentID: &root.ID}
	require.NoError(t, f.db.Create(&child).Error)

	_, err := f.watches.Subscribe(rootWatcher.ID, models.TargetCategory, root.ID, []models.WatchEventKind{models.EventCategoryUpdated})
	require.NoError(t, err)
	_, err = f.watches.Subscribe(childWatcher.ID, models.TargetCategory, child.ID, []models.WatchEventKind{models.EventCategoryUpdated})
	require.NoError(t, err)

	// Updating the root must not notify watchers of its children
	created := f.processor.Process(context.Background(), NewDomainEvent(models.EventCategoryUpdated, models.TargetCategory, root.ID, &actor.ID))
	assert.Equal(t, 1, created)

	notifications := f.notifications(t)
	require.Len(t, notifications, 1)
	assert.Equal(t, rootWatcher.ID, notifications[0].RecipientID)
}

func TestMentionEventBypassesWatchMatching(t *testing.T) {
	f := newFanoutFixture(t)
	actor := seedUser(t, f.db, "alice")
	mentioned := seedUser(t, f.db, "bob")

	page := &models.Page{Title: "Welcome", Slug: "welcome", AuthorID: actor.ID}
	require.NoError(t, f.db.Create(page).Error)
	comment := &models.Comment{Content: "ping @bob", TargetType: models.CommentOnPage, TargetID: page.ID, AuthorID: actor.ID}
	require.NoError(t, f.db.Create(comment).Error)
	mention := &models.CommentMention{CommentID: comment.ID, MentionedUserID: mentioned.ID, MentionedUsername: "bob"}
	require.NoError(t, f.db.Create(mention).Error)

	event := NewDomainEvent(models.EventCommentMention, models.TargetPage, page.ID, &actor.ID)
	event.CommentID = comment.ID
	event.MentionedUserID = mentioned.ID

	// bob has no watch at all, the mention still reaches him
	created := f.processor.Process(context.Background(), event)
	assert.Equal(t, 1, created)

	notifications := f.notifications(t)
	require.Len(t, notifications, 1)
	n := notifications[0]
	assert.Equal(t, mentioned.ID, n.RecipientID)
	assert.Nil(t, n.WatchID)
	assert.Contains(t, n.Title, "mentioned")
	assert.Contains(t, n.Message, "ping @bob")
	assert.Contains(t, n.URL, "#comment-")

	require.NoError(t, f.db.First(mention, mention.ID).Error)
	assert.True(t, mention.NotificationSent)
}

func TestSelfMentionIsDropped(t *testing.T) {
	f := newFanoutFixture(t)
	actor := seedUser(t, f.db, "alice")

	event := NewDomainEvent(models.EventCommentMention, models.TargetPage, 1, &actor.ID)
	event.MentionedUserID = actor.ID

	created := f.processor.Process(context.Background(), event)
	assert.Zero(t, created)
	assert.Empty(t, f.notifications(t))
}

func TestProcessDrainedHandlesBatch(t *testing.T) {
	f := newFanoutFixture(t)
	actor := seedUser(t, f.db, "alice")
	watcher := seedUser(t, f.db, "bob")

	page := &models.Page{Title: "Welcome", Slug: "welcome", AuthorID: actor.ID}
	require.NoError(t, f.db.Create(page).Error)

	_, err := f.watches.Subscribe(watcher.ID, models.TargetPage, page.ID, []models.WatchEventKind{models.EventPageUpdated, models.EventAttachmentAdded})
	require.NoError(t, err)

	events := []DomainEvent{
		NewDomainEvent(models.EventPageUpdated, models.TargetPage, page.ID, &actor.ID),
		NewDomainEvent(models.EventAttachmentAdded, models.TargetPage, page.ID, &actor.ID),
	}
	created := f.processor.ProcessDrained(context.Background(), events)
	assert.Equal(t, 2, created)
	assert.Len(t, f.notifications(t), 2)
	assert.Len(t, f.scheduler.enqueued(), 2)
}
