package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/repositories"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeSender counts successful sends and can be forced to fail
type fakeSender struct {
	mu    sync.Mutex
	sends []uint
	err   error
	block bool
}

func (s *fakeSender) Send(ctx context.Context, _ *models.User, notification *models.Notification) error {
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends = append(s.sends, notification.ID)
	return nil
}

func (s *fakeSender) sent() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint(nil), s.sends...)
}

type deliveryFixture struct {
	db            *gorm.DB
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	sender        *fakeSender
}

func newDeliveryFixture(t *testing.T) *deliveryFixture {
	t.Helper()
	db := openTestDB(t)
	return &deliveryFixture{
		db:            db,
		notifications: repositories.NewPostgresNotificationRepository(db),
		users:         repositories.NewPostgresUserRepository(db),
		sender:        &fakeSender{},
	}
}

func (f *deliveryFixture) dispatcher(timeout time.Duration) *Dispatcher {
	return NewDispatcher(f.notifications, f.users, f.sender, 2, timeout, zerolog.Nop())
}

func (f *deliveryFixture) seedNotification(t *testing.T, recipientID uint) *models.Notification {
	t.Helper()
	notification := &models.Notification{
		RecipientID: recipientID,
		EventType:   models.EventPageUpdated,
		TargetType:  models.TargetPage,
		TargetID:    1,
		Title:       "Page updated: Welcome",
	}
	require.NoError(t, f.notifications.CreateNotification(notification))
	return notification
}

func TestDuplicateTasksSendOnce(t *testing.T) {
	f := newDeliveryFixture(t)
	user := seedUser(t, f.db, "bob")
	notification := f.seedNotification(t, user.ID)

	d := f.dispatcher(time.Second)
	d.Enqueue(notification.ID)
	d.Enqueue(notification.ID)
	d.Stop()

	assert.Equal(t, []uint{notification.ID}, f.sender.sent())

	stored, err := f.notifications.GetByID(notification.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsSent)
}

func TestDeliveryRespectsRecipientPreferences(t *testing.T) {
	f := newDeliveryFixture(t)
	user := seedUser(t, f.db, "bob")
	user.SetNotificationSettings(map[string]bool{models.SettingPushNotifications: false})
	require.NoError(t, f.users.UpdateUser(user))

	notification := f.seedNotification(t, user.ID)

	d := f.dispatcher(time.Second)
	d.Enqueue(notification.ID)
	d.Stop()

	assert.Empty(t, f.sender.sent())

	stored, err := f.notifications.GetByID(notification.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsSent)
}

func TestPerKindPreferenceGatesDelivery(t *testing.T) {
	f := newDeliveryFixture(t)
	user := seedUser(t, f.db, "bob")
	user.SetNotificationSettings(map[string]bool{models.SettingWatchNotifications: false})
	require.NoError(t, f.users.UpdateUser(user))

	watchNotification := f.seedNotification(t, user.ID)

	mentionNotification := &models.Notification{
		RecipientID: user.ID,
		EventType:   models.EventCommentMention,
		TargetType:  models.TargetPage,
		TargetID:    1,
		Title:       "You were mentioned",
	}
	require.NoError(t, f.notifications.CreateNotification(mentionNotification))

	d := f.dispatcher(time.Second)
	d.Enqueue(watchNotification.ID)
	d.Enqueue(mentionNotification.ID)
	d.Stop()

	assert.Equal(t, []uint{mentionNotification.ID}, f.sender.sent())
}

func TestFailedSendLeavesNotificationUnsent(t *testing.T) {
	f := newDeliveryFixture(t)
	user := seedUser(t, f.db, "bob")
	notification := f.seedNotification(t, user.ID)

	f.sender.err = errors.New("fcm unavailable")

	d := f.dispatcher(time.Second)
	d.Enqueue(notification.ID)
	d.Stop()

	stored, err := f.notifications.GetByID(notification.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsSent)
}

func TestSendTimeoutIsTreatedAsFailure(t *testing.T) {
	f := newDeliveryFixture(t)
	user := seedUser(t, f.db, "bob")
	notification := f.seedNotification(t, user.ID)

	f.sender.block = true

	d := f.dispatcher(20 * time.Millisecond)
	d.Enqueue(notification.ID)
	d.Stop()

	stored, err := f.notifications.GetByID(notification.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsSent)
}

func TestStopIsIdempotent(t *testing.T) {
	f := newDeliveryFixture(t)
	d := f.dispatcher(time.Second)
	d.Stop()
	d.Stop()
}
