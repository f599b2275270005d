package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/repositories"
	"github.com/rs/zerolog"
)

// Sender pushes one rendered notification to a recipient over an external
// channel. Implementations must treat the context deadline as the send budget.
type Sender interface {
	Send(ctx context.Context, recipient *models.User, notification *models.Notification) error
}

// Dispatcher delivers notifications asynchronously on a bounded worker pool.
// Workers hold their own repository handles and run strictly after the
// originating request committed, so they always observe a durable row.
// There is no ordering across tasks and no automatic retry: a failed send is
// logged and the notification stays unsent.
type Dispatcher struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	sender        Sender
	timeout       time.Duration
	log           zerolog.Logger

	queue chan uint
	wg    sync.WaitGroup
	once  sync.Once
}

// NewDispatcher creates a Dispatcher with the given worker count
func NewDispatcher(notifications repositories.NotificationRepository, users repositories.UserRepository, sender Sender, workers int, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	d := &Dispatcher{
		notifications: notifications,
		users:         users,
		sender:        sender,
		timeout:       timeout,
		log:           log,
		queue:         make(chan uint, 1024),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Enqueue schedules one delivery task for a newly created notification.
// Fire-and-forget: when the queue is saturated the task is dropped and
// logged, consistent with delivery being non-durable and retry-free.
func (d *Dispatcher) Enqueue(notificationID uint) {
	select {
	case d.queue <- notificationID:
	default:
		d.log.Warn().Uint("notification_id", notificationID).Msg("delivery queue full, dropping task")
	}
}

// Stop drains the queue and waits for in-flight deliveries to finish
func (d *Dispatcher) Stop() {
	d.once.Do(func() { close(d.queue) })
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for id := range d.queue {
		if err := d.deliver(id); err != nil {
			d.log.Error().Err(err).Uint("notification_id", id).Msg("delivery failed")
		}
	}
}

// deliver is idempotent: it re-reads the notification and returns immediately
// when it is already sent. The sent flag is claimed with an atomic conditional
// update before the outbound call, so two concurrently scheduled deliveries
// for the same notification cannot both send.
func (d *Dispatcher) deliver(notificationID uint) error {
	notification, err := d.notifications.GetByID(notificationID)
	if err != nil {
		return fmt.Errorf("load notification: %w", err)
	}
	if notification.IsSent {
		return nil
	}

	recipient, err := d.users.GetUserByID(notification.RecipientID)
	if err != nil {
		return fmt.Errorf("load recipient: %w", err)
	}

	// Preferences are resolved at delivery time, not capture time
	if !recipient.ShouldReceiveNotification(notification.EventType) {
		d.log.Debug().
			Uint("notification_id", notificationID).
			Uint("recipient_id", recipient.ID).
			Msg("delivery skipped by recipient preferences")
		return nil
	}

	claimed, err := d.notifications.ClaimForSend(notificationID)
	if err != nil {
		return fmt.Errorf("claim send: %w", err)
	}
	if !claimed {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sender.Send(ctx, recipient, notification); err != nil {
		if revertErr := d.notifications.RevertSendClaim(notificationID); revertErr != nil {
			d.log.Error().Err(revertErr).Uint("notification_id", notificationID).Msg("failed to release send claim")
		}
		return fmt.Errorf("%w: %v", models.ErrTransientDelivery, err)
	}
	return nil
}
