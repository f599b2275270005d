package push

import (
	"context"
	"strconv"

	"firebase.google.com/go/v4/messaging"
	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/rs/zerolog"
)

// FCMSender delivers notifications as FCM push messages
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender creates a new FCMSender
func NewFCMSender(client *messaging.Client) *FCMSender {
	return &FCMSender{client: client}
}

// Send pushes the notification to the recipient's registered device. Users
// without a device token are silently skipped; the notification row stays
// readable in-app either way.
func (s *FCMSender) Send(ctx context.Context, user *models.User, notification *models.Notification) error {
	if user.DeviceToken == "" {
		return nil
	}

	message := &messaging.Message{
		Token: user.DeviceToken,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Message,
		},
		Data: map[string]string{
			"notification_id": strconv.FormatUint(uint64(notification.ID), 10),
			"event_type":      string(notification.EventType),
			"target_type":     string(notification.TargetType),
			"target_id":       strconv.FormatUint(uint64(notification.TargetID), 10),
			"url":             notification.URL,
		},
	}

	_, err := s.client.Send(ctx, message)
	return err
}

// LogSender records deliveries in the log instead of pushing them. It stands
// in for FCM when no Firebase credentials are configured, which keeps local
// development working without a Firebase project.
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender creates a new LogSender
func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send logs the delivery and reports success
func (s *LogSender) Send(_ context.Context, user *models.User, notification *models.Notification) error {
	s.log.Info().
		Uint("recipient_id", user.ID).
		Uint("notification_id", notification.ID).
		Str("event_type", string(notification.EventType)).
		Str("title", notification.Title).
		Msg("notification delivered (log sender)")
	return nil
}
