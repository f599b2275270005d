package repositories

import (
	"time"

	"github.com/ridwan-io/wikinote/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByID(id uint) (*models.Notification, error)
	GetByRecipientID(recipientID uint, unreadOnly bool, offset, limit int) ([]models.Notification, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID, recipientID uint) (bool, error)
	MarkAllAsRead(recipientID uint) (int64, error)
	ClaimForSend(notificationID uint) (bool, error)
	RevertSendClaim(notificationID uint) error
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// PostgresNotificationRepository implements NotificationRepository for PostgreSQL
type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// CreateNotification creates a new notification in PostgreSQL
func (r *PostgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// GetByID retrieves a notification by ID from PostgreSQL
func (r *PostgresNotificationRepository) GetByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// GetByRecipientID retrieves a recipient's notifications, newest first
func (r *PostgresNotificationRepository) GetByRecipientID(recipientID uint, unreadOnly bool, offset, limit int) ([]models.Notification, error) {
	query := r.db.Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// GetUnreadCount returns the recipient's unread notification count
func (r *PostgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead marks the recipient's notification as read. Marking an
// already-read notification is a no-op that leaves read_at unchanged and
// still reports success.
func (r *PostgresNotificationRepository) MarkAsRead(notificationID, recipientID uint) (bool, error) {
	var notification models.Notification
	err := r.db.Where("id = ? AND recipient_id = ?", notificationID, recipientID).First(&notification).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if notification.IsRead {
		return true, nil
	}

	now := time.Now().UTC()
	err = r.db.Model(&notification).Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkAllAsRead marks all of the recipient's unread notifications as read
// and returns how many rows changed
func (r *PostgresNotificationRepository) MarkAllAsRead(recipientID uint) (int64, error) {
	now := time.Now().UTC()
	res := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return res.RowsAffected, res.Error
}

// ClaimForSend atomically flips is_sent from false to true. A false return
// means another worker already owns the send for this notification.
func (r *PostgresNotificationRepository) ClaimForSend(notificationID uint) (bool, error) {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND is_sent = ?", notificationID, false).
		Update("is_sent", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RevertSendClaim releases a claim after a failed send so the notification
// stays visible as unsent
func (r *PostgresNotificationRepository) RevertSendClaim(notificationID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("is_sent", false).Error
}

// DeleteOlderThan removes notifications created before the cutoff
func (r *PostgresNotificationRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", cutoff).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
