package models

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User represents a wiki user (PostgreSQL)
type User struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Username    string `json:"username" gorm:"size:64;uniqueIndex;not null"`
	Name        string `json:"name" gorm:"size:100"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	Password    string `json:"-"` // Store hashed password, ignore for JSON serialization
	DeviceToken string `json:"-"` // Push registration token, empty when the user has no device

	// NotificationSettings is a JSON object of delivery preference toggles
	NotificationSettings string `json:"-" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotificationSettingKeys are the recognized preference toggles. Unset keys
// default to enabled.
const (
	SettingPushNotifications    = "push_notifications"
	SettingWatchNotifications   = "watch_notifications"
	SettingMentionNotifications = "mention_notifications"
	SettingCommentNotifications = "comment_notifications"
)

// GetNotificationSettings decodes the preference blob, falling back to all-enabled
func (u *User) GetNotificationSettings() map[string]bool {
	settings := map[string]bool{
		SettingPushNotifications:    true,
		SettingWatchNotifications:   true,
		SettingMentionNotifications: true,
		SettingCommentNotifications: true,
	}
	if u.NotificationSettings == "" {
		return settings
	}
	var stored map[string]bool
	if err := json.Unmarshal([]byte(u.NotificationSettings), &stored); err != nil {
		return settings
	}
	for k, v := range stored {
		settings[k] = v
	}
	return settings
}

// SetNotificationSettings replaces the preference blob
func (u *User) SetNotificationSettings(settings map[string]bool) {
	data, err := json.Marshal(settings)
	if err != nil {
		return
	}
	u.NotificationSettings = string(data)
}

// ShouldReceiveNotification resolves the global toggle plus the per-kind toggle
// for the given event kind. Preferences are read at delivery time, not capture time.
func (u *User) ShouldReceiveNotification(kind WatchEventKind) bool {
	settings := u.GetNotificationSettings()
	if !settings[SettingPushNotifications] {
		return false
	}
	switch kind {
	case EventCommentMention:
		return settings[SettingMentionNotifications]
	case EventCommentAdded:
		return settings[SettingCommentNotifications]
	default:
		return settings[SettingWatchNotifications]
	}
}

// CreateUserRequest defines the request body for registering a user
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64,alphanum"`
	Name     string `json:"name" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest defines the request body for updating a profile
type UpdateUserRequest struct {
	Name        string          `json:"name,omitempty" validate:"omitempty,max=100"`
	Email       string          `json:"email,omitempty" validate:"omitempty,email"`
	DeviceToken string          `json:"device_token,omitempty"`
	Settings    map[string]bool `json:"notification_settings,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
