package models

import "time"

// Notification represents a per-recipient watch notification (PostgreSQL)
type Notification struct {
	ID          uint  `json:"id" gorm:"primaryKey"`
	RecipientID uint  `json:"recipient_id" gorm:"index:idx_notifications_recipient_read;not null"`
	WatchID     *uint `json:"watch_id,omitempty"` // nil for direct mention notifications

	EventType  WatchEventKind  `json:"event_type" gorm:"size:30;not null"`
	TargetType WatchTargetType `json:"target_type" gorm:"size:20;not null"`
	TargetID   uint            `json:"target_id" gorm:"not null"`
	ActorID    *uint           `json:"actor_id,omitempty" gorm:"index"`

	Title   string `json:"title" gorm:"size:255"`
	Message string `json:"message"`
	URL     string `json:"url" gorm:"size:500"`

	IsRead    bool       `json:"is_read" gorm:"default:false;index:idx_notifications_recipient_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	IsSent    bool       `json:"-" gorm:"default:false"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
}
