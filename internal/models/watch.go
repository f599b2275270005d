package models

import (
	"encoding/json"
	"time"
)

// WatchTargetType identifies what kind of entity a watch points at
type WatchTargetType string

const (
	TargetPage     WatchTargetType = "page"
	TargetCategory WatchTargetType = "category"
)

// Valid reports whether the target type is a known watchable kind
func (t WatchTargetType) Valid() bool {
	return t == TargetPage || t == TargetCategory
}

// WatchEventKind is a wire-stable event kind identifier
type WatchEventKind string

const (
	EventPageCreated       WatchEventKind = "page_created"
	EventPageUpdated       WatchEventKind = "page_updated"
	EventPageDeleted       WatchEventKind = "page_deleted"
	EventCategoryCreated   WatchEventKind = "category_created"
	EventCategoryUpdated   WatchEventKind = "category_updated"
	EventCategoryDeleted   WatchEventKind = "category_deleted"
	EventAttachmentAdded   WatchEventKind = "attachment_added"
	EventAttachmentRemoved WatchEventKind = "attachment_removed"
	EventCommentAdded      WatchEventKind = "comment_added"
	EventCommentMention    WatchEventKind = "comment_mention"
)

// Valid reports whether the event kind is one of the wire-stable identifiers
func (k WatchEventKind) Valid() bool {
	switch k {
	case EventPageCreated, EventPageUpdated, EventPageDeleted,
		EventCategoryCreated, EventCategoryUpdated, EventCategoryDeleted,
		EventAttachmentAdded, EventAttachmentRemoved,
		EventCommentAdded, EventCommentMention:
		return true
	}
	return false
}

// DefaultEventsFor returns the event kinds a new watch listens to when the
// subscriber did not pick any explicitly.
func DefaultEventsFor(targetType WatchTargetType) []WatchEventKind {
	switch targetType {
	case TargetPage:
		return []WatchEventKind{EventPageUpdated, EventPageDeleted, EventAttachmentAdded, EventAttachmentRemoved}
	case TargetCategory:
		return []WatchEventKind{EventPageCreated, EventPageUpdated, EventPageDeleted, EventCategoryUpdated}
	}
	return nil
}

// Watch represents a user's subscription to a page or category (PostgreSQL)
type Watch struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserID     uint            `json:"user_id" gorm:"index;uniqueIndex:idx_watches_user_target;not null"`
	TargetType WatchTargetType `json:"target_type" gorm:"size:20;uniqueIndex:idx_watches_user_target;index:idx_watches_target;not null"`
	TargetID   uint            `json:"target_id" gorm:"uniqueIndex:idx_watches_user_target;index:idx_watches_target;not null"`

	// WatchedEvents is a JSON array of WatchEventKind strings
	WatchedEvents string `json:"-" gorm:"type:text;default:'[]'"`

	IsActive  bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetWatchedEvents decodes the stored event kind set
func (w *Watch) GetWatchedEvents() []WatchEventKind {
	if w.WatchedEvents == "" {
		return nil
	}
	var events []WatchEventKind
	if err := json.Unmarshal([]byte(w.WatchedEvents), &events); err != nil {
		return nil
	}
	return events
}

// SetWatchedEvents replaces the stored event kind set
func (w *Watch) SetWatchedEvents(events []WatchEventKind) {
	if events == nil {
		events = []WatchEventKind{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		w.WatchedEvents = "[]"
		return
	}
	w.WatchedEvents = string(data)
}

// IsWatchingEvent reports whether the watch listens to the given kind
func (w *Watch) IsWatchingEvent(kind WatchEventKind) bool {
	for _, e := range w.GetWatchedEvents() {
		if e == kind {
			return true
		}
	}
	return false
}

// WatchRequest defines the request body for creating or toggling a watch
type WatchRequest struct {
	TargetType string   `json:"target_type" validate:"required,oneof=page category"`
	TargetID   uint     `json:"target_id" validate:"required"`
	Events     []string `json:"events" validate:"dive,oneof=page_created page_updated page_deleted category_created category_updated category_deleted attachment_added attachment_removed comment_added comment_mention"`
}

// UnwatchRequest defines the request body for removing a watch
type UnwatchRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=page category"`
	TargetID   uint   `json:"target_id" validate:"required"`
}
