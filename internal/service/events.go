package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/ridwan-io/wikinote/backend/internal/models"
)

// DomainEvent is an ephemeral descriptor of a state change to a watched
// entity. It is captured at a mutation point, drained once at the end of the
// unit of work, consumed by the fan-out processor, and discarded.
type DomainEvent struct {
	// ID correlates log lines across capture, fan-out and delivery
	ID         string
	Kind       models.WatchEventKind
	TargetType models.WatchTargetType
	TargetID   uint
	ActorID    *uint

	// CommentID is set for comment_added and comment_mention events
	CommentID uint
	// MentionedUserID routes comment_mention straight to its recipient,
	// bypassing subscription matching
	MentionedUserID uint

	OccurredAt time.Time
}

// NewDomainEvent builds an event descriptor for a mutation on a watched target
func NewDomainEvent(kind models.WatchEventKind, targetType models.WatchTargetType, targetID uint, actorID *uint) DomainEvent {
	return DomainEvent{
		ID:         uuid.New().String(),
		Kind:       kind,
		TargetType: targetType,
		TargetID:   targetID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}

// Recorder is the pending event queue for a single unit of work. It is an
// append-only buffer owned by exactly one request; it is not safe for use
// from multiple goroutines and is not durable across process termination.
type Recorder struct {
	events []DomainEvent
}

// NewRecorder creates an empty per-request event recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Capture appends an event descriptor. It performs no reads, no matching and
// no persistence; all of that happens at drain time.
func (r *Recorder) Capture(event DomainEvent) {
	r.events = append(r.events, event)
}

// Drain returns the captured events in capture order and empties the buffer.
// Draining an empty recorder returns nil.
func (r *Recorder) Drain() []DomainEvent {
	events := r.events
	r.events = nil
	return events
}

// Len reports how many events are pending
func (r *Recorder) Len() int {
	return len(r.events)
}
