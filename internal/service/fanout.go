package service

import (
	"context"

	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/repositories"
	"github.com/rs/zerolog"
)

// Scheduler accepts a newly persisted notification for asynchronous delivery
type Scheduler interface {
	Enqueue(notificationID uint)
}

// FanoutProcessor resolves drained events to interested recipients and
// persists one notification per recipient. It is the only entry point into
// the notification pipeline; producers never call it directly, they capture
// events into the request's Recorder and the recorder middleware drains here.
type FanoutProcessor struct {
	watches       repositories.WatchRepository
	notifications repositories.NotificationRepository
	pages         repositories.PageRepository
	mentions      repositories.MentionRepository
	renderer      *Renderer
	scheduler     Scheduler
	log           zerolog.Logger
}

// NewFanoutProcessor creates a new FanoutProcessor
func NewFanoutProcessor(
	watches repositories.WatchRepository,
	notifications repositories.NotificationRepository,
	pages repositories.PageRepository,
	mentions repositories.MentionRepository,
	renderer *Renderer,
	scheduler Scheduler,
	log zerolog.Logger,
) *FanoutProcessor {
	return &FanoutProcessor{
		watches:       watches,
		notifications: notifications,
		pages:         pages,
		mentions:      mentions,
		renderer:      renderer,
		scheduler:     scheduler,
		log:           log,
	}
}

// ProcessDrained runs every drained event through the matcher. A failing
// event is logged and skipped; it never aborts the rest of the batch.
// Returns the total number of notifications created.
func (p *FanoutProcessor) ProcessDrained(ctx context.Context, events []DomainEvent) int {
	total := 0
	for _, event := range events {
		total += p.Process(ctx, event)
	}
	return total
}

// Process fans one event out to its recipients and returns the number of
// notifications created.
func (p *FanoutProcessor) Process(ctx context.Context, event DomainEvent) int {
	if event.Kind == models.EventCommentMention {
		return p.processMention(event)
	}

	matches, err := p.match(event)
	if err != nil {
		p.log.Error().Err(err).
			Str("event_id", event.ID).
			Str("kind", string(event.Kind)).
			Msg("fanout matching failed")
		return 0
	}

	// Dedupe by subscriber: a user watching both a page and one of its
	// ancestor categories gets a single notification per event.
	seen := make(map[uint]bool)
	created := 0
	for _, watch := range matches {
		if seen[watch.UserID] {
			continue
		}
		seen[watch.UserID] = true

		// No self-notification
		if event.ActorID != nil && watch.UserID == *event.ActorID {
			continue
		}

		watchID := watch.ID
		notification := &models.Notification{
			RecipientID: watch.UserID,
			WatchID:     &watchID,
			EventType:   event.Kind,
			TargetType:  event.TargetType,
			TargetID:    event.TargetID,
			ActorID:     event.ActorID,
		}
		p.renderer.Render(event, notification)

		// Per-recipient isolation: one failed insert must not block the rest
		if err := p.notifications.CreateNotification(notification); err != nil {
			p.log.Error().Err(err).
				Str("event_id", event.ID).
				Uint("recipient_id", watch.UserID).
				Msg("failed to persist notification")
			continue
		}
		p.scheduler.Enqueue(notification.ID)
		created++
	}

	p.log.Debug().
		Str("event_id", event.ID).
		Str("kind", string(event.Kind)).
		Int("created", created).
		Msg("event fanned out")
	return created
}

// match resolves the interested watch set for a non-mention event: direct
// matches on the target, plus ancestor-chain matches for category targets,
// plus the containing category's chain when a page is created inside one.
func (p *FanoutProcessor) match(event DomainEvent) ([]models.Watch, error) {
	switch event.TargetType {
	case models.TargetPage:
		matches, err := p.watches.FindInterested(models.TargetPage, event.TargetID, event.Kind)
		if err != nil {
			return nil, err
		}
		if event.Kind == models.EventPageCreated {
			page, err := p.pages.GetPageByID(event.TargetID)
			if err == nil && page.CategoryID != nil {
				containerMatches, err := p.watches.FindInterestedWithAncestors(*page.CategoryID, event.Kind)
				if err != nil {
					return nil, err
				}
				matches = append(matches, containerMatches...)
			}
		}
		return matches, nil

	case models.TargetCategory:
		return p.watches.FindInterestedWithAncestors(event.TargetID, event.Kind)
	}
	return nil, models.ErrInvalidTarget
}

// processMention notifies the mentioned user directly; a mention always
// reaches its target regardless of watch state.
func (p *FanoutProcessor) processMention(event DomainEvent) int {
	if event.MentionedUserID == 0 {
		return 0
	}
	if event.ActorID != nil && event.MentionedUserID == *event.ActorID {
		return 0
	}

	notification := &models.Notification{
		RecipientID: event.MentionedUserID,
		EventType:   event.Kind,
		TargetType:  event.TargetType,
		TargetID:    event.TargetID,
		ActorID:     event.ActorID,
	}
	p.renderer.Render(event, notification)

	if err := p.notifications.CreateNotification(notification); err != nil {
		p.log.Error().Err(err).
			Str("event_id", event.ID).
			Uint("recipient_id", event.MentionedUserID).
			Msg("failed to persist mention notification")
		return 0
	}
	p.scheduler.Enqueue(notification.ID)

	if event.CommentID != 0 {
		if err := p.mentions.MarkNotified(event.CommentID, event.MentionedUserID); err != nil {
			p.log.Error().Err(err).
				Uint("comment_id", event.CommentID).
				Uint("user_id", event.MentionedUserID).
				Msg("failed to flag mention as notified")
		}
	}
	return 1
}
