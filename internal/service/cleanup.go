package service

import (
	"time"

	"github.com/ridwan-io/wikinote/backend/internal/repositories"
	"github.com/rs/zerolog"
)

// Janitor periodically deletes notifications past the retention window.
// Housekeeping only; not correctness-critical.
type Janitor struct {
	notifications repositories.NotificationRepository
	retention     time.Duration
	interval      time.Duration
	log           zerolog.Logger
	stop          chan struct{}
}

// NewJanitor creates a Janitor sweeping at the given interval
func NewJanitor(notifications repositories.NotificationRepository, retention, interval time.Duration, log zerolog.Logger) *Janitor {
	return &Janitor{
		notifications: notifications,
		retention:     retention,
		interval:      interval,
		log:           log,
		stop:          make(chan struct{}),
	}
}

// Start launches the background sweep loop
func (j *Janitor) Start() {
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-j.stop:
				return
			case <-ticker.C:
				j.SweepOnce()
			}
		}
	}()
}

// Stop terminates the sweep loop
func (j *Janitor) Stop() {
	close(j.stop)
}

// SweepOnce deletes notifications older than the retention window
func (j *Janitor) SweepOnce() {
	cutoff := time.Now().UTC().Add(-j.retention)
	deleted, err := j.notifications.DeleteOlderThan(cutoff)
	if err != nil {
		j.log.Error().Err(err).Msg("notification cleanup failed")
		return
	}
	if deleted > 0 {
		j.log.Info().Int64("deleted", deleted).Msg("old notifications cleaned up")
	}
}
