package models

import "errors"

// Sentinel errors shared across repositories, services and handlers.
var (
	// ErrInvalidTarget is returned when a target kind is not a known watchable kind.
	ErrInvalidTarget = errors.New("invalid target type")
	// ErrInvalidEventKind is returned when an event kind is not one of the wire-stable kinds.
	ErrInvalidEventKind = errors.New("invalid event kind")
	// ErrTargetNotFound is returned when the watched page or category does not exist.
	ErrTargetNotFound = errors.New("target not found")
	// ErrTransientDelivery wraps outbound send failures; the notification stays unsent.
	ErrTransientDelivery = errors.New("transient delivery failure")
	// ErrCategoryCycle is returned when reparenting a category would create a cycle.
	ErrCategoryCycle = errors.New("category parent would create a cycle")
)
