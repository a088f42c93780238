package ui

import (
	"fractureid/internal/domain"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event domain.DomainEvent
}

// queryDebounceMsg fires when typing has paused. Stale ticks carry an
// older seq and are ignored.
type queryDebounceMsg struct {
	seq int
}

// copiedMsg reports the result of a clipboard write
type copiedMsg struct {
	title string
	err   error
}
