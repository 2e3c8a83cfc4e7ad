// Package calendar provides the local event storage the calendar tool
// executor writes to and queries. It stands in for the device calendar
// database behind a narrow Store interface.
package calendar

import (
	"context"
	"time"
)

// Event is a single calendar entry.
type Event struct {
	ID    int64
	Title string
	Start time.Time
	End   time.Time
	Notes string
}

// Store persists calendar events.
type Store interface {
	// CreateEvent inserts an event and populates its ID.
	CreateEvent(ctx context.Context, event *Event) error

	// EventsBetween returns events with Start in [from, to), ordered by
	// start time ascending. An empty day returns an empty slice, not an
	// error.
	EventsBetween(ctx context.Context, from, to time.Time) ([]Event, error)

	// Close releases underlying resources.
	Close() error
}
