package calendar

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used in tests and as a fallback when
// no database path is configured.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	events []Event

	// CreateErr, if set, is returned by CreateEvent. Lets tests exercise
	// write-failure paths.
	CreateErr error
}

// NewMemory creates an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// CreateEvent inserts an event and populates its ID.
func (s *MemoryStore) CreateEvent(ctx context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateErr != nil {
		return s.CreateErr
	}

	event.ID = s.nextID
	s.nextID++
	s.events = append(s.events, *event)
	return nil
}

// EventsBetween returns events with Start in [from, to) ordered by start time.
func (s *MemoryStore) EventsBetween(ctx context.Context, from, to time.Time) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Event
	for _, e := range s.events {
		if !e.Start.Before(from) && e.Start.Before(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
