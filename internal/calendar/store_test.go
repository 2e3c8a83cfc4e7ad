package calendar

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeUnderTest lets the same behavioral checks run against both
// implementations.
func stores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"sqlite": sqlite,
		"memory": NewMemory(),
	}
}

func TestCreateAndQuery(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			later := &Event{
				Title: "复盘",
				Start: day.Add(18 * time.Hour),
				End:   day.Add(19 * time.Hour),
			}
			require.NoError(t, store.CreateEvent(ctx, later))

			earlier := &Event{
				Title: "吉他练习",
				Start: day.Add(9 * time.Hour),
				End:   day.Add(10 * time.Hour),
				Notes: "第三章",
			}
			require.NoError(t, store.CreateEvent(ctx, earlier))

			assert.NotZero(t, later.ID)
			assert.NotZero(t, earlier.ID)
			assert.NotEqual(t, later.ID, earlier.ID)

			events, err := store.EventsBetween(ctx, day, day.AddDate(0, 0, 1))
			require.NoError(t, err)
			require.Len(t, events, 2)

			// Ordered by start time regardless of insertion order.
			assert.Equal(t, "吉他练习", events[0].Title)
			assert.Equal(t, "第三章", events[0].Notes)
			assert.Equal(t, "复盘", events[1].Title)
			assert.True(t, events[0].Start.Equal(earlier.Start))
		})
	}
}

func TestQueryWindowExcludesOutside(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			yesterday := &Event{Title: "昨天", Start: day.Add(-2 * time.Hour), End: day.Add(-1 * time.Hour)}
			require.NoError(t, store.CreateEvent(ctx, yesterday))

			tomorrow := &Event{Title: "明天", Start: day.AddDate(0, 0, 1), End: day.AddDate(0, 0, 1).Add(time.Hour)}
			require.NoError(t, store.CreateEvent(ctx, tomorrow))

			today := &Event{Title: "今天", Start: day.Add(12 * time.Hour), End: day.Add(13 * time.Hour)}
			require.NoError(t, store.CreateEvent(ctx, today))

			events, err := store.EventsBetween(ctx, day, day.AddDate(0, 0, 1))
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, "今天", events[0].Title)
		})
	}
}

func TestEmptyWindow(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			events, err := store.EventsBetween(context.Background(),
				time.Now(), time.Now().Add(time.Hour))
			require.NoError(t, err)
			assert.Empty(t, events)
		})
	}
}
