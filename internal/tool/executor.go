// Package tool implements the executors that perform the actual platform
// side effect for each native-action family. Executors assume the
// dispatcher has already established permission; they only validate
// parameters and do the work.
package tool

import (
	"time"

	"github.com/tinglabs/companion/internal/action"
	"github.com/tinglabs/companion/internal/calendar"
)

// URLOpener deep-links into another application surface. The terminal
// front end prints the link; a mobile shell would hand it to the OS.
type URLOpener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to URLOpener.
type OpenerFunc func(url string) error

// Open calls the function.
func (f OpenerFunc) Open(url string) error { return f(url) }

// Registry builds the default executor set keyed by tool wire name.
// now is injectable for deterministic tests; nil means time.Now.
func Registry(store calendar.Store, opener URLOpener, now func() time.Time) map[string]action.Executor {
	if now == nil {
		now = time.Now
	}
	return map[string]action.Executor{
		action.ToolAlarm:      &AlarmExecutor{Opener: opener},
		action.ToolCalendar:   &CalendarExecutor{Store: store, Now: now},
		action.ToolHealth:     &HealthExecutor{},
		action.ToolScreenTime: &ScreenTimeExecutor{},
	}
}

// datetime layouts accepted from the backend, most specific first. A bare
// clock time resolves to today.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"15:04",
}

// parseDateTime parses a backend-supplied date/time string. Time-only
// values are anchored to the current day.
func parseDateTime(s string, now time.Time) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		t, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			continue
		}
		if layout == "15:04" {
			t = time.Date(now.Year(), now.Month(), now.Day(),
				t.Hour(), t.Minute(), 0, 0, now.Location())
		}
		return t, true
	}
	return time.Time{}, false
}
