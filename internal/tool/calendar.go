package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tinglabs/companion/internal/action"
	"github.com/tinglabs/companion/internal/calendar"
)

// defaultEventDuration pads an event whose end time the backend omitted.
const defaultEventDuration = time.Hour

// CalendarExecutor handles calendar_manager actions against the local
// event store. Permission gating happens in the dispatcher; by the time
// Execute runs, calendar access is authorized.
type CalendarExecutor struct {
	Store calendar.Store
	Now   func() time.Time
}

// Execute handles create_event and query_events.
func (e *CalendarExecutor) Execute(ctx context.Context, act action.Action) action.Result {
	switch act.Name {
	case action.ActionCreateEvent:
		return e.createEvent(ctx, act)
	case action.ActionQueryEvents:
		return e.queryEvents(ctx)
	default:
		return action.Failed(fmt.Sprintf("Unknown calendar action: %s", act.Name))
	}
}

func (e *CalendarExecutor) createEvent(ctx context.Context, act action.Action) action.Result {
	params, err := act.CreateEventParams()
	if err != nil {
		return action.Failed(err.Error())
	}
	if params.Title == "" {
		return action.Failed("Missing event title")
	}

	now := e.Now()
	start, ok := parseDateTime(params.StartTime, now)
	if params.StartTime == "" || !ok {
		return action.Failed("Missing or invalid start time")
	}

	end := start.Add(defaultEventDuration)
	if params.EndTime != "" {
		if parsed, ok := parseDateTime(params.EndTime, now); ok {
			end = parsed
		}
	}

	event := &calendar.Event{
		Title: params.Title,
		Start: start,
		End:   end,
		Notes: params.Notes,
	}
	if err := e.Store.CreateEvent(ctx, event); err != nil {
		return action.Failed(fmt.Sprintf("创建日程失败: %s", err))
	}

	return action.Success(fmt.Sprintf("已创建日程「%s」", params.Title))
}

// queryEvents lists today's events. An empty day is a normal answer,
// never an error.
func (e *CalendarExecutor) queryEvents(ctx context.Context) action.Result {
	now := e.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	events, err := e.Store.EventsBetween(ctx, startOfDay, endOfDay)
	if err != nil {
		return action.Failed(fmt.Sprintf("查询日程失败: %s", err))
	}

	if len(events) == 0 {
		return action.Success("今天没有日程安排")
	}

	lines := make([]string, 0, len(events))
	for _, ev := range events {
		title := ev.Title
		if title == "" {
			title = "无标题"
		}
		lines = append(lines, fmt.Sprintf("• %s %s", ev.Start.Format("15:04"), title))
	}

	return action.Success("今天的日程：\n" + strings.Join(lines, "\n"))
}
