package tool

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tinglabs/companion/internal/action"
)

// ClockURL is the deep link into the system clock surface. There is no
// scheme for creating an alarm directly, so the executor opens the clock
// and asks the user to finish by hand. It cannot verify the alarm was
// actually created; the confirmation message says so.
const ClockURL = "clock-alarm://"

// defaultAlarmLabel is used when the backend omits a label.
const defaultAlarmLabel = "闹钟"

// AlarmExecutor handles alarm_manager actions. Alarms are ungated: the
// deep link needs no runtime permission.
type AlarmExecutor struct {
	Opener URLOpener
}

// Execute handles create_alarm.
func (e *AlarmExecutor) Execute(ctx context.Context, act action.Action) action.Result {
	if act.Name != action.ActionCreateAlarm {
		return action.Failed(fmt.Sprintf("Unknown alarm action: %s", act.Name))
	}

	params, err := act.AlarmParams()
	if err != nil {
		return action.Failed(err.Error())
	}
	if params.Time == "" {
		return action.Failed("Missing time parameter")
	}

	hour, minute, ok := parseClockTime(params.Time)
	if !ok {
		return action.Failed("Invalid time format")
	}

	label := params.Label
	if label == "" {
		label = defaultAlarmLabel
	}

	if e.Opener != nil {
		if err := e.Opener.Open(ClockURL); err != nil {
			return action.Failed(fmt.Sprintf("Cannot open Clock app: %s", err))
		}
	}

	return action.Success(fmt.Sprintf("已打开时钟应用，请手动设置%02d:%02d的闹钟「%s」", hour, minute, label))
}

// parseClockTime parses an "HH:mm" string.
func parseClockTime(s string) (hour, minute int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
