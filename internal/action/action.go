// Package action models the native actions a chat response can request
// and dispatches them to tool executors behind the permission gate.
//
// Actions arrive as an ordered list piggybacked on a chat reply. Order is
// semantically meaningful: the dispatcher processes a batch strictly
// sequentially and may halt partway when a capability still needs a user
// prompt.
package action

import (
	"encoding/json"
	"fmt"
)

// Tool wire names.
const (
	ToolAlarm      = "alarm_manager"
	ToolCalendar   = "calendar_manager"
	ToolHealth     = "health_data"
	ToolScreenTime = "screen_time"

	// ToolGoalWizard triggers the goal-creation wizard. It is handled
	// ahead of executor dispatch and never reaches a tool executor.
	ToolGoalWizard = "goal_wizard"
)

// Action wire names.
const (
	ActionCreateAlarm = "create_alarm"
	ActionCreateEvent = "create_event"
	ActionQueryEvents = "query_events"
)

// Action is a server-requested native side effect. Params is kept raw and
// decoded through the typed accessors for the known (tool, action) pairs;
// GenericParams covers forward-compatible tool names.
type Action struct {
	Tool   string          `json:"tool"`
	Name   string          `json:"action"`
	Params json.RawMessage `json:"params"`
}

// AlarmParams are the parameters for alarm_manager/create_alarm.
type AlarmParams struct {
	Time  string `json:"time"`
	Label string `json:"label,omitempty"`
}

// CreateEventParams are the parameters for calendar_manager/create_event.
type CreateEventParams struct {
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// AlarmParams decodes the action's parameters as alarm parameters.
func (a Action) AlarmParams() (*AlarmParams, error) {
	var p AlarmParams
	if err := a.decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateEventParams decodes the action's parameters as event-creation
// parameters.
func (a Action) CreateEventParams() (*CreateEventParams, error) {
	var p CreateEventParams
	if err := a.decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GenericParams decodes the parameters into a generic map. Used for tools
// with no statically known parameter shape.
func (a Action) GenericParams() (map[string]any, error) {
	if len(a.Params) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(a.Params, &m); err != nil {
		return nil, fmt.Errorf("failed to decode %s.%s params: %w", a.Tool, a.Name, err)
	}
	return m, nil
}

func (a Action) decode(dst any) error {
	if len(a.Params) == 0 {
		return nil
	}
	if err := json.Unmarshal(a.Params, dst); err != nil {
		return fmt.Errorf("failed to decode %s.%s params: %w", a.Tool, a.Name, err)
	}
	return nil
}

// New creates an Action with the given params marshaled in. Panics on
// unmarshalable params; used in tests and fixtures.
func New(tool, name string, params any) Action {
	raw, err := json.Marshal(params)
	if err != nil {
		panic(fmt.Sprintf("action.New: %v", err))
	}
	return Action{Tool: tool, Name: name, Params: raw}
}
