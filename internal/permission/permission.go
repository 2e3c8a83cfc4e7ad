// Package permission mediates access to device capabilities requested by
// server-driven native actions. The Gate checks and requests capability
// grants through a platform Prober and caches the most recent resolution
// per capability for the process lifetime.
package permission

// Type identifies a gated device capability. The raw value is the wire
// name of the tool family that requires it; tools without an entry here
// (alarm_manager, goal_wizard) never require gating.
type Type string

const (
	// TypeCalendar gates calendar reads and writes.
	TypeCalendar Type = "calendar_manager"
	// TypeHealth gates health data queries.
	TypeHealth Type = "health_data"
	// TypeScreenTime gates screen usage queries.
	TypeScreenTime Type = "screen_time"
)

// TypeForTool returns the permission type a tool requires, or false when
// the tool is not gated.
func TypeForTool(tool string) (Type, bool) {
	switch Type(tool) {
	case TypeCalendar, TypeHealth, TypeScreenTime:
		return Type(tool), true
	default:
		return "", false
	}
}

// DisplayName returns the user-facing capability name.
func (t Type) DisplayName() string {
	switch t {
	case TypeCalendar:
		return "日历"
	case TypeHealth:
		return "健康数据"
	case TypeScreenTime:
		return "屏幕使用时间"
	default:
		return string(t)
	}
}

// ContextMessage explains why the capability is being requested. Shown
// alongside the permission prompt.
func (t Type) ContextMessage() string {
	switch t {
	case TypeCalendar:
		return "为了帮你管理日程，需要访问你的日历"
	case TypeHealth:
		return "为了帮你查看健康数据，需要访问健康应用"
	case TypeScreenTime:
		return "为了帮你查看屏幕使用情况，需要访问屏幕使用时间"
	default:
		return ""
	}
}

// DenialMessage is the canned fallback appended to the transcript when the
// capability is denied, so the user always gets a textual acknowledgment.
func (t Type) DenialMessage() string {
	switch t {
	case TypeCalendar:
		return "没关系，你也可以在系统日历中手动查看和管理日程"
	case TypeHealth:
		return "没关系，你也可以在健康应用中查看相关数据"
	case TypeScreenTime:
		return "没关系，你也可以在设置中查看屏幕使用时间"
	default:
		return "没关系，我们可以先继续聊别的"
	}
}

// Status represents the resolution of a capability grant.
type Status int

const (
	// StatusNotDetermined means the user has never been prompted.
	StatusNotDetermined Status = iota
	// StatusAuthorized means access was granted.
	StatusAuthorized
	// StatusDenied means the user declined access.
	StatusDenied
	// StatusRestricted means the capability is unavailable on this device.
	StatusRestricted
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusNotDetermined:
		return "not determined"
	case StatusAuthorized:
		return "authorized"
	case StatusDenied:
		return "denied"
	case StatusRestricted:
		return "restricted"
	default:
		return "unknown"
	}
}
