// Package api provides the HTTP client for the companion backend: the
// staged goal-onboarding conversation, generic chat with native-action
// support, and goal-plan retrieval.
package api

import (
	"github.com/tinglabs/companion/internal/action"
)

// Raw stage values reported by the backend. Anything else is treated as
// unmapped by the conversation layer.
const (
	StageOperator            = "operator"
	StageGoalSettingExpert   = "goal_setting_expert"
	StageGoalSplittingExpert = "goal_splitting_expert"
	StageDone                = "done"
	StageError               = "error"
)

// MessageRequest is a user (or synthesized) message sent to the backend.
type MessageRequest struct {
	UserID  int    `json:"user_id"`
	Message string `json:"message"`
}

// MessageResponse is the backend's reply to a message. Stage drives the
// onboarding state machine; PendingClientActions is always present,
// possibly empty, and is consumed in array order.
type MessageResponse struct {
	Reply                string          `json:"reply"`
	Stage                string          `json:"stage"`
	GoalCompleted        bool            `json:"goal_completed"`
	GoalID               int             `json:"goal_id,omitempty"`
	PendingClientActions []action.Action `json:"pending_client_actions"`
}

// GoalPlanTask is a single actionable task inside a milestone.
type GoalPlanTask struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	Desc             string `json:"desc,omitempty"`
	DueAt            string `json:"due_at,omitempty"`
	EstimatedMinutes int    `json:"estimated_minutes,omitempty"`
	Frequency        string `json:"frequency"`
	Status           string `json:"status"`
}

// GoalPlanMilestone groups tasks under one milestone.
type GoalPlanMilestone struct {
	ID    int            `json:"id"`
	Title string         `json:"title"`
	DueAt string         `json:"due_at,omitempty"`
	Tasks []GoalPlanTask `json:"tasks"`
}

// GoalPlan is the plan generated at the end of goal onboarding.
type GoalPlan struct {
	GoalID     int                 `json:"goal_id"`
	Title      string              `json:"title"`
	Milestones []GoalPlanMilestone `json:"milestones"`
}

// HasMilestones reports whether the plan contains at least one milestone.
func (p *GoalPlan) HasMilestones() bool {
	return len(p.Milestones) > 0
}

// HasTasks reports whether any milestone contains at least one task.
func (p *GoalPlan) HasTasks() bool {
	for _, m := range p.Milestones {
		if len(m.Tasks) > 0 {
			return true
		}
	}
	return false
}

// GreetingResponse is the personalized greeting for the chat surface.
type GreetingResponse struct {
	Greeting            string `json:"greeting"`
	HasPendingFollowups bool   `json:"has_pending_followups"`
	IsReturningUser     bool   `json:"is_returning_user"`
}

// HistoryMessage is one persisted transcript entry.
type HistoryMessage struct {
	ID        int    `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// HistoryResponse is a page of chat history, newest first.
type HistoryResponse struct {
	Messages []HistoryMessage `json:"messages"`
	HasMore  bool             `json:"has_more"`
	OldestID int              `json:"oldest_id,omitempty"`
}

// SkipResponse acknowledges skipping goal onboarding.
type SkipResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// skipRequest is the body for the skip endpoint.
type skipRequest struct {
	UserID int `json:"user_id"`
}

// normalize tolerates a missing pending_client_actions field by
// replacing it with an empty slice.
func (r *MessageResponse) normalize() {
	if r.PendingClientActions == nil {
		r.PendingClientActions = []action.Action{}
	}
}
