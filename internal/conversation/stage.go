package conversation

import "github.com/tinglabs/companion/internal/api"

// Stage is the coarse phase of the goal-onboarding conversation, derived
// each turn from the raw label the backend reports.
type Stage int

const (
	// StageUnmapped absorbs any label the client does not recognize. It
	// neither blocks nor advances the conversation.
	StageUnmapped Stage = iota
	// StageClarifying is the initial goal-clarification phase.
	StageClarifying
	// StageSettingGoal is the goal-definition phase.
	StageSettingGoal
	// StageSplittingGoal is the goal-decomposition phase. Entering it
	// triggers the automatic continue message.
	StageSplittingGoal
	// StageDone means the conversation produced a goal plan.
	StageDone
	// StageError means the backend reported a failure.
	StageError
)

// MapStage maps a raw backend label to a Stage. Total: unknown labels map
// to StageUnmapped, never an error.
func MapStage(raw string) Stage {
	switch raw {
	case api.StageOperator:
		return StageClarifying
	case api.StageGoalSettingExpert:
		return StageSettingGoal
	case api.StageGoalSplittingExpert:
		return StageSplittingGoal
	case api.StageDone:
		return StageDone
	case api.StageError:
		return StageError
	default:
		return StageUnmapped
	}
}

// String returns a short stage name for logs.
func (s Stage) String() string {
	switch s {
	case StageClarifying:
		return "clarifying"
	case StageSettingGoal:
		return "setting goal"
	case StageSplittingGoal:
		return "splitting goal"
	case StageDone:
		return "done"
	case StageError:
		return "error"
	default:
		return "unmapped"
	}
}

// Progress returns the display fraction for a stage. Purely cosmetic; it
// carries no control-flow weight.
func (s Stage) Progress() float64 {
	switch s {
	case StageClarifying:
		return 1.0 / 3.0
	case StageSettingGoal:
		return 2.0 / 3.0
	case StageSplittingGoal, StageDone:
		return 1.0
	default:
		return 0.0
	}
}

// Title returns the user-facing caption shown above the progress bar.
func (s Stage) Title() string {
	switch s {
	case StageClarifying:
		return "1/3 目标澄清中"
	case StageSettingGoal:
		return "2/3 目标设定中"
	case StageSplittingGoal:
		return "3/3 正在为你拆解目标"
	case StageDone:
		return "目标计划已生成"
	case StageError:
		return "目标设定出错，请稍后重试"
	default:
		return ""
	}
}

// Transition records one observed stage change.
type Transition struct {
	Previous Stage
	Next     Stage

	// AutoContinue is true when this transition must trigger the
	// synthetic follow-up message. It fires at most once per Tracker.
	AutoContinue bool
}

// Tracker folds raw stage labels into the current conversation stage and
// detects the single transition that triggers the automatic continue.
// One Tracker instance belongs to one conversation session.
type Tracker struct {
	current       Stage
	seen          bool
	autoContinued bool
}

// NewTracker creates a Tracker with no observed stage.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Advance folds the next raw label into the tracker. Unmapped labels
// leave the current stage (and thus the displayed progress) untouched.
func (t *Tracker) Advance(raw string) Transition {
	next := MapStage(raw)
	prev := t.current

	if next != StageUnmapped {
		t.current = next
		t.seen = true
	}

	auto := next == StageSplittingGoal && !t.autoContinued
	if auto {
		t.autoContinued = true
	}

	return Transition{Previous: prev, Next: next, AutoContinue: auto}
}

// Current returns the last mapped stage, or StageUnmapped if no
// recognizable label has been observed yet.
func (t *Tracker) Current() Stage {
	return t.current
}

// Progress returns the display fraction of the last mapped stage.
func (t *Tracker) Progress() float64 {
	if !t.seen {
		return 0.0
	}
	return t.current.Progress()
}
