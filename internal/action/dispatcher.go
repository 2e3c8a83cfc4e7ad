package action

import (
	"context"
	"fmt"

	"github.com/tinglabs/companion/internal/logging"
	"github.com/tinglabs/companion/internal/permission"
)

// Executor performs the platform side effect for one tool family. The
// dispatcher invokes it only after permission has been established.
type Executor interface {
	Execute(ctx context.Context, act Action) Result
}

// Outcome pairs a processed action with its result.
type Outcome struct {
	Action Action
	Result Result
}

// PermissionRequest is the structured halt record returned when a batch
// stops at a capability that still needs a user prompt. The caller turns
// it into a prompt and, on grant, re-executes the single triggering
// action via Execute.
type PermissionRequest struct {
	Action Action
	Type   permission.Type
}

// Dispatcher consumes ordered pending-action batches, resolves permission
// gating, and invokes the matching executor. It never touches the
// transcript or the UI; callers reconcile outcomes themselves.
type Dispatcher struct {
	gate      *permission.Gate
	executors map[string]Executor
	logger    *logging.Logger
}

// NewDispatcher creates a Dispatcher over the given executor registry,
// keyed by tool wire name.
func NewDispatcher(gate *permission.Gate, executors map[string]Executor, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.New()
	}
	return &Dispatcher{
		gate:      gate,
		executors: executors,
		logger:    logger.With("component", "dispatcher"),
	}
}

// ExecuteAll processes actions in server-given order, strictly
// sequentially. It returns the outcomes for the processed prefix and, when
// a capability needs a prompt, a PermissionRequest; any remaining actions
// in the batch are left unprocessed. A denial does not halt the batch,
// only lack of determination does. An empty batch is a no-op.
func (d *Dispatcher) ExecuteAll(ctx context.Context, actions []Action) ([]Outcome, *PermissionRequest) {
	var outcomes []Outcome

	for _, act := range actions {
		// The wizard trigger short-circuits ahead of tool dispatch.
		if act.Tool == ToolGoalWizard {
			outcomes = append(outcomes, Outcome{Action: act, Result: WizardRequested()})
			continue
		}

		if t, gated := permission.TypeForTool(act.Tool); gated {
			switch d.gate.Status(t) {
			case permission.StatusNotDetermined:
				d.logger.Info("halting batch for permission prompt",
					"tool", act.Tool, "type", string(t))
				return outcomes, &PermissionRequest{Action: act, Type: t}
			case permission.StatusDenied, permission.StatusRestricted:
				outcomes = append(outcomes, Outcome{Action: act, Result: PermissionDenied(t.DenialMessage())})
				continue
			}
		}

		res := d.invoke(ctx, act)
		if res.Kind == ResultPermissionRequired {
			// Executor-reported gap, e.g. a capability revoked between
			// the gate check and the platform call.
			return outcomes, &PermissionRequest{Action: act, Type: res.Permission}
		}
		outcomes = append(outcomes, Outcome{Action: act, Result: res})
	}

	return outcomes, nil
}

// Execute processes a single action through the same gating as a batch.
// This is the resume path after a permission grant: only the action that
// triggered the prompt runs again, not the whole original batch.
func (d *Dispatcher) Execute(ctx context.Context, act Action) Result {
	if act.Tool == ToolGoalWizard {
		return WizardRequested()
	}

	if t, gated := permission.TypeForTool(act.Tool); gated {
		switch d.gate.Status(t) {
		case permission.StatusNotDetermined:
			return PermissionRequired(t)
		case permission.StatusDenied, permission.StatusRestricted:
			return PermissionDenied(t.DenialMessage())
		}
	}

	return d.invoke(ctx, act)
}

func (d *Dispatcher) invoke(ctx context.Context, act Action) Result {
	exec, ok := d.executors[act.Tool]
	if !ok {
		return Failed(fmt.Sprintf("Unknown tool: %s", act.Tool))
	}
	return exec.Execute(ctx, act)
}
