package tool

import (
	"context"

	"github.com/tinglabs/companion/internal/action"
	"github.com/tinglabs/companion/internal/permission"
)

// ScreenTimeExecutor handles screen_time actions. The underlying platform
// capability is unavailable in this build, so every action resolves to a
// terminal, non-retryable denial.
type ScreenTimeExecutor struct{}

// Execute always denies with the canned fallback message.
func (e *ScreenTimeExecutor) Execute(ctx context.Context, act action.Action) action.Result {
	return action.PermissionDenied(permission.TypeScreenTime.DenialMessage())
}
