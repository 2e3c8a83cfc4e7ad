package tool

import (
	"context"

	"github.com/tinglabs/companion/internal/action"
)

// HealthExecutor handles health_data actions. Health queries are not
// built yet; the executor acknowledges with a placeholder so the user is
// never left without a reply. Placeholder behavior is intentional.
type HealthExecutor struct{}

// Execute acknowledges any health action with the placeholder message.
func (e *HealthExecutor) Execute(ctx context.Context, act action.Action) action.Result {
	return action.Success("健康数据查询功能开发中")
}
