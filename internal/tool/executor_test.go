package tool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinglabs/companion/internal/action"
	"github.com/tinglabs/companion/internal/calendar"
	"github.com/tinglabs/companion/internal/permission"
)

func TestRegistryCoversAllToolFamilies(t *testing.T) {
	reg := Registry(calendar.NewMemory(), OpenerFunc(func(string) error { return nil }), nil)

	for _, tool := range []string{
		action.ToolAlarm,
		action.ToolCalendar,
		action.ToolHealth,
		action.ToolScreenTime,
	} {
		assert.Contains(t, reg, tool)
	}
	assert.NotContains(t, reg, action.ToolGoalWizard, "wizard trigger has no executor")
}

func TestHealthStub(t *testing.T) {
	exec := &HealthExecutor{}

	res := exec.Execute(context.Background(),
		action.New(action.ToolHealth, "query_steps", nil))

	require.Equal(t, action.ResultSuccess, res.Kind)
	assert.Equal(t, "健康数据查询功能开发中", res.Message)
}

func TestScreenTimeAlwaysDenied(t *testing.T) {
	exec := &ScreenTimeExecutor{}

	res := exec.Execute(context.Background(),
		action.New(action.ToolScreenTime, "query_usage", nil))

	require.Equal(t, action.ResultPermissionDenied, res.Kind)
	assert.Equal(t, permission.TypeScreenTime.DenialMessage(), res.Fallback)
}

func TestParseDateTimeLayouts(t *testing.T) {
	now := time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local)

	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2026-03-15T09:30:00", time.Date(2026, 3, 15, 9, 30, 0, 0, time.Local), true},
		{"2026-03-15 09:30:00", time.Date(2026, 3, 15, 9, 30, 0, 0, time.Local), true},
		{"2026-03-15 09:30", time.Date(2026, 3, 15, 9, 30, 0, 0, time.Local), true},
		{"09:30", time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local), true},
		{"", time.Time{}, false},
		{"tomorrow", time.Time{}, false},
		{"2026/03/15", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseDateTime(tt.in, now)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			}
		})
	}
}
