package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeForTool(t *testing.T) {
	tests := []struct {
		tool  string
		want  Type
		gated bool
	}{
		{"calendar_manager", TypeCalendar, true},
		{"health_data", TypeHealth, true},
		{"screen_time", TypeScreenTime, true},
		{"alarm_manager", "", false},
		{"goal_wizard", "", false},
		{"unknown_tool", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			got, gated := TypeForTool(tt.tool)
			assert.Equal(t, tt.gated, gated)
			if tt.gated {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

type countingProber struct {
	StaticProber
	checkCalls int
}

func (p *countingProber) Check(t Type) Status {
	p.checkCalls++
	return p.StaticProber.Check(t)
}

func TestGateStatusCachesCheck(t *testing.T) {
	prober := &countingProber{
		StaticProber: StaticProber{
			Statuses: map[Type]Status{TypeCalendar: StatusAuthorized},
		},
	}
	gate := NewGate(prober, nil)

	require.Equal(t, StatusAuthorized, gate.Status(TypeCalendar))
	require.Equal(t, StatusAuthorized, gate.Status(TypeCalendar))
	assert.Equal(t, 1, prober.checkCalls, "second Status call should hit the cache")
}

func TestGateRequestUpdatesCache(t *testing.T) {
	prober := &StaticProber{
		Statuses: map[Type]Status{TypeCalendar: StatusNotDetermined},
	}
	gate := NewGate(prober, nil)

	require.Equal(t, StatusNotDetermined, gate.Status(TypeCalendar))

	prober.RequestFunc = func(ctx context.Context, ty Type) (Status, error) {
		return StatusAuthorized, nil
	}
	require.Equal(t, StatusAuthorized, gate.Request(context.Background(), TypeCalendar))

	// Cached value reflects the grant without another platform check.
	assert.Equal(t, StatusAuthorized, gate.Status(TypeCalendar))
}

func TestGateRequestFailsClosed(t *testing.T) {
	prober := &StaticProber{
		RequestFunc: func(ctx context.Context, ty Type) (Status, error) {
			return StatusNotDetermined, errors.New("platform unavailable")
		},
	}
	gate := NewGate(prober, nil)

	got := gate.Request(context.Background(), TypeHealth)
	assert.Equal(t, StatusDenied, got)
	assert.Equal(t, StatusDenied, gate.Status(TypeHealth), "failure must be cached as denied")
}

func TestGateClearCache(t *testing.T) {
	prober := &countingProber{
		StaticProber: StaticProber{
			Statuses: map[Type]Status{
				TypeCalendar: StatusDenied,
				TypeHealth:   StatusAuthorized,
			},
		},
	}
	gate := NewGate(prober, nil)

	gate.Status(TypeCalendar)
	gate.Status(TypeHealth)
	require.Equal(t, 2, prober.checkCalls)

	// Clearing one type re-probes only that type.
	gate.ClearCache(TypeCalendar)
	gate.Status(TypeCalendar)
	gate.Status(TypeHealth)
	assert.Equal(t, 3, prober.checkCalls)

	// Clearing everything re-probes both.
	gate.ClearCache()
	gate.Status(TypeCalendar)
	gate.Status(TypeHealth)
	assert.Equal(t, 5, prober.checkCalls)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "not determined", StatusNotDetermined.String())
	assert.Equal(t, "authorized", StatusAuthorized.String())
	assert.Equal(t, "denied", StatusDenied.String())
	assert.Equal(t, "restricted", StatusRestricted.String())
}
