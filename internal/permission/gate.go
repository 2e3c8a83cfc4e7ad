package permission

import (
	"context"

	"github.com/tinglabs/companion/internal/logging"
)

// Prober performs the platform-specific capability check and prompt.
// Implementations wrap whatever the host platform exposes; tests and the
// terminal front end use StaticProber.
type Prober interface {
	// Check returns the current grant status without prompting.
	Check(t Type) Status

	// Request triggers the platform permission prompt and blocks until the
	// user resolves it. Callers must not invoke Request concurrently for
	// the same type.
	Request(ctx context.Context, t Type) (Status, error)
}

// Gate caches capability resolutions and funnels all checks and requests
// through a single Prober. The cache is the only shared mutable state in
// the permission layer; the conversation session accesses it from a single
// goroutine, so no locking is layered on top.
type Gate struct {
	prober Prober
	cache  map[Type]Status
	logger *logging.Logger
}

// NewGate creates a Gate backed by the given prober.
func NewGate(prober Prober, logger *logging.Logger) *Gate {
	if logger == nil {
		logger = logging.New()
	}
	return &Gate{
		prober: prober,
		cache:  make(map[Type]Status),
		logger: logger.With("component", "permission"),
	}
}

// Status returns the cached resolution for t, performing a platform check
// on a cache miss and caching the result.
func (g *Gate) Status(t Type) Status {
	if cached, ok := g.cache[t]; ok {
		return cached
	}
	status := g.prober.Check(t)
	g.cache[t] = status
	return status
}

// Request triggers the platform prompt for t and unconditionally updates
// the cache with the outcome. Internal prober errors resolve to denied so
// the gate fails closed.
func (g *Gate) Request(ctx context.Context, t Type) Status {
	status, err := g.prober.Request(ctx, t)
	if err != nil {
		g.logger.Warn("permission request failed, treating as denied",
			"type", string(t), "err", err)
		status = StatusDenied
	}
	g.cache[t] = status
	return status
}

// ClearCache invalidates cached resolutions. With no arguments it clears
// every entry; otherwise only the named types. Used when an out-of-band
// settings change is suspected.
func (g *Gate) ClearCache(types ...Type) {
	if len(types) == 0 {
		g.cache = make(map[Type]Status)
		return
	}
	for _, t := range types {
		delete(g.cache, t)
	}
}

// StaticProber is a Prober with fixed statuses, usable both as a test
// double and as the terminal front end's stand-in for a mobile platform.
type StaticProber struct {
	// Statuses maps each type to its check result. Missing entries are
	// not determined.
	Statuses map[Type]Status

	// RequestFunc, if set, handles Request calls. Otherwise Request
	// resolves to the value in Statuses, defaulting to denied.
	RequestFunc func(ctx context.Context, t Type) (Status, error)

	// RequestCalls counts Request invocations per type.
	RequestCalls map[Type]int
}

// Check returns the configured status for t.
func (p *StaticProber) Check(t Type) Status {
	if s, ok := p.Statuses[t]; ok {
		return s
	}
	return StatusNotDetermined
}

// Request resolves via RequestFunc when set, else the configured status.
func (p *StaticProber) Request(ctx context.Context, t Type) (Status, error) {
	if p.RequestCalls == nil {
		p.RequestCalls = make(map[Type]int)
	}
	p.RequestCalls[t]++

	if p.RequestFunc != nil {
		return p.RequestFunc(ctx, t)
	}
	if s, ok := p.Statuses[t]; ok {
		return s, nil
	}
	return StatusDenied, nil
}
