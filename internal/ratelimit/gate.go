package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Gate is the process-wide notification state. It paces individual sends and
// holds a single cooldown shared by every destination: once any destination
// reports rate limiting, all sends are suppressed until the cooldown elapses.
type Gate struct {
	limiter *rate.Limiter
	margin  time.Duration
	now     func() time.Time

	mu    sync.Mutex
	until time.Time
}

type Option func(*Gate)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// NewGate allows perSecond sends with the given burst. A non-positive rate
// disables pacing. margin is added to every server-advised cooldown.
func NewGate(perSecond float64, burst int, margin time.Duration, opts ...Option) *Gate {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst < 1 {
		burst = 1
	}

	g := &Gate{
		limiter: rate.NewLimiter(limit, burst),
		margin:  margin,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Limited reports whether the shared cooldown is in effect.
func (g *Gate) Limited() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.now().Before(g.until)
}

// Trip starts (or extends) the cooldown for retryAfter plus the margin and
// returns when it ends. A shorter trip never shortens an active cooldown.
func (g *Gate) Trip(retryAfter time.Duration) time.Time {
	if retryAfter < 0 {
		retryAfter = 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	until := g.now().Add(retryAfter + g.margin)
	if until.After(g.until) {
		g.until = until
	}
	return g.until
}

// Until returns the end of the current cooldown, zero if none was ever set.
func (g *Gate) Until() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.until
}

// Wait blocks until the pacer admits one more send or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}
