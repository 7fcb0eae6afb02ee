package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestGateCooldown(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)}
	g := NewGate(0, 1, time.Second, WithClock(clock.Now))

	assert.False(t, g.Limited())

	until := g.Trip(3 * time.Second)
	assert.Equal(t, clock.Now().Add(4*time.Second), until)
	assert.True(t, g.Limited())

	clock.Advance(3999 * time.Millisecond)
	assert.True(t, g.Limited())

	clock.Advance(time.Millisecond)
	assert.False(t, g.Limited())
}

func TestGateTripNeverShortens(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)}
	g := NewGate(0, 1, time.Second, WithClock(clock.Now))

	long := g.Trip(10 * time.Second)
	short := g.Trip(time.Second)

	assert.Equal(t, long, short)
	assert.Equal(t, long, g.Until())
}

func TestGateNegativeRetryAfter(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)}
	g := NewGate(0, 1, time.Second, WithClock(clock.Now))

	assert.Equal(t, clock.Now().Add(time.Second), g.Trip(-5*time.Second))
}

func TestGateWaitUnlimited(t *testing.T) {
	g := NewGate(0, 1, 0)
	for i := 0; i < 100; i++ {
		require.NoError(t, g.Wait(context.Background()))
	}
}

func TestGateWaitHonoursContext(t *testing.T) {
	g := NewGate(0.001, 1, 0)
	require.NoError(t, g.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, g.Wait(ctx))
}
