package ratelimiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock lets tests move time forward without sleeping.
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

var ctx = context.Background()

func newTestLimiter(limit int, interval time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, interval)
	rl.now = clock.Now
	return rl, clock
}

func TestRateLimiter_AllowUpToLimit(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(3, time.Minute)

	assert.True(t, rl.Allow(ctx, "10.0.0.1"))
	assert.True(t, rl.Allow(ctx, "10.0.0.1"))
	assert.True(t, rl.Allow(ctx, "10.0.0.1"))
	assert.False(t, rl.Allow(ctx, "10.0.0.1"))
	assert.False(t, rl.Allow(ctx, "10.0.0.1"))
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(1, time.Minute)

	assert.True(t, rl.Allow(ctx, "a"))
	assert.False(t, rl.Allow(ctx, "a"))
	assert.True(t, rl.Allow(ctx, "b"))
}

func TestRateLimiter_ResetsAfterInterval(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(2, time.Minute)

	assert.True(t, rl.Allow(ctx, "a"))
	assert.True(t, rl.Allow(ctx, "a"))
	assert.False(t, rl.Allow(ctx, "a"))

	clock.Advance(30 * time.Second)
	assert.False(t, rl.Allow(ctx, "a"))
	assert.Equal(t, 30*time.Second, rl.RetryAfter("a"))

	clock.Advance(30 * time.Second)
	assert.True(t, rl.Allow(ctx, "a"))
}

func TestRateLimiter_ZeroLimitDisables(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow(ctx, "a"))
	}
}

func TestRateLimiter_SweepsExpiredWindows(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(5, time.Minute)
	rl.Allow(ctx, "a")
	rl.Allow(ctx, "b")
	clock.Advance(2 * time.Minute)
	rl.Allow(ctx, "c")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.windows, 1)
	assert.Contains(t, rl.windows, "c")
}

func TestRateLimiter_RetryAfterUnknownKey(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(1, time.Minute)
	assert.Zero(t, rl.RetryAfter("nobody"))
}

func TestRateLimiter_Concurrent(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(50, time.Minute)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow(ctx, "shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}
