// Package ratelimit provides a fixed-window request limiter with an
// injected clock. It exists as an explicitly scoped object rather than
// package-level counters so callers can run several independent limiters
// and tests can drive time without waiting on the wall clock.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Limiter admits at most a fixed number of requests per window.
type Limiter struct {
	clock  clockwork.Clock
	limit  int
	window time.Duration

	mu          sync.Mutex
	windowStart time.Time
	count       int
}

// New creates a Limiter admitting limit requests per window. Pass a fake
// clock in tests; clockwork.NewRealClock() in production.
func New(limit int, window time.Duration, clock clockwork.Clock) *Limiter {
	return &Limiter{
		clock:  clock,
		limit:  limit,
		window: window,
	}
}

// Allow reports whether one more request fits in the current window and
// consumes a slot if it does.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.window {
		l.windowStart = now
		l.count = 0
	}
	if l.count >= l.limit {
		return false
	}
	l.count++
	return true
}

// Wait blocks until a slot is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.clock.After(l.retryAfter()):
		}
	}
}

// retryAfter returns the time until the current window expires.
func (l *Limiter) retryAfter() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.windowStart.Add(l.window).Sub(l.clock.Now())
	if remaining <= 0 {
		return time.Millisecond
	}
	return remaining
}
