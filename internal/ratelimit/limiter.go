// Package ratelimit admits requests per client within a rolling window.
package ratelimit

import (
	"sync"
	"time"
)

// minRetry keeps Retry-After hints from rounding down to zero.
const minRetry = 100 * time.Millisecond

// Clock provides the current time for the limiter.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(l *Limiter) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// Limiter admits at most limit requests per key within any window-long
// interval.
type Limiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	clock     Clock
	keys      map[string]*rollingWindow
	lastSweep time.Time
}

// New builds a limiter. It returns nil when limit or window is not
// positive; a nil Limiter admits everything.
func New(limit int, window time.Duration, opts ...Option) *Limiter {
	if limit <= 0 || window <= 0 {
		return nil
	}
	l := &Limiter{
		limit:  limit,
		window: window,
		clock:  realClock{},
		keys:   map[string]*rollingWindow{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records a request for key. When the window is full it reports
// false together with how long until a slot frees up.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.sweep(now)
	window, ok := l.keys[key]
	if !ok {
		window = &rollingWindow{}
		l.keys[key] = window
	}
	window.cleanup(now)
	if window.used() >= l.limit {
		return false, max(window.nextExpiry().Sub(now), minRetry)
	}
	window.add(now.Add(l.window))
	return true, 0
}

// sweep forgets idle keys at most once per window.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for key, window := range l.keys {
		window.cleanup(now)
		if window.used() == 0 {
			delete(l.keys, key)
		}
	}
}

// Keys reports how many clients are currently tracked.
func (l *Limiter) Keys() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}
