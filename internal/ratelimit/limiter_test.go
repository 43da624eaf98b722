package ratelimit

import (
	"sync"
	"testing"
	"time"
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

func newClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

// TestLimiterRollingWindow verifies the window admits limit requests and
// frees slots as earlier requests expire.
func TestLimiterRollingWindow(t *testing.T) {
	clock := newClock()
	limiter := New(2, 10*time.Second, WithClock(clock))

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.Allow("a"); !ok {
			t.Fatalf("request %d should be admitted", i)
		}
		clock.Advance(4 * time.Second)
	}
	ok, retry := limiter.Allow("a")
	if ok {
		t.Fatalf("third request should be rejected")
	}
	if retry != 2*time.Second {
		t.Fatalf("expected retry 2s, got %v", retry)
	}

	clock.Advance(2 * time.Second)
	if ok, _ := limiter.Allow("a"); !ok {
		t.Fatalf("slot should be free after the first request expired")
	}
}

// TestLimiterKeysAreIndependent verifies clients do not share capacity.
func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter := New(1, time.Minute, WithClock(newClock()))
	if ok, _ := limiter.Allow("a"); !ok {
		t.Fatalf("a should be admitted")
	}
	if ok, _ := limiter.Allow("b"); !ok {
		t.Fatalf("b should be admitted")
	}
	if ok, _ := limiter.Allow("a"); ok {
		t.Fatalf("a should be limited")
	}
}

// TestLimiterSweepsIdleKeys verifies expired clients are forgotten.
func TestLimiterSweepsIdleKeys(t *testing.T) {
	clock := newClock()
	limiter := New(1, time.Second, WithClock(clock))
	limiter.Allow("a")
	limiter.Allow("b")
	if limiter.Keys() != 2 {
		t.Fatalf("expected 2 keys, got %d", limiter.Keys())
	}
	clock.Advance(2 * time.Second)
	limiter.Allow("c")
	if limiter.Keys() != 1 {
		t.Fatalf("expected idle keys to be swept, got %d", limiter.Keys())
	}
}

// TestLimiterDisabled verifies a non-positive limit disables limiting.
func TestLimiterDisabled(t *testing.T) {
	limiter := New(0, time.Second)
	if limiter != nil {
		t.Fatalf("expected nil limiter")
	}
	for i := 0; i < 10; i++ {
		if ok, _ := limiter.Allow("a"); !ok {
			t.Fatalf("nil limiter should admit everything")
		}
	}
}

// TestLimiterConcurrentCallers verifies exactly limit requests are admitted
// under contention.
func TestLimiterConcurrentCallers(t *testing.T) {
	limiter := New(25, time.Minute, WithClock(newClock()))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("shared"); ok {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if admitted != 25 {
		t.Fatalf("expected 25 admitted, got %d", admitted)
	}
}
