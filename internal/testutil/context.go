package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds a test context when the caller passes no timeout.
const DefaultTimeout = 5 * time.Second

// deadliner is implemented by *testing.T; testing.TB does not include it.
type deadliner interface {
	Deadline() (time.Time, bool)
}

// Context returns a context that is cancelled when the test ends. Its
// timeout stops one second short of the `go test -timeout` deadline so a
// stuck call fails the test instead of killing the binary.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), clampTimeout(t, timeout))
	t.Cleanup(cancel)
	return ctx
}

func clampTimeout(t testing.TB, timeout time.Duration) time.Duration {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	d, ok := t.(deadliner)
	if !ok {
		return timeout
	}
	deadline, ok := d.Deadline()
	if !ok {
		return timeout
	}
	if remaining := time.Until(deadline) - time.Second; remaining > 0 && remaining < timeout {
		return remaining
	}
	return timeout
}
