package cli

import (
	"io"
	"testing"
)

// TestUseColor verifies color decision logic.
func TestUseColor(t *testing.T) {
	cases := []struct {
		name    string
		noColor bool
		noEnv   bool
		isTTY   bool
		want    bool
	}{
		{name: "tty", isTTY: true, want: true},
		{name: "non-tty", isTTY: false, want: false},
		{name: "flag disables", noColor: true, isTTY: true, want: false},
		{name: "env disables", noEnv: true, isTTY: true, want: false},
	}

	originalTerminal, originalEnv := isTerminal, lookupEnv
	t.Cleanup(func() {
		isTerminal = originalTerminal
		lookupEnv = originalEnv
	})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isTerminal = func(_ io.Writer) bool { return tc.isTTY }
			lookupEnv = func(string) (string, bool) { return "", tc.noEnv }
			if got := useColor(tc.noColor, nil); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
