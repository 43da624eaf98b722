package cli

import (
	"io"
	"os"

	"golang.org/x/term"
)

// isTerminal reports whether a writer is a TTY.
var isTerminal = defaultIsTerminal

// lookupEnv is a test seam for reading NO_COLOR.
var lookupEnv = os.LookupEnv

// useColor decides whether styled output should be written to stdout.
func useColor(noColor bool, stdout io.Writer) bool {
	if noColor {
		return false
	}
	if _, set := lookupEnv("NO_COLOR"); set {
		return false
	}
	return isTerminal(stdout)
}

// defaultIsTerminal inspects stdout for TTY support.
func defaultIsTerminal(stdout io.Writer) bool {
	if stdout == nil {
		return false
	}
	if file, ok := stdout.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := stdout.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}
