package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"probgen/internal/problem"
)

// parseFlags parses args and reports the exit code to return when parsing
// did not succeed.
func parseFlags(cmd *Command, flags *flag.FlagSet, args []string, stdout, stderr io.Writer) (int, bool) {
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printCommandUsage(cmd, stdout)
			return ExitOK, false
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	return ExitOK, true
}

// paramFlags collects repeated name=value overrides.
type paramFlags problem.ParameterSet

func (params paramFlags) String() string {
	names := problem.ParameterSet(params).Names()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+strconv.FormatFloat(params[name], 'g', -1, 64))
	}
	return strings.Join(parts, ",")
}

func (params paramFlags) Set(value string) error {
	name, raw, ok := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", value)
	}
	number, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("parameter %s: %w", name, err)
	}
	params[name] = number
	return nil
}

// seedFlag is an optional uint64 flag.
type seedFlag struct {
	value *uint64
}

func (seed *seedFlag) String() string {
	if seed == nil || seed.value == nil {
		return ""
	}
	return strconv.FormatUint(*seed.value, 10)
}

func (seed *seedFlag) Set(value string) error {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid seed %q", value)
	}
	seed.value = &parsed
	return nil
}

func validFormat(format string) bool {
	return format == "text" || format == "json"
}
