package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"probgen/internal/ctxlog"
	"probgen/internal/logging"
	"probgen/internal/problem"
)

// runGenerate builds the handler for the generate command.
func runGenerate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		overrides := problem.ParameterSet{}
		var seed seedFlag
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for probgen.yml)")
		catalogPath := flags.String("catalog", "", "Path to question catalog (default: from config)")
		id := flags.String("id", "", "Question id")
		flags.Var(&seed, "seed", "Random seed")
		flags.Var(paramFlags(overrides), "param", "Parameter override name=value (repeatable)")
		format := flags.String("format", "text", "Output format: text|json")
		noColor := flags.Bool("no-color", false, "Disable colored output")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if strings.TrimSpace(*id) == "" {
			fmt.Fprintln(stderr, "Missing --id")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if !validFormat(*format) {
			fmt.Fprintf(stderr, "invalid format %q (expected text|json)\n", *format)
			return ExitUsage
		}

		cfg, engine, err := loadEngine(*configPath, *catalogPath)
		if err != nil {
			fmt.Fprintf(stderr, "Load failed:\n%v\n", err)
			return ExitError
		}
		ctx := ctxlog.WithLogger(context.Background(), logging.New(cfg.Log.Level, cfg.Log.Format, stderr))

		instance, genErr := engine.Generate(ctx, problem.Request{
			QuestionID: strings.TrimSpace(*id),
			Overrides:  overrides,
			Seed:       seed.value,
		})
		if genErr != nil && instance.InstanceID == "" {
			fmt.Fprintf(stderr, "Generation failed: %v\n", genErr)
			return ExitError
		}

		if *format == "json" {
			encoder := json.NewEncoder(stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(instance); err != nil {
				fmt.Fprintf(stderr, "encode: %v\n", err)
				return ExitError
			}
		} else {
			writeInstance(stdout, instance, engine, useColor(*noColor, stdout))
		}
		if genErr != nil {
			fmt.Fprintf(stderr, "Generation failed: %v\n", genErr)
			return ExitError
		}
		return ExitOK
	}
}

// writeInstance prints a human-readable problem instance.
func writeInstance(w io.Writer, instance problem.Instance, engine *problem.Engine, color bool) {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	label := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

	fmt.Fprintln(w, styled(fmt.Sprintf("%s (%s)", instance.QuestionID, instance.Topic), color, title))
	fmt.Fprintln(w, styled(fmt.Sprintf("seed %d", instance.Seed), color, muted))
	fmt.Fprintln(w)
	fmt.Fprintln(w, instance.Statement)
	fmt.Fprintln(w)

	names := instance.Params.Names()
	if q, ok := engine.Catalog().Get(instance.QuestionID); ok {
		names = q.Params.Names()
	}
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" = "+strconv.FormatFloat(instance.Params[name], 'f', -1, 64))
	}
	fmt.Fprintln(w, styled("Parameters:", color, label), strings.Join(parts, ", "))

	fmt.Fprintln(w, styled("Results:", color, label))
	for _, result := range instance.Results {
		name := result.Label
		if name == "" {
			name = result.ID
		}
		fmt.Fprintf(w, "  %s: %s\n", name, result.Value)
		if result.Formula != "" {
			fmt.Fprintln(w, "    "+styled(result.Formula, color, muted))
		}
	}
	for _, failure := range instance.Failures {
		fmt.Fprintf(w, "  %s: %s error: %s\n", failure.ResultID, failure.Kind, failure.Message)
	}
}
