package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

type listEntry struct {
	ID      string   `json:"id"`
	Topic   string   `json:"topic"`
	Results []string `json:"results"`
}

// runList builds the handler for the list command.
func runList(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for probgen.yml)")
		catalogPath := flags.String("catalog", "", "Path to question catalog (default: from config)")
		format := flags.String("format", "text", "Output format: text|json")
		noColor := flags.Bool("no-color", false, "Disable colored output")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if !validFormat(*format) {
			fmt.Fprintf(stderr, "invalid format %q (expected text|json)\n", *format)
			return ExitUsage
		}

		_, engine, err := loadEngine(*configPath, *catalogPath)
		if err != nil {
			fmt.Fprintf(stderr, "Load failed:\n%v\n", err)
			return ExitError
		}

		questions := engine.Catalog().List()
		entries := make([]listEntry, 0, len(questions))
		for _, q := range questions {
			entry := listEntry{ID: q.ID, Topic: q.Topic}
			for _, result := range q.Math.Results {
				entry.Results = append(entry.Results, result.ID)
			}
			entries = append(entries, entry)
		}

		if *format == "json" {
			encoder := json.NewEncoder(stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(entries); err != nil {
				fmt.Fprintf(stderr, "encode: %v\n", err)
				return ExitError
			}
			return ExitOK
		}

		color := useColor(*noColor, stdout)
		header := fmt.Sprintf("%-32s %-28s %s", "ID", "TOPIC", "RESULTS")
		fmt.Fprintln(stdout, styled(header, color, lipgloss.NewStyle().Bold(true)))
		for _, entry := range entries {
			fmt.Fprintf(stdout, "%-32s %-28s %d\n", entry.ID, entry.Topic, len(entry.Results))
		}
		return ExitOK
	}
}

// styled renders text with style only when color output is enabled.
func styled(text string, color bool, style lipgloss.Style) string {
	if !color {
		return text
	}
	return style.Render(text)
}
