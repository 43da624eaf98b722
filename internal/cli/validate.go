package cli

import (
	"flag"
	"fmt"
	"io"

	"probgen/internal/config"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for probgen.yml)")
		catalogPath := flags.String("catalog", "", "Path to question catalog (default: from config)")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}

		cfg, resolved, err := loadSettings(*configPath, *catalogPath)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}
		if resolved != "" {
			fmt.Fprintln(stdout, "Config OK")
		}

		engine, err := config.BuildEngine(cfg)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Catalog OK: %d questions\n", engine.Catalog().Len())
		return ExitOK
	}
}
