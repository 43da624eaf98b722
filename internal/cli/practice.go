package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"probgen/internal/problem"
	"probgen/internal/ui/practice"
)

// practiceUI is a test seam for running the terminal UI.
var practiceUI = practice.Run

// stdin is the key source for the practice UI.
var stdin io.Reader = os.Stdin

// runPractice builds the handler for the practice command.
func runPractice(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		var seed seedFlag
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for probgen.yml)")
		catalogPath := flags.String("catalog", "", "Path to question catalog (default: from config)")
		count := flags.Int("questions", problem.DefaultTestSize, "Number of questions")
		flags.Var(&seed, "seed", "Random seed")
		noColor := flags.Bool("no-color", false, "Disable colored output")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if *count <= 0 {
			fmt.Fprintln(stderr, "--questions must be positive")
			return ExitUsage
		}
		if !isTerminal(stdout) {
			fmt.Fprintln(stderr, "practice needs an interactive terminal; use \"probgen generate\" for scripted output")
			return ExitError
		}

		_, engine, err := loadEngine(*configPath, *catalogPath)
		if err != nil {
			fmt.Fprintf(stderr, "Load failed:\n%v\n", err)
			return ExitError
		}
		ctx := context.Background()
		test, err := engine.GenerateTest(ctx, problem.TestRequest{Count: *count, Seed: seed.value})
		if err != nil {
			fmt.Fprintf(stderr, "Test generation failed: %v\n", err)
			return ExitError
		}

		model, err := practiceUI(ctx, test.Items, stdin, stdout, practice.Options{NoColor: !useColor(*noColor, stdout)})
		if err != nil {
			fmt.Fprintf(stderr, "Practice UI error: %v\n", err)
			return ExitError
		}
		if model.Aborted() {
			fmt.Fprintf(stdout, "Practice stopped after %d of %d questions\n", len(model.Answers()), len(test.Items))
			return ExitOK
		}
		result, err := model.Result()
		if err != nil {
			fmt.Fprintf(stderr, "Grading failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Score: %.2f%% (seed %d)\n", result.Score, test.Seed)
		return ExitOK
	}
}
