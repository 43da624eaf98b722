package practice

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"probgen/internal/problem"
)

// Run shows items in a full-screen program reading keys from in and
// returns the final model.
func Run(ctx context.Context, items []problem.TestItem, in io.Reader, out io.Writer, opts Options) (Model, error) {
	program := tea.NewProgram(
		NewModel(items, opts),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := program.Run()
	if err != nil {
		return Model{}, err
	}
	model, ok := final.(Model)
	if !ok {
		return Model{}, fmt.Errorf("unexpected model type %T", final)
	}
	return model, nil
}
