// Package practice runs a multiple-choice test in the terminal.
package practice

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"probgen/internal/problem"
	"probgen/internal/quiz"
)

// Options configures the practice model.
type Options struct {
	NoColor bool
}

// Model walks through test items one at a time and shows the graded
// result at the end.
type Model struct {
	items    []problem.TestItem
	index    int
	cursor   int
	answers  []quiz.Answer
	result   quiz.Result
	err      error
	finished bool
	aborted  bool
	table    table.Model
	width    int
	noColor  bool
}

// NewModel constructs a practice model for items.
func NewModel(items []problem.TestItem, opts Options) Model {
	t := table.New(
		table.WithColumns(defaultColumns()),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	m := Model{
		items:   items,
		answers: make([]quiz.Answer, 0, len(items)),
		table:   t,
		noColor: opts.NoColor,
	}
	if len(items) == 0 {
		m = m.finish()
	}
	return m
}

// Init has no startup work.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and terminal resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.table.SetWidth(typed.Width)
		m.table.SetHeight(max(typed.Height-6, 1))
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed.String())
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "esc", "q":
		if !m.finished {
			m.aborted = true
		}
		return m, tea.Quit
	}
	if m.finished {
		if key == "enter" {
			return m, tea.Quit
		}
		return m, nil
	}

	options := m.items[m.index].Options
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case "enter", " ":
		m = m.choose(m.cursor)
	default:
		if choice, err := strconv.Atoi(key); err == nil && choice >= 1 && choice <= len(options) {
			m = m.choose(choice - 1)
		}
	}
	return m, nil
}

// choose records option for the current item and advances.
func (m Model) choose(option int) Model {
	item := m.items[m.index]
	m.answers = append(m.answers, answerFor(item, item.Options[option]))
	m.index++
	m.cursor = 0
	if m.index == len(m.items) {
		m = m.finish()
	}
	return m
}

func (m Model) finish() Model {
	m.finished = true
	m.result, m.err = quiz.Grade(m.answers)
	m.table.SetRows(rowsForResult(m.result, m.noColor))
	return m
}

// answerFor converts a chosen option into a gradable answer.
func answerFor(item problem.TestItem, option string) quiz.Answer {
	correct, err := strconv.ParseFloat(item.Correct, 64)
	if err != nil {
		correct = item.Raw
	}
	selected, err := strconv.ParseFloat(option, 64)
	if err != nil {
		// Unparseable options can never match.
		selected = correct + 1
	}
	return quiz.Answer{ID: item.QuestionID, Selected: selected, Correct: correct}
}

// View renders the current question or the final score.
func (m Model) View() string {
	if m.finished {
		return lipgloss.JoinVertical(lipgloss.Left,
			renderScore(m.result, m.err, m.noColor),
			m.table.View(),
			renderHelp("enter/q quit", m.noColor),
		)
	}
	item := m.items[m.index]
	return lipgloss.JoinVertical(lipgloss.Left,
		renderProgress(m.index, len(m.items), item.Topic, m.noColor),
		"",
		renderStatement(item.Statement, m.width),
		"",
		renderOptions(item.Options, m.cursor, m.noColor),
		"",
		renderHelp("↑/↓ move | enter select | 1-4 answer | q quit", m.noColor),
	)
}

// Finished reports whether every item has been answered.
func (m Model) Finished() bool {
	return m.finished
}

// Aborted reports whether the user quit before the end.
func (m Model) Aborted() bool {
	return m.aborted
}

// Answers returns the answers recorded so far.
func (m Model) Answers() []quiz.Answer {
	return append([]quiz.Answer(nil), m.answers...)
}

// Result returns the graded test once finished.
func (m Model) Result() (quiz.Result, error) {
	return m.result, m.err
}
