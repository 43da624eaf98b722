package practice

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"probgen/internal/quiz"
)

func renderProgress(index, total int, topic string, noColor bool) string {
	line := fmt.Sprintf("Question %d/%d", index+1, total)
	if topic != "" {
		line += " | " + topic
	}
	if noColor {
		return line
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")).Render(line)
}

// renderStatement wraps the statement to the terminal width when known.
func renderStatement(statement string, width int) string {
	if width <= 0 {
		return statement
	}
	return lipgloss.NewStyle().Width(width).Render(statement)
}

func renderOptions(options []string, cursor int, noColor bool) string {
	lines := make([]string, 0, len(options))
	for i, option := range options {
		marker := "  "
		if i == cursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%d) %s", marker, i+1, option)
		if i == cursor {
			line = stylize(line, noColor, lipgloss.Color("212"))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderScore(result quiz.Result, err error, noColor bool) string {
	if err != nil {
		return stylize("No answers to grade.", noColor, lipgloss.Color("196"))
	}
	correct := 0
	for _, detail := range result.Details {
		if detail.IsCorrect {
			correct++
		}
	}
	line := fmt.Sprintf("Score: %.2f%% (%d/%d correct)", result.Score, correct, len(result.Details))
	return stylize(line, noColor, lipgloss.Color("33"))
}

func renderHelp(text string, noColor bool) string {
	return stylize(text, noColor, lipgloss.Color("242"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
