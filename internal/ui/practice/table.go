package practice

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"probgen/internal/quiz"
)

func defaultColumns() []table.Column {
	return []table.Column{
		{Title: "Question", Width: 28},
		{Title: "Selected", Width: 14},
		{Title: "Correct", Width: 14},
		{Title: "Result", Width: 8},
	}
}

// tableStyles returns table styles for the score table.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForResult converts graded details into table rows.
func rowsForResult(result quiz.Result, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(result.Details))
	for _, detail := range result.Details {
		rows = append(rows, table.Row{
			detail.ID,
			formatValue(detail.Selected),
			formatValue(detail.Correct),
			formatOutcome(detail.IsCorrect, noColor),
		})
	}
	return rows
}

func formatValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatOutcome(ok bool, noColor bool) string {
	if ok {
		return stylize("ok", noColor, lipgloss.Color("42"))
	}
	return stylize("wrong", noColor, lipgloss.Color("196"))
}
