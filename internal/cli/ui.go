package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#374151"))

	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#9CA3AF")).
			Padding(0, 1)

	cellStyle = func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerCellStyle
		}
		return lipgloss.NewStyle().Padding(0, 1)
	}

	winStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	loseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))
)
