package report

import "github.com/charmbracelet/lipgloss"

// Color palette using ANSI colors for broad terminal compatibility.
var (
	primary = lipgloss.Color("4")   // Blue
	muted   = lipgloss.Color("245") // Light gray
	accent  = lipgloss.Color("2")   // Green
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	numberStyle = cellStyle.
			Align(lipgloss.Right)

	topLevelStyle = cellStyle.
			Foreground(accent)

	mutedStyle = lipgloss.NewStyle().
			Foreground(muted)

	borderStyle = lipgloss.NewStyle().
			Foreground(muted)
)
