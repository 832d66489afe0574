package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	groupStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginTop(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("236"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Width(4)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	activeMark = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func renderLabel(l *int) string {
	switch {
	case l == nil:
		return labelStyle.Render("")
	case *l > 0:
		return labelStyle.Render(fmt.Sprintf("+%d", *l))
	default:
		return labelStyle.Render(fmt.Sprintf("%d", *l))
	}
}
