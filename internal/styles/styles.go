// Package styles holds the lipgloss styles shared by the console-facing
// services (currently the analytics collector's summary output).
package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6EF4A1"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F45E6E"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6EC4F4"))
)

func Headerf(format string, a ...any) string {
	return headerStyle.Render(fmt.Sprintf(format, a...))
}

func Successf(format string, a ...any) string {
	return successStyle.Render(fmt.Sprintf(format, a...))
}

func Errorf(format string, a ...any) string {
	return errorStyle.Render(fmt.Sprintf(format, a...))
}

func Infof(format string, a ...any) string {
	return infoStyle.Render(fmt.Sprintf(format, a...))
}
