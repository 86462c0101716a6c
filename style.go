package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Styles for help and list output. Lipgloss downgrades to plain text when
// stdout is not a terminal.
var (
	keyword = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"}).
		Render

	paragraph = lipgloss.NewStyle().
			Width(paragraphWidth()).
			Padding(0, 0, 0, 2).
			Render

	heading = lipgloss.NewStyle().
		Bold(true).
		Margin(1, 0, 0, 0).
		Render

	subtle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}).
		Render

	listItem = lipgloss.NewStyle().
			PaddingLeft(2).
			Render
)

// paragraphWidth wraps help text to the terminal, capped at 78 columns.
func paragraphWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 78
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 || w > 78 {
		return 78
	}
	return w
}
