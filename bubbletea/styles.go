package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/storystream"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Title      lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Story      lipgloss.Style
	Connected  lipgloss.Style
	Connecting lipgloss.Style
	Error      lipgloss.Style
	Muted      lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t storystream.Theme) Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Foreground(ansiColor(t.Title)).Bold(true),
		Selected:   lipgloss.NewStyle().Foreground(ansiColor(t.Selected)).Bold(true).Underline(true),
		Unselected: lipgloss.NewStyle().Foreground(ansiColor(t.Muted)),
		Story:      lipgloss.NewStyle().Foreground(ansiColor(t.Story)),
		Connected:  lipgloss.NewStyle().Foreground(ansiColor(t.Connected)),
		Connecting: lipgloss.NewStyle().Foreground(ansiColor(t.Connecting)),
		Error:      lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:      lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
