package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// WaitForChange exports waitForChange for testing.
func WaitForChange(ch <-chan struct{}) tea.Cmd {
	return waitForChange(ch)
}
