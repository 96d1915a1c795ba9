// Package bubbletea provides a Bubble Tea TUI that renders the active story
// stream and lets the user switch between streams.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/storystream"
)

// Client is the part of [storystream.Manager] the TUI drives.
type Client interface {
	SelectStream(streamID string) error
	Snapshot() storystream.Snapshot
	Changes() <-chan struct{}
}

var _ Client = (*storystream.Manager)(nil)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// ChangedMsg signals that the client's observable state may have changed.
type ChangedMsg struct{}

// waitForChange blocks until the client signals a change.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return ChangedMsg{}
	}
}
