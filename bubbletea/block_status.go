package bubbletea

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/storystream"
	"github.com/mattn/go-runewidth"
)

var _ Block = (*StatusBlock)(nil)

// StatusBlock renders one line describing the active subscription. Err is a
// failure from the client itself and takes precedence over the snapshot.
type StatusBlock struct {
	snap   storystream.Snapshot
	err    error
	styles Styles
}

// NewStatusBlock creates a StatusBlock.
func NewStatusBlock(snap storystream.Snapshot, err error, styles Styles) *StatusBlock {
	return &StatusBlock{snap: snap, err: err, styles: styles}
}

// Text returns the unstyled status message.
func (b *StatusBlock) Text() string {
	if b.err != nil {
		return fmt.Sprintf("Error: %v", b.err)
	}
	s := b.snap
	if s.StreamID == "" {
		return "No stream selected"
	}
	switch s.State {
	case storystream.StateConnecting:
		return fmt.Sprintf("Connecting to %s...", s.StreamID)
	case storystream.StateOpen:
		if s.Ended {
			return fmt.Sprintf("Connected to %s · Story complete", s.StreamID)
		}
		return fmt.Sprintf("Connected to %s", s.StreamID)
	case storystream.StateFailed:
		if s.Ended {
			return fmt.Sprintf("Story complete · %s", s.StreamID)
		}
		if s.Err != nil {
			return fmt.Sprintf("Disconnected from %s: %v", s.StreamID, s.Err)
		}
		return fmt.Sprintf("Disconnected from %s", s.StreamID)
	default:
		return "Disconnected"
	}
}

func (b *StatusBlock) View(width int) string {
	text := b.Text()
	if width > 0 {
		text = runewidth.Truncate(text, width, "…")
	}
	return b.style().Render(text)
}

func (b *StatusBlock) style() lipgloss.Style {
	switch {
	case b.err != nil:
		return b.styles.Error
	case b.snap.Ended:
		return b.styles.Muted
	case b.snap.State == storystream.StateOpen:
		return b.styles.Connected
	case b.snap.State == storystream.StateConnecting:
		return b.styles.Connecting
	case b.snap.StreamID == "":
		return b.styles.Muted
	default:
		return b.styles.Error
	}
}
