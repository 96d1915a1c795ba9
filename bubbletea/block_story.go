package bubbletea

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/storystream"
	"github.com/fwojciec/storystream/goldmark"
)

var _ Block = (*StoryBlock)(nil)

// StoryBlock renders the accumulated story text as markdown prose,
// word-wrapped to the viewport width.
type StoryBlock struct {
	text   string
	ended  bool
	theme  storystream.Theme
	styles Styles
}

// NewStoryBlock creates a StoryBlock.
func NewStoryBlock(text string, ended bool, theme storystream.Theme, styles Styles) *StoryBlock {
	return &StoryBlock{text: text, ended: ended, theme: theme, styles: styles}
}

func (b *StoryBlock) View(width int) string {
	content := goldmark.Render(b.text, width, b.theme)
	if content == "" {
		content = b.styles.Muted.Render("Waiting for story...")
	}
	if b.ended {
		end := b.styles.Muted.Render("The End")
		if width > 0 {
			end = lipgloss.PlaceHorizontal(width, lipgloss.Center, end)
		}
		content += "\n\n" + end
	}
	return content
}
