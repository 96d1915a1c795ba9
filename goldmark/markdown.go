// Package goldmark renders story text written in markdown as styled terminal
// prose, using goldmark for parsing and lipgloss for styling.
package goldmark

import "github.com/fwojciec/storystream"

// Render parses markdown source and returns ANSI-styled prose. Paragraphs,
// quotes and list items are word-wrapped to width; verbatim blocks keep their
// line breaks. Unterminated markup, as seen mid-stream, renders literally.
func Render(source string, width int, theme storystream.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	return newRenderer(theme).render([]byte(source), width)
}
