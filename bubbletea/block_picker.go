package bubbletea

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var _ Block = (*PickerBlock)(nil)

// PickerBlock renders the selectable streams on one row, numbered for direct
// selection, with the selected stream highlighted.
type PickerBlock struct {
	streams  []string
	selected int
	styles   Styles
}

// NewPickerBlock creates a PickerBlock. A selected index outside streams
// highlights nothing.
func NewPickerBlock(streams []string, selected int, styles Styles) *PickerBlock {
	return &PickerBlock{streams: streams, selected: selected, styles: styles}
}

func (b *PickerBlock) View(width int) string {
	items := make([]string, 0, len(b.streams))
	for i, s := range b.streams {
		label := s
		if i < 9 {
			label = strconv.Itoa(i+1) + " " + s
		}
		if i == b.selected {
			items = append(items, b.styles.Selected.Render("["+label+"]"))
		} else {
			items = append(items, b.styles.Unselected.Render(" "+label+" "))
		}
	}
	row := strings.Join(items, " ")
	if width > 0 && lipgloss.Width(row) > width {
		// Drop styling rather than cut an escape sequence in half.
		plain := make([]string, 0, len(b.streams))
		for i, s := range b.streams {
			if i == b.selected {
				plain = append(plain, "["+s+"]")
			} else {
				plain = append(plain, " "+s+" ")
			}
		}
		return runewidth.Truncate(strings.Join(plain, " "), width, "…")
	}
	return row
}
