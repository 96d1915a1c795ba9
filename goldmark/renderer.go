package goldmark

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/storystream"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	sceneBreak  = "*   *   *"
	quoteGutter = "│ "
	minWidth    = 10
)

type proseRenderer struct {
	story    lipgloss.Style
	chapter  lipgloss.Style
	italic   lipgloss.Style
	bold     lipgloss.Style
	muted    lipgloss.Style
	verbatim lipgloss.Style
}

func newRenderer(theme storystream.Theme) *proseRenderer {
	return &proseRenderer{
		story:    lipgloss.NewStyle().Foreground(ansiColor(theme.Story)),
		chapter:  lipgloss.NewStyle().Foreground(ansiColor(theme.Title)).Bold(true),
		italic:   lipgloss.NewStyle().Italic(true),
		bold:     lipgloss.NewStyle().Bold(true),
		muted:    lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		verbatim: lipgloss.NewStyle().Foreground(ansiColor(theme.Story)).PaddingLeft(4),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *proseRenderer) render(source []byte, width int) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var blocks []string
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		if s := r.renderBlock(c, source, width); s != "" {
			blocks = append(blocks, s)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// renderBlock returns the rendered block without a trailing newline, or ""
// for blocks that have no place in a story.
func (r *proseRenderer) renderBlock(node ast.Node, source []byte, width int) string {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return r.story.Width(width).Render(r.collectInline(n, source))

	case *ast.Heading:
		// Level 1 titles the whole story, deeper levels title chapters.
		return r.chapter.Underline(n.Level == 1).Width(width).Render(r.collectInline(n, source))

	case *ast.ThematicBreak:
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, r.muted.Render(sceneBreak))

	case *ast.Blockquote:
		inner := r.renderChildren(n, source, max(width-len(quoteGutter), minWidth))
		gutter := r.muted.Render(quoteGutter)
		lines := strings.Split(inner, "\n")
		for i, line := range lines {
			lines[i] = gutter + r.italic.Render(line)
		}
		return strings.Join(lines, "\n")

	case *ast.List:
		return r.renderList(n, source, width, 0)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		// Letters, verses and the like: keep the author's line breaks.
		var b strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.WriteString(strings.TrimRight(string(seg.Value(source)), "\n"))
			if i < lines.Len()-1 {
				b.WriteByte('\n')
			}
		}
		return r.verbatim.Render(b.String())

	case *ast.HTMLBlock:
		return ""

	default:
		return r.renderChildren(node, source, width)
	}
}

func (r *proseRenderer) renderChildren(node ast.Node, source []byte, width int) string {
	var blocks []string
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		if s := r.renderBlock(c, source, width); s != "" {
			blocks = append(blocks, s)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func (r *proseRenderer) renderList(list *ast.List, source []byte, width, depth int) string {
	var lines []string
	num := list.Start
	for c := list.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "• "
		if list.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		indent := strings.Repeat("  ", depth)
		prefix := indent + marker
		continuation := strings.Repeat(" ", len(indent)+lipgloss.Width(marker))
		itemWidth := max(width-lipgloss.Width(prefix), minWidth)

		first := true
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			if sub, ok := ic.(*ast.List); ok {
				lines = append(lines, r.renderList(sub, source, width, depth+1))
				continue
			}
			body := r.renderBlock(ic, source, itemWidth)
			for _, line := range strings.Split(body, "\n") {
				if first {
					lines = append(lines, prefix+line)
					first = false
				} else {
					lines = append(lines, continuation+line)
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}

// collectInline recursively collects styled inline text from a node's children.
func (r *proseRenderer) collectInline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderInline(c, source, &buf)
	}
	return buf.String()
}

func (r *proseRenderer) renderInline(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		inner := r.collectInline(n, source)
		if n.Level == 1 {
			buf.WriteString(r.italic.Render(inner))
		} else {
			buf.WriteString(r.bold.Render(inner))
		}

	case *ast.CodeSpan:
		buf.WriteString(r.collectInline(n, source))

	case *ast.AutoLink:
		buf.Write(n.URL(source))

	case *ast.Image:
		buf.WriteString(r.muted.Render("[" + r.collectInline(n, source) + "]"))

	case *ast.RawHTML:
		// Dropped.

	default:
		// Links and anything unrecognized contribute their text only.
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.renderInline(c, source, buf)
		}
	}
}
