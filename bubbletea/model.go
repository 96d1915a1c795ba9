package bubbletea

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/storystream"
)

var _ tea.Model = Model{}

// chromeHeight is the number of rows outside the viewport: title, picker,
// status and help.
const chromeHeight = 4

// Model is the Bubble Tea model for the story TUI.
type Model struct {
	// Viewport is the scrollable story area. Exported for test access.
	Viewport viewport.Model

	client  Client
	streams []string
	theme   storystream.Theme
	styles  Styles
	keys    keyMap
	help    help.Model

	selected int // index into streams of the last requested stream
	snap     storystream.Snapshot
	err      error // last SelectStream failure
	width    int
	ready    bool
}

// New creates a TUI Model that drives client and offers streams for
// selection. It does not select a stream itself.
func New(client Client, streams []string, theme storystream.Theme) Model {
	styles := NewStyles(theme)
	h := help.New()
	h.Styles.ShortKey = styles.Muted.Bold(true)
	h.Styles.ShortDesc = styles.Muted
	h.Styles.ShortSeparator = styles.Muted

	m := Model{
		client:  client,
		streams: streams,
		theme:   theme,
		styles:  styles,
		keys:    defaultKeyMap(),
		help:    h,
	}
	return m.refresh()
}

// Selected returns the stream the user last chose.
func (m Model) Selected() string {
	if m.selected < 0 || m.selected >= len(m.streams) {
		return ""
	}
	return m.streams[m.selected]
}

// Snapshot returns the client state the model last rendered.
func (m Model) Snapshot() storystream.Snapshot { return m.snap }

// Err returns the last SelectStream error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.client.Changes())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ChangedMsg:
		m = m.refresh()
		return m, waitForChange(m.client.Changes())
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("storystream"))
	b.WriteString("\n")
	b.WriteString(NewPickerBlock(m.streams, m.selected, m.styles).View(m.width))
	b.WriteString("\n")
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(NewStatusBlock(m.snap, m.err, m.styles).View(m.width))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	vpHeight := max(msg.Height-chromeHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.width = msg.Width
	m.help.Width = msg.Width
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.streams)
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		if n == 0 {
			return m, nil
		}
		return m.selectStream((m.selected + 1) % n), nil

	case key.Matches(msg, m.keys.Prev):
		if n == 0 {
			return m, nil
		}
		return m.selectStream((m.selected - 1 + n) % n), nil

	case key.Matches(msg, m.keys.Direct):
		idx := int(msg.String()[0] - '1')
		if idx >= n {
			return m, nil
		}
		return m.selectStream(idx), nil

	case key.Matches(msg, m.keys.Reconnect):
		if n == 0 {
			return m, nil
		}
		return m.selectStream(m.selected), nil
	}

	// Remaining keys scroll the story.
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// selectStream asks the client to switch to streams[idx] and renders the
// result at once rather than waiting for the change notification.
func (m Model) selectStream(idx int) Model {
	m.selected = idx
	m.err = m.client.SelectStream(m.streams[idx])
	return m.refresh()
}

// refresh pulls a fresh snapshot from the client and re-renders the story.
func (m Model) refresh() Model {
	m.snap = m.client.Snapshot()
	if i := slices.Index(m.streams, m.snap.StreamID); i >= 0 {
		m.selected = i
	}
	if m.ready {
		atBottom := m.Viewport.AtBottom()
		m.Viewport.SetContent(m.renderContent())
		if atBottom {
			m.Viewport.GotoBottom()
		}
	}
	return m
}

func (m Model) renderContent() string {
	return NewStoryBlock(m.snap.Text(), m.snap.Ended, m.theme, m.styles).View(m.Viewport.Width)
}
