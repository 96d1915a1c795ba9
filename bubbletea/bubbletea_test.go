package bubbletea_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/storystream"
	bt "github.com/fwojciec/storystream/bubbletea"
	storyjson "github.com/fwojciec/storystream/json"
	"github.com/fwojciec/storystream/mock"
	"github.com/stretchr/testify/require"
)

var streams = []string{"stream1", "stream2", "stream3"}

// fakeClient records selections and serves a snapshot set by the test.
type fakeClient struct {
	mu        sync.Mutex
	snap      storystream.Snapshot
	selectErr error
	selects   []string
	changes   chan struct{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		snap:    storystream.Snapshot{Subscription: storystream.Subscription{State: storystream.StateClosed}},
		changes: make(chan struct{}, 1),
	}
}

func (c *fakeClient) SelectStream(streamID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selects = append(c.selects, streamID)
	if c.selectErr != nil {
		return c.selectErr
	}
	c.snap = storystream.Snapshot{Subscription: storystream.Subscription{
		ID:       streamID + "-sub",
		StreamID: streamID,
		State:    storystream.StateConnecting,
	}}
	return nil
}

func (c *fakeClient) Snapshot() storystream.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

func (c *fakeClient) Changes() <-chan struct{} { return c.changes }

func (c *fakeClient) set(s storystream.Snapshot) {
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()
}

func (c *fakeClient) selections() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.selects...)
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, c bt.Client) bt.Model {
	t.Helper()
	return initModelWithSize(t, c, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, c bt.Client, width, height int) bt.Model {
	t.Helper()
	m := bt.New(c, streams, storystream.DefaultTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// storyTransport serves each stream's fragments and then holds the
// connection open until it is closed.
func storyTransport(t *testing.T, stories map[string][]string) *mock.Transport {
	t.Helper()
	return &mock.Transport{
		DialFn: func(ctx context.Context, streamID string) (storystream.Conn, error) {
			var pending []string
			for i, f := range stories[streamID] {
				raw, err := storyjson.EncodeStoryEvent(storystream.StoryEvent{Story: f, StreamID: streamID, EventID: int64(i)})
				if err != nil {
					return nil, err
				}
				pending = append(pending, raw)
			}
			closed := make(chan struct{})
			var once sync.Once
			return &mock.Conn{
				NextFn: func() (string, error) {
					if len(pending) > 0 {
						raw := pending[0]
						pending = pending[1:]
						return raw, nil
					}
					<-closed
					return "", errors.New("closed")
				},
				CloseFn: func() error {
					once.Do(func() { close(closed) })
					return nil
				},
			}, nil
		},
	}
}
