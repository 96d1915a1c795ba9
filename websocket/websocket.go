// Package websocket implements [storystream.Transport] over WebSocket, one
// wire message per text frame.
package websocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/storystream"
	"github.com/gorilla/websocket"
)

const streamPath = "/ws/"

// ErrClosed is returned by Next after Close.
var ErrClosed = errors.New("websocket: connection closed")

// Interface compliance checks.
var (
	_ storystream.Transport = (*Transport)(nil)
	_ storystream.Conn      = (*Conn)(nil)
)

// Transport dials one WebSocket per subscription.
type Transport struct {
	baseURL  string
	endpoint func(streamID string) string
	dialer   *websocket.Dialer
}

// Option configures a [Transport].
type Option func(*Transport)

// WithBaseURL sets the server root. An http or https scheme is mapped to ws
// or wss. Streams are requested from {baseURL}/ws/{streamID}.
func WithBaseURL(url string) Option {
	return func(t *Transport) { t.baseURL = strings.TrimSuffix(url, "/") }
}

// WithEndpoint replaces the streamID to URL mapping entirely.
func WithEndpoint(fn func(streamID string) string) Option {
	return func(t *Transport) { t.endpoint = fn }
}

// WithDialer sets a custom dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(t *Transport) { t.dialer = d }
}

// New creates a new [Transport].
func New(opts ...Option) *Transport {
	t := &Transport{
		baseURL: "ws://localhost:3001",
		dialer:  websocket.DefaultDialer,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// URL returns the endpoint for streamID.
func (t *Transport) URL(streamID string) string {
	if t.endpoint != nil {
		return t.endpoint(streamID)
	}
	base := t.baseURL
	switch {
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	}
	return base + streamPath + url.PathEscape(streamID)
}

// Dial performs the WebSocket handshake for streamID.
func (t *Transport) Dial(ctx context.Context, streamID string) (storystream.Conn, error) {
	ws, resp, err := t.dialer.DialContext(ctx, t.URL(streamID), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket: HTTP %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket: %w", err)
	}
	return &Conn{ws: ws}, nil
}

// Conn reads text frames from an open WebSocket. Binary frames are skipped.
type Conn struct {
	ws        *websocket.Conn
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Next returns the payload of the next text frame. Returns io.EOF when the
// server closes the socket normally.
func (c *Conn) Next() (string, error) {
	for {
		if c.closed.Load() {
			return "", ErrClosed
		}
		typ, data, err := c.ws.ReadMessage()
		if err != nil {
			switch {
			case c.closed.Load():
				return "", ErrClosed
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				return "", io.EOF
			default:
				return "", fmt.Errorf("websocket: %w", err)
			}
		}
		if typ == websocket.TextMessage {
			return string(data), nil
		}
	}
}

// Close closes the underlying network connection without a close handshake.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}
