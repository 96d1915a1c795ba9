package sse

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/storystream"
)

// ErrClosed is returned by Next after Close.
var ErrClosed = errors.New("sse: connection closed")

// Interface compliance check.
var _ storystream.Conn = (*Conn)(nil)

// Conn reads message events from an open event stream. Only unnamed events
// and events named "message" are delivered, as with EventSource.onmessage.
type Conn struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	cancel  context.CancelFunc

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func newConn(body io.ReadCloser, cancel context.CancelFunc) *Conn {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Conn{
		body:    body,
		scanner: scanner,
		cancel:  cancel,
	}
}

// Next returns the data of the next message event. Returns io.EOF when the
// server ends the stream.
func (c *Conn) Next() (string, error) {
	for {
		if c.closed.Load() {
			return "", ErrClosed
		}
		eventType, data, err := c.readEvent()
		if err != nil {
			if c.closed.Load() {
				return "", ErrClosed
			}
			return "", err
		}
		if eventType == "" || eventType == "message" {
			return data, nil
		}
		// Named events have no onmessage equivalent - keep reading.
	}
}

// Close cancels the request and closes the response body.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.cancel()
		c.closeErr = c.body.Close()
	})
	return c.closeErr
}

// readEvent reads lines until a blank line dispatches an event carrying data.
// An event cut off by the end of the stream is discarded.
func (c *Conn) readEvent() (string, string, error) {
	var (
		eventType string
		data      strings.Builder
		hasData   bool
	)
	for c.scanner.Scan() {
		line := c.scanner.Text()

		if line == "" {
			if hasData {
				return eventType, strings.TrimSuffix(data.String(), "\n"), nil
			}
			eventType = ""
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "data":
			data.WriteString(value)
			data.WriteByte('\n')
			hasData = true
		case "event":
			eventType = value
		}
		// "id", "retry" and unknown fields are ignored.
	}

	if err := c.scanner.Err(); err != nil {
		return "", "", fmt.Errorf("sse: %w", err)
	}
	return "", "", io.EOF
}
