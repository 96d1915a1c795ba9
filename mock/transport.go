// Package mock provides test doubles for storystream interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/storystream"
)

// Interface compliance checks.
var (
	_ storystream.Transport = (*Transport)(nil)
	_ storystream.Conn      = (*Conn)(nil)
)

// Transport is a test double for storystream.Transport.
// Set DialFn before calling Dial.
type Transport struct {
	DialFn func(ctx context.Context, streamID string) (storystream.Conn, error)
}

// Dial delegates to DialFn.
func (t *Transport) Dial(ctx context.Context, streamID string) (storystream.Conn, error) {
	return t.DialFn(ctx, streamID)
}

// Conn is a test double for storystream.Conn.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe (no-op)
// because callers close connections on every exit path.
type Conn struct {
	NextFn  func() (string, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (c *Conn) Next() (string, error) {
	return c.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (c *Conn) Close() error {
	if c.CloseFn == nil {
		return nil
	}
	return c.CloseFn()
}
