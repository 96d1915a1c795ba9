package storystream

import "context"

// Transport opens connections to logical streams. How a stream identifier
// maps to a server endpoint is up to the implementation.
type Transport interface {
	// Dial performs the handshake for streamID. A nil error means the
	// connection is open. Cancelling ctx aborts the dial and tears down the
	// returned Conn.
	Dial(ctx context.Context, streamID string) (Conn, error)
}

// Conn uses a pull-based iterator pattern over raw wire messages.
//
// Next blocks until the next message arrives and returns its payload. It
// returns io.EOF when the server ends the stream and a non-nil error for any
// other failure. After Close, Next returns an error.
//
// Close releases the connection. It is safe to call Close concurrently with
// Next and more than once.
type Conn interface {
	Next() (string, error)
	Close() error
}
