package storystream

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a configuration failed validation.
	ErrValidation = errors.New("validation error")

	// ErrDecode indicates an inbound wire message could not be decoded.
	ErrDecode = errors.New("decode error")

	// ErrTransport indicates a connection-level failure.
	ErrTransport = errors.New("transport error")

	// ErrManagerClosed indicates an operation on a manager after Shutdown.
	ErrManagerClosed = errors.New("manager closed")
)

// DecodeError reports a raw message that is not a well-formed StoryEvent.
type DecodeError struct {
	Raw string // the message as received
	Err error  // underlying cause
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", truncate(e.Raw, 64), e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
