package storystream

// StoryEvent is one decoded unit from the wire.
type StoryEvent struct {
	Story    string // fragment text to append
	StreamID string // stream the server asserts this fragment belongs to
	EventID  int64  // server sequence number, diagnostics only
	End      bool   // set on the final event of a story
}

// Decoder turns a raw wire message into a StoryEvent. Implementations must be
// pure and return an error wrapping ErrDecode for malformed input.
type Decoder interface {
	Decode(raw string) (StoryEvent, error)
}
