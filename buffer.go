package storystream

import "strings"

// Buffer is an append-only ordered sequence of fragments. The zero value is
// empty and ready to use. Buffer is not safe for concurrent use; the Manager
// serializes access to it.
type Buffer struct {
	fragments []string
}

// Append adds fragment to the tail.
func (b *Buffer) Append(fragment string) {
	b.fragments = append(b.fragments, fragment)
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.fragments = nil
}

// Len returns the number of fragments.
func (b *Buffer) Len() int { return len(b.fragments) }

// Fragments returns a copy of the fragments in arrival order.
func (b *Buffer) Fragments() []string {
	out := make([]string, len(b.fragments))
	copy(out, b.fragments)
	return out
}

// String returns the concatenation of all fragments.
func (b *Buffer) String() string {
	return strings.Join(b.fragments, "")
}
