// Package json implements the story event wire format.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/storystream"
)

// Interface compliance check.
var _ storystream.Decoder = Decoder{}

// eventDTO is the wire representation of a StoryEvent. Pointer fields
// distinguish a missing field from its zero value.
type eventDTO struct {
	Story    *string `json:"story"`
	StreamID *string `json:"streamId"`
	EventID  *int64  `json:"eventId"`
	End      *bool   `json:"end,omitempty"`
}

// wireFields are the field names the wire format defines, spelled exactly.
var wireFields = []string{"story", "streamId", "eventId", "end"}

// Decoder implements [storystream.Decoder] for JSON wire messages.
type Decoder struct{}

// Decode calls DecodeStoryEvent.
func (Decoder) Decode(raw string) (storystream.StoryEvent, error) {
	return DecodeStoryEvent(raw)
}

// DecodeStoryEvent parses one wire message. The message must be a JSON object
// with a string "story", a string "streamId" and an integer "eventId". An
// optional boolean "end" is honored and unknown fields are ignored. Field
// names are case-sensitive. Any other shape yields a *storystream.DecodeError.
func DecodeStoryEvent(raw string) (storystream.StoryEvent, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return storystream.StoryEvent{}, decodeError(raw, err)
	}
	// encoding/json matches struct tags case-insensitively.
	for name := range fields {
		for _, want := range wireFields {
			if name != want && strings.EqualFold(name, want) {
				return storystream.StoryEvent{}, decodeError(raw, fmt.Errorf("field %q must be spelled %q", name, want))
			}
		}
	}

	var dto eventDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return storystream.StoryEvent{}, decodeError(raw, err)
	}
	switch {
	case dto.Story == nil:
		return storystream.StoryEvent{}, decodeError(raw, errors.New(`missing field "story"`))
	case dto.StreamID == nil:
		return storystream.StoryEvent{}, decodeError(raw, errors.New(`missing field "streamId"`))
	case dto.EventID == nil:
		return storystream.StoryEvent{}, decodeError(raw, errors.New(`missing field "eventId"`))
	}
	evt := storystream.StoryEvent{
		Story:    *dto.Story,
		StreamID: *dto.StreamID,
		EventID:  *dto.EventID,
	}
	if dto.End != nil {
		evt.End = *dto.End
	}
	return evt, nil
}

// EncodeStoryEvent serializes evt to its wire form. The "end" field is always
// present.
func EncodeStoryEvent(evt storystream.StoryEvent) (string, error) {
	end := evt.End
	data, err := json.Marshal(eventDTO{
		Story:    &evt.Story,
		StreamID: &evt.StreamID,
		EventID:  &evt.EventID,
		End:      &end,
	})
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}
	return string(data), nil
}

func decodeError(raw string, err error) error {
	return &storystream.DecodeError{Raw: raw, Err: err}
}
