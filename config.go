package storystream

import (
	"fmt"
	"net/url"
	"slices"
)

// Transport kinds accepted by Config.Transport.
const (
	TransportSSE       = "sse"
	TransportWebSocket = "websocket"
)

// Config describes which server to consume and which streams to offer.
type Config struct {
	BaseURL       string   // server root, e.g. http://localhost:3001
	Transport     string   // TransportSSE or TransportWebSocket
	Streams       []string // selectable stream identifiers, in picker order
	InitialStream string   // stream selected at startup; empty = first of Streams
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "http://localhost:3001",
		Transport: TransportSSE,
		Streams:   []string{"stream1", "stream2", "stream3"},
	}
}

// Initial returns the stream to select at startup.
func (c Config) Initial() string {
	if c.InitialStream != "" {
		return c.InitialStream
	}
	if len(c.Streams) > 0 {
		return c.Streams[0]
	}
	return ""
}

// Validate checks that c is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %v: %w", err, ErrValidation)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be http or https, got %q: %w", c.BaseURL, ErrValidation)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url has no host: %w", ErrValidation)
	}
	switch c.Transport {
	case TransportSSE, TransportWebSocket:
	default:
		return fmt.Errorf("transport must be %q or %q, got %q: %w", TransportSSE, TransportWebSocket, c.Transport, ErrValidation)
	}
	if len(c.Streams) == 0 {
		return fmt.Errorf("at least one stream is required: %w", ErrValidation)
	}
	for i, s := range c.Streams {
		if s == "" {
			return fmt.Errorf("stream %d is empty: %w", i, ErrValidation)
		}
		if slices.Contains(c.Streams[:i], s) {
			return fmt.Errorf("duplicate stream %q: %w", s, ErrValidation)
		}
	}
	if c.InitialStream != "" && !slices.Contains(c.Streams, c.InitialStream) {
		return fmt.Errorf("initial_stream %q is not in streams: %w", c.InitialStream, ErrValidation)
	}
	return nil
}
