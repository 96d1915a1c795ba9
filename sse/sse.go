// Package sse implements [storystream.Transport] over server-sent events.
package sse

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fwojciec/storystream"
)

// ContentType is the media type of an event stream response.
const ContentType = "text/event-stream"

const (
	eventsPath   = "/events/"
	maxLineBytes = 1 << 20
)

// Interface compliance check.
var _ storystream.Transport = (*Transport)(nil)

// Transport dials one HTTP event stream per subscription.
type Transport struct {
	baseURL    string
	endpoint   func(streamID string) string
	httpClient *http.Client
}

// Option configures a [Transport].
type Option func(*Transport)

// WithBaseURL sets the server root. Streams are requested from
// {baseURL}/events/{streamID}.
func WithBaseURL(url string) Option {
	return func(t *Transport) { t.baseURL = strings.TrimSuffix(url, "/") }
}

// WithEndpoint replaces the streamID to URL mapping entirely.
func WithEndpoint(fn func(streamID string) string) Option {
	return func(t *Transport) { t.endpoint = fn }
}

// WithHTTPClient sets a custom HTTP client. The client must not set an
// overall Timeout, since event streams are long-lived.
func WithHTTPClient(hc *http.Client) Option {
	return func(t *Transport) { t.httpClient = hc }
}

// New creates a new [Transport].
func New(opts ...Option) *Transport {
	t := &Transport{
		baseURL:    "http://localhost:3001",
		httpClient: http.DefaultClient,
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
	return t.baseURL + eventsPath + url.PathEscape(streamID)
}

// Dial opens the event stream for streamID. The handshake succeeds when the
// server answers 200 with an event-stream content type.
func (t *Transport) Dial(ctx context.Context, streamID string) (storystream.Conn, error) {
	ctx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL(streamID), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("sse: %w", err)
	}
	req.Header.Set("Accept", ContentType)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("sse: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer cancel()
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	if ct := strings.ToLower(resp.Header.Get("Content-Type")); !strings.HasPrefix(ct, ContentType) {
		cancel()
		resp.Body.Close()
		return nil, fmt.Errorf("sse: unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	return newConn(resp.Body, cancel), nil
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return fmt.Errorf("sse: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("sse: HTTP %d", resp.StatusCode)
	}
	return fmt.Errorf("sse: HTTP %d: %s", resp.StatusCode, msg)
}
