// Package server replays a [storystream.Catalog] to clients over server-sent
// events and WebSocket.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/storystream"
	storyjson "github.com/fwojciec/storystream/json"
	"github.com/fwojciec/storystream/sse"
	"github.com/golang/glog"
	"github.com/gorilla/websocket"
)

// DefaultDelay is the pause between consecutive events.
const DefaultDelay = 200 * time.Millisecond

const closeTimeout = time.Second

// Handler serves GET /events/{id} and GET /ws/{id}.
type Handler struct {
	catalog  storystream.Catalog
	delay    time.Duration
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// Option configures a [Handler].
type Option func(*Handler)

// WithDelay sets the pause between consecutive events. Zero sends events
// back to back.
func WithDelay(d time.Duration) Option {
	return func(h *Handler) { h.delay = d }
}

// New creates a [Handler] serving catalog.
func New(catalog storystream.Catalog, opts ...Option) *Handler {
	h := &Handler{
		catalog: catalog,
		delay:   DefaultDelay,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, o := range opts {
		o(h)
	}
	h.mux = http.NewServeMux()
	h.mux.HandleFunc("GET /events/{id}", h.serveEvents)
	h.mux.HandleFunc("GET /ws/{id}", h.serveWebSocket)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serveEvents(w http.ResponseWriter, r *http.Request) {
	streamID := r.PathValue("id")
	if _, ok := h.catalog[streamID]; !ok {
		http.Error(w, "unknown stream", http.StatusNotFound)
		return
	}
	from := 0
	if v := r.Header.Get("Last-Event-ID"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			from = n + 1
		}
	}
	flusher, _ := w.(http.Flusher)

	w.Header().Set("Content-Type", sse.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if flusher != nil {
		flusher.Flush()
	}

	n, err := h.replay(r.Context(), streamID, from, func(evt storystream.StoryEvent, raw string) error {
		if err := sse.WriteEvent(w, strconv.FormatInt(evt.EventID, 10), raw); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		glog.Infof("[events]s(%s) sent = %d error = %v\n", streamID, n, err)
		return
	}
	glog.V(1).Infof("[events]s(%s) sent = %d\n", streamID, n)
}

func (h *Handler) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	streamID := r.PathValue("id")
	if _, ok := h.catalog[streamID]; !ok {
		http.Error(w, "unknown stream", http.StatusNotFound)
		return
	}
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		glog.Infof("[ws]s(%s) upgrade error = %v\n", streamID, err)
		return
	}
	defer ws.Close()

	// The client never sends data; reading surfaces its close or disconnect.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.NextReader(); err != nil {
				return
			}
		}
	}()

	n, err := h.replay(ctx, streamID, 0, func(_ storystream.StoryEvent, raw string) error {
		return ws.WriteMessage(websocket.TextMessage, []byte(raw))
	})
	if err != nil {
		glog.Infof("[ws]s(%s) sent = %d error = %v\n", streamID, n, err)
		return
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout))
	// Give the client a moment to answer the close before dropping the socket.
	select {
	case <-ctx.Done():
	case <-time.After(closeTimeout):
	}
	glog.V(1).Infof("[ws]s(%s) sent = %d\n", streamID, n)
}

// replay encodes every fragment of streamID with an event id of at least
// from, followed by the end event, and passes each to send. It returns the
// number of events sent.
func (h *Handler) replay(ctx context.Context, streamID string, from int, send func(storystream.StoryEvent, string) error) (int, error) {
	fragments := h.catalog[streamID]
	events := make([]storystream.StoryEvent, 0, len(fragments)+1)
	for i, f := range fragments {
		events = append(events, storystream.StoryEvent{Story: f, StreamID: streamID, EventID: int64(i)})
	}
	events = append(events, storystream.StoryEvent{StreamID: streamID, EventID: int64(len(fragments)), End: true})

	sent := 0
	for _, evt := range events {
		if evt.EventID < int64(from) {
			continue
		}
		if sent > 0 {
			if err := h.wait(ctx); err != nil {
				return sent, err
			}
		}
		raw, err := storyjson.EncodeStoryEvent(evt)
		if err != nil {
			return sent, err
		}
		if err := send(evt, raw); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (h *Handler) wait(ctx context.Context) error {
	if h.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(h.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
