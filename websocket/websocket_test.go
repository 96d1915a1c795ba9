package websocket_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/storystream"
	storyws "github.com/fwojciec/storystream/websocket"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

// frameHandler sends each frame as a text message and closes normally.
func frameHandler(frames ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for _, f := range frames {
			if err := ws.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		// Wait for the client to go away so the close frame is not lost to a reset.
		_, _, _ = ws.ReadMessage()
	}
}

func dial(t *testing.T, h http.Handler) storystream.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	conn, err := storyws.New(storyws.WithBaseURL(srv.URL)).Dial(context.Background(), "stream1")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestConn_Next(t *testing.T) {
	t.Parallel()

	t.Run("delivers text frames in order", func(t *testing.T) {
		t.Parallel()
		c := dial(t, frameHandler("one", "two", "three"))
		for _, want := range []string{"one", "two", "three"} {
			got, err := c.Next()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		_, err := c.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("skips binary frames", func(t *testing.T) {
		t.Parallel()
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ws, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer ws.Close()
			_ = ws.WriteMessage(websocket.BinaryMessage, []byte{0x01})
			_ = ws.WriteMessage(websocket.TextMessage, []byte("text"))
			_, _, _ = ws.ReadMessage()
		})
		c := dial(t, h)
		got, err := c.Next()
		require.NoError(t, err)
		assert.Equal(t, "text", got)
	})

	t.Run("abnormal close is an error other than EOF", func(t *testing.T) {
		t.Parallel()
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ws, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			ws.Close()
		})
		c := dial(t, h)
		_, err := c.Next()
		require.Error(t, err)
		assert.NotErrorIs(t, err, io.EOF)
	})
}

func TestConn_Close(t *testing.T) {
	t.Parallel()

	t.Run("unblocks a pending Next", func(t *testing.T) {
		t.Parallel()
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ws, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer ws.Close()
			_, _, _ = ws.ReadMessage()
		})
		c := dial(t, h)

		errCh := make(chan error, 1)
		go func() {
			_, err := c.Next()
			errCh <- err
		}()
		time.Sleep(20 * time.Millisecond)
		require.NoError(t, c.Close())

		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, storyws.ErrClosed)
		case <-time.After(2 * time.Second):
			t.Fatal("Next did not return after Close")
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()
		c := dial(t, frameHandler())
		require.NoError(t, c.Close())
		assert.NoError(t, c.Close())
		_, err := c.Next()
		assert.ErrorIs(t, err, storyws.ErrClosed)
	})
}

func TestTransport_URL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		want string
	}{
		{"http maps to ws", "http://localhost:3001", "ws://localhost:3001/ws/my%20stream"},
		{"https maps to wss", "https://example.test/", "wss://example.test/ws/my%20stream"},
		{"ws is kept", "ws://example.test", "ws://example.test/ws/my%20stream"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, storyws.New(storyws.WithBaseURL(tc.base)).URL("my stream"))
		})
	}

	t.Run("custom endpoint mapping", func(t *testing.T) {
		t.Parallel()
		tr := storyws.New(storyws.WithEndpoint(func(id string) string { return "ws://example.test/x/" + id }))
		assert.Equal(t, "ws://example.test/x/abc", tr.URL("abc"))
	})
}

func TestTransport_Dial(t *testing.T) {
	t.Parallel()

	t.Run("requests the stream path", func(t *testing.T) {
		t.Parallel()
		paths := make(chan string, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths <- r.URL.EscapedPath()
			frameHandler()(w, r)
		}))
		t.Cleanup(srv.Close)

		c, err := storyws.New(storyws.WithBaseURL(srv.URL)).Dial(context.Background(), "my stream")
		require.NoError(t, err)
		c.Close()
		assert.Equal(t, "/ws/my%20stream", <-paths)
	})

	t.Run("rejected handshake reports the status", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unknown stream", http.StatusNotFound)
		}))
		t.Cleanup(srv.Close)

		_, err := storyws.New(storyws.WithBaseURL(srv.URL)).Dial(context.Background(), "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
		assert.ErrorIs(t, err, websocket.ErrBadHandshake)
	})

	t.Run("cancelled context aborts the dial", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := storyws.New(storyws.WithBaseURL("http://127.0.0.1:1")).Dial(ctx, "stream1")
		require.Error(t, err)
	})
}
