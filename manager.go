package storystream

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Manager owns the single active Subscription, mediates all of its state
// transitions and is the sole writer to the fragment Buffer.
//
// Every callback from a subscription's connection is checked against the
// active subscription's ID before it touches shared state, so anything a
// superseded connection delivers after a switch is ignored, including when
// the same stream is re-selected.
type Manager struct {
	transport Transport
	decoder   Decoder
	reporter  Reporter

	mu     sync.Mutex
	active *subscription
	buffer Buffer
	err    error // last transport error of the active subscription
	ended  bool
	closed bool

	changes chan struct{}
	wg      sync.WaitGroup
}

type subscription struct {
	id       string
	streamID string
	state    SubscriptionState
	cancel   context.CancelFunc
	conn     Conn // nil until the handshake completes
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithReporter sets the diagnostic Reporter. If nil or not set, diagnostics
// are discarded.
func WithReporter(r Reporter) ManagerOption {
	return func(m *Manager) {
		if r != nil {
			m.reporter = r
		}
	}
}

// NewManager creates a Manager that opens connections with t and decodes
// messages with d. No subscription exists until SelectStream is called.
func NewManager(t Transport, d Decoder, opts ...ManagerOption) *Manager {
	m := &Manager{
		transport: t,
		decoder:   d,
		reporter:  nopReporter{},
		changes:   make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// SelectStream closes the current subscription, if any, resets the buffer and
// starts a new subscription for streamID in StateConnecting. It does not wait
// for the network. Selecting the current stream again is a fresh switch.
func (m *Manager) SelectStream(streamID string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	prev := m.detachLocked()

	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{
		id:       ulid.Make().String(),
		streamID: streamID,
		state:    StateConnecting,
		cancel:   cancel,
	}
	m.active = sub
	m.buffer.Reset()
	m.err = nil
	m.ended = false
	m.wg.Add(1)
	m.notifyLocked()
	m.mu.Unlock()

	// Teardown errors of a superseded connection are of no interest.
	if prev != nil {
		_ = prev.Close()
	}

	go m.run(ctx, sub)
	return nil
}

// Shutdown closes the active subscription, releases its connection and waits
// for its goroutine to exit. Buffered fragments are kept and any transport
// error is cleared. No further events are accepted. Calling Shutdown more
// than once is a no-op.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	conn := m.detachLocked()
	m.err = nil
	m.notifyLocked()
	m.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	m.wg.Wait()
	return err
}

// Changes returns a channel that receives a value after observable state
// changes. Signals coalesce: a receiver woken once should read Snapshot to
// catch up on everything that happened since its last read.
func (m *Manager) Changes() <-chan struct{} {
	return m.changes
}

// CurrentStreamID returns the stream of the active subscription, or "" if no
// stream was ever selected.
func (m *Manager) CurrentStreamID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return ""
	}
	return m.active.streamID
}

// ConnectionState returns the state of the active subscription. It returns
// StateClosed if no stream was ever selected.
func (m *Manager) ConnectionState() SubscriptionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return StateClosed
	}
	return m.active.state
}

// BufferedFragments returns a copy of the accepted fragments in arrival order.
func (m *Manager) BufferedFragments() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffer.Fragments()
}

// ActiveSubscription returns a view of the active subscription. The boolean
// is false if no stream was ever selected.
func (m *Manager) ActiveSubscription() (Subscription, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return Subscription{}, false
	}
	return m.active.view(), true
}

// Snapshot is a consistent view of the Manager's observable state.
type Snapshot struct {
	Subscription
	Fragments []string
	Err       error // last transport error, nil unless State is StateFailed
	Ended     bool  // the server signalled the end of the story
}

// Text returns the concatenation of all fragments.
func (s Snapshot) Text() string {
	b := Buffer{fragments: s.Fragments}
	return b.String()
}

// Snapshot returns the current observable state in one read.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		Subscription: Subscription{State: StateClosed},
		Fragments:    m.buffer.Fragments(),
		Err:          m.err,
		Ended:        m.ended,
	}
	if m.active != nil {
		s.Subscription = m.active.view()
	}
	return s
}

// run dials and then pumps messages until the connection fails or the
// subscription is superseded.
func (m *Manager) run(ctx context.Context, sub *subscription) {
	defer m.wg.Done()

	conn, err := m.transport.Dial(ctx, sub.streamID)
	if err != nil {
		m.fail(sub, err)
		return
	}
	defer conn.Close()

	if !m.open(sub, conn) {
		return
	}
	for {
		raw, err := conn.Next()
		if err != nil {
			m.fail(sub, err)
			return
		}
		if !m.receive(sub, raw) {
			return
		}
	}
}

func (m *Manager) open(sub *subscription, conn Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.currentLocked(sub) {
		m.staleLocked(sub, nil)
		return false
	}
	sub.conn = conn
	sub.state = StateOpen
	m.notifyLocked()
	return true
}

// receive routes one raw message. It returns false once sub is no longer the
// active subscription.
func (m *Manager) receive(sub *subscription, raw string) bool {
	evt, decodeErr := m.decoder.Decode(raw)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.currentLocked(sub) {
		m.staleLocked(sub, nil)
		return false
	}
	if decodeErr != nil {
		var de *DecodeError
		if !errors.As(decodeErr, &de) {
			decodeErr = &DecodeError{Raw: raw, Err: decodeErr}
		}
		m.reportLocked(DiagnosticDecode, sub, decodeErr)
		return true
	}
	if evt.StreamID != sub.streamID {
		m.reportLocked(DiagnosticCrossStream, sub,
			fmt.Errorf("event %d for stream %q on stream %q", evt.EventID, evt.StreamID, sub.streamID))
		return true
	}
	m.buffer.Append(evt.Story)
	if evt.End {
		m.ended = true
	}
	m.notifyLocked()
	return true
}

func (m *Manager) fail(sub *subscription, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.currentLocked(sub) {
		m.staleLocked(sub, err)
		return
	}
	sub.state = StateFailed
	m.err = fmt.Errorf("%w: %w", ErrTransport, err)
	m.reportLocked(DiagnosticTransport, sub, m.err)
	m.notifyLocked()
}

// currentLocked reports whether sub is the active subscription and still
// accepts callbacks.
func (m *Manager) currentLocked(sub *subscription) bool {
	return m.active != nil && m.active.id == sub.id && sub.state.Live()
}

// detachLocked marks the active subscription closed, cancels its dial and
// returns its connection for the caller to close outside the lock.
func (m *Manager) detachLocked() Conn {
	sub := m.active
	if sub == nil {
		return nil
	}
	sub.state = StateClosed
	sub.cancel()
	conn := sub.conn
	sub.conn = nil
	return conn
}

func (m *Manager) staleLocked(sub *subscription, err error) {
	m.reportLocked(DiagnosticStale, sub, err)
}

func (m *Manager) reportLocked(kind DiagnosticKind, sub *subscription, err error) {
	m.reporter.Report(Diagnostic{
		Kind:           kind,
		SubscriptionID: sub.id,
		StreamID:       sub.streamID,
		Err:            err,
	})
}

func (m *Manager) notifyLocked() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func (s *subscription) view() Subscription {
	return Subscription{ID: s.id, StreamID: s.streamID, State: s.state}
}
