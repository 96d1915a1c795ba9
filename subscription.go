package storystream

// SubscriptionState indicates the lifecycle state of a Subscription.
type SubscriptionState int

const (
	StateConnecting SubscriptionState = iota // Connection attempt in progress.
	StateOpen                                // Handshake succeeded, receiving events.
	StateClosed                              // Explicitly torn down.
	StateFailed                              // Transport reported an error.
)

func (s SubscriptionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Live reports whether inbound messages are still routed in this state.
func (s SubscriptionState) Live() bool {
	return s == StateConnecting || s == StateOpen
}

// Subscription is a read-only view of one connection attempt.
//
// Transitions:
//   - Connecting -> Open on handshake success.
//   - Connecting, Open -> Failed on transport error.
//   - Connecting, Open, Failed -> Closed on explicit teardown.
//
// Closed is terminal. ID is unique per attempt, so re-selecting the same
// StreamID yields a different Subscription.
type Subscription struct {
	ID       string
	StreamID string
	State    SubscriptionState
}
