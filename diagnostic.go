package storystream

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind int

const (
	DiagnosticDecode      DiagnosticKind = iota // Malformed message dropped.
	DiagnosticTransport                         // Connection-level failure.
	DiagnosticStale                             // Callback from a superseded subscription ignored.
	DiagnosticCrossStream                       // Event for another stream dropped.
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticDecode:
		return "decode"
	case DiagnosticTransport:
		return "transport"
	case DiagnosticStale:
		return "stale"
	case DiagnosticCrossStream:
		return "cross_stream"
	default:
		return "unknown"
	}
}

// Diagnostic is a side-channel report from the Manager. None of these affect
// the buffer; only DiagnosticTransport coincides with a state change.
type Diagnostic struct {
	Kind           DiagnosticKind
	SubscriptionID string
	StreamID       string
	Err            error
}

// Reporter receives diagnostics. Report is called with the Manager's lock
// held and must not call back into the Manager.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d Diagnostic) { f(d) }

type nopReporter struct{}

func (nopReporter) Report(Diagnostic) {}
