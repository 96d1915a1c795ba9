// Package glog implements [storystream.Reporter] on top of
// github.com/golang/glog.
//
// glog writes to files under os.TempDir() unless -logtostderr is set, which
// keeps diagnostics off the terminal while the TUI owns it.
package glog

import (
	"github.com/fwojciec/storystream"
	"github.com/golang/glog"
)

var _ storystream.Reporter = Reporter{}

// Reporter logs diagnostics. Decode and transport failures are warnings,
// cross-stream drops are info, and stale callbacks only appear at -v=1.
type Reporter struct{}

// Report logs d.
func (Reporter) Report(d storystream.Diagnostic) {
	switch d.Kind {
	case storystream.DiagnosticDecode, storystream.DiagnosticTransport:
		glog.Warningf("[%s]%s s(%s) error = %v\n", d.Kind, d.SubscriptionID, d.StreamID, d.Err)
	case storystream.DiagnosticCrossStream:
		glog.Infof("[%s]%s s(%s) drop = %v\n", d.Kind, d.SubscriptionID, d.StreamID, d.Err)
	case storystream.DiagnosticStale:
		if glog.V(1) {
			if d.Err != nil {
				glog.Infof("[%s]%s s(%s) error = %v\n", d.Kind, d.SubscriptionID, d.StreamID, d.Err)
			} else {
				glog.Infof("[%s]%s s(%s)\n", d.Kind, d.SubscriptionID, d.StreamID)
			}
		}
	default:
		glog.Infof("[%s]%s s(%s) %v\n", d.Kind, d.SubscriptionID, d.StreamID, d.Err)
	}
}

// Flush writes any buffered log lines.
func Flush() {
	glog.Flush()
}
