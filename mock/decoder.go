package mock

import "github.com/fwojciec/storystream"

// Interface compliance checks.
var (
	_ storystream.Decoder  = (*Decoder)(nil)
	_ storystream.Reporter = (*Reporter)(nil)
)

// Decoder is a test double for storystream.Decoder.
// Set DecodeFn before calling Decode.
type Decoder struct {
	DecodeFn func(raw string) (storystream.StoryEvent, error)
}

// Decode delegates to DecodeFn.
func (d *Decoder) Decode(raw string) (storystream.StoryEvent, error) {
	return d.DecodeFn(raw)
}

// Reporter is a test double for storystream.Reporter.
// ReportFn is nil-safe (diagnostics are dropped).
type Reporter struct {
	ReportFn func(d storystream.Diagnostic)
}

// Report delegates to ReportFn.
func (r *Reporter) Report(d storystream.Diagnostic) {
	if r.ReportFn == nil {
		return
	}
	r.ReportFn(d)
}
