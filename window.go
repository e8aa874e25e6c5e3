package datescrub

import "time"

// Default window bounds used when the caller does not supply one.
// Together they cover every export a person could plausibly own.
const (
	DefaultWindowStart = "Jan 01 1970"
	DefaultWindowEnd   = "Dec 31 2100"
)

// Window is the (start, end) pair of instants defining retained content.
// By convention Start is exclusive and End is inclusive; the decision rule
// itself is exactly the one documented on Decide.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate returns an error if the window bounds are missing or reversed.
func (w Window) Validate() error {
	if w.Start.IsZero() {
		return Errorf(EINVALID, "window start required")
	}
	if w.End.IsZero() {
		return Errorf(EINVALID, "window end required")
	}
	if w.End.Before(w.Start) {
		return Errorf(EINVALID, "window end %s is before start %s",
			w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	return nil
}

// Decide returns Discard if and only if the whole span lies strictly before
// Start or at/after End. A span touching or straddling the window is kept.
func (w Window) Decide(span Span) Verdict {
	if span.Max.Before(w.Start) || !span.Min.Before(w.End) {
		return Discard
	}
	return Keep
}

// Span is the [Min, Max] range of instants found within one entry.
type Span struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// SpanOf computes the span of the usable candidates.
// The bool result is false when no candidate carries a usable time.
func SpanOf(candidates []Candidate) (Span, bool) {
	var span Span
	found := false
	for _, c := range candidates {
		if !c.Usable() {
			continue
		}
		if !found {
			span = Span{Min: c.Time, Max: c.Time}
			found = true
			continue
		}
		if c.Time.Before(span.Min) {
			span.Min = c.Time
		}
		if c.Time.After(span.Max) {
			span.Max = c.Time
		}
	}
	return span, found
}

// Verdict is the keep/discard decision for one entry.
type Verdict int

// Verdict values.
const (
	Keep Verdict = iota
	Discard
)

// String returns the lowercase name of the verdict.
func (v Verdict) String() string {
	switch v {
	case Keep:
		return "keep"
	case Discard:
		return "discard"
	}
	return "unknown"
}

// Evaluation is the outcome of evaluating one entry against a window.
type Evaluation struct {
	Verdict Verdict

	// Span is only meaningful when HasSpan is true.
	Span    Span
	HasSpan bool

	// Candidates counts every grammar match; Usable counts those that
	// normalized to an instant.
	Candidates int
	Usable     int
}

// Evaluate decides the verdict for an entry from its timestamp candidates.
// An entry without a usable timestamp is always kept.
func Evaluate(candidates []Candidate, w Window) Evaluation {
	ev := Evaluation{Verdict: Keep, Candidates: len(candidates)}
	for _, c := range candidates {
		if c.Usable() {
			ev.Usable++
		}
	}

	span, ok := SpanOf(candidates)
	if !ok {
		return ev
	}
	ev.Span = span
	ev.HasSpan = true
	ev.Verdict = w.Decide(span)
	return ev
}
