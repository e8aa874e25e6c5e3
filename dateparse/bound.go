// Package dateparse parses the caller-supplied bounds of a time window.
//
// Bounds are tried against the export timestamp grammar first, so that a
// bound written like an export timestamp normalizes exactly the way the
// timestamps it is compared with do. A bound with that shape but
// out-of-range fields is rejected outright. Anything else falls through to
// github.com/araddon/dateparse and finally to go-dateparser in strict mode,
// which only accepts complete dates with a day, month and year.
package dateparse

import (
	"strings"
	"time"
	"unicode"

	adp "github.com/araddon/dateparse"
	"github.com/fwojciec/datescrub"
	"github.com/fwojciec/datescrub/timestamp"
	dps "github.com/markusmobius/go-dateparser"
)

// MaxBoundLength is the longest bound string that is parsed.
const MaxBoundLength = 128

// BoundLayouts are date-only layouts accepted for bounds in addition to the
// timestamp layouts, e.g. "Jan 01 1970" or "December 31, 2100".
var BoundLayouts = []string{
	"{month} {day}[,] {year}",
}

// Ensure BoundParser implements datescrub.BoundParser at compile time.
var _ datescrub.BoundParser = (*BoundParser)(nil)

// BoundParser parses window bounds into UTC instants.
type BoundParser struct {
	grammar *timestamp.Grammar
	now     time.Time
}

// Option configures a BoundParser.
type Option func(*BoundParser)

// WithNow sets the reference time for relative expressions.
// Defaults to the time the parser is created.
func WithNow(now time.Time) Option {
	return func(p *BoundParser) {
		p.now = now
	}
}

// NewBoundParser creates a BoundParser accepting the layouts in cfg plus BoundLayouts.
func NewBoundParser(cfg *datescrub.Config, opts ...Option) (*BoundParser, error) {
	layouts := make([]string, 0, len(cfg.Layouts)+len(BoundLayouts))
	layouts = append(layouts, cfg.Layouts...)
	layouts = append(layouts, BoundLayouts...)

	grammar, err := timestamp.Compile(layouts, timestamp.WithMaxLength(MaxBoundLength))
	if err != nil {
		return nil, err
	}

	p := &BoundParser{grammar: grammar, now: time.Now().UTC()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ParseBound parses s into a UTC instant.
// Timestamps without a zone are read as UTC wall clock time.
func (p *BoundParser) ParseBound(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "date required")
	}
	if len(s) > MaxBoundLength {
		return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "date longer than %d bytes", MaxBoundLength)
	}

	// A bound shaped like an export date is final: falling through would
	// let the lenient parsers shift an impossible date to a real one.
	if p.grammar.Recognizes(s) {
		t, err := p.grammar.Parse(s)
		if err != nil {
			return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "%q is not a valid date: %s", s, datescrub.ErrorMessage(err))
		}
		return t, nil
	}

	if t, err := adp.ParseIn(s, time.UTC); err == nil {
		return t.UTC(), nil
	}

	// Purely numeric input is left to the layout parsers above.
	if !strings.ContainsFunc(s, unicode.IsLetter) {
		return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "%q is not a recognized date", s)
	}

	cfg := &dps.Configuration{
		Languages:       []string{"en"},
		DefaultTimezone: time.UTC,
		CurrentTime:     p.now,
		StrictParsing:   true,
	}
	dt, err := dps.Parse(cfg, s)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "%q is not a recognized date", s)
	}
	return dt.Time.UTC(), nil
}
