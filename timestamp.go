package datescrub

import "time"

// Candidate is a text fragment that matched the timestamp grammar.
// Time is set when the fragment normalized to an instant; otherwise Err
// explains why the candidate is unusable.
type Candidate struct {
	Text   string
	Offset int
	Time   time.Time
	Err    error
}

// Usable reports whether the candidate normalized to an instant.
func (c Candidate) Usable() bool {
	return c.Err == nil && !c.Time.IsZero()
}

// TimestampExtractor finds timestamp candidates in free text.
type TimestampExtractor interface {
	// Extract scans text once and returns every candidate in text order.
	// Implementations must run in time linear in the length of text.
	Extract(text string) []Candidate
}

// BoundParser parses caller-supplied window bounds.
type BoundParser interface {
	// ParseBound parses s into a UTC instant.
	// Returns EINVALID if s is not recognized as a date.
	ParseBound(s string) (time.Time, error)
}
