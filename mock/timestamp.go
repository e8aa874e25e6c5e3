package mock

import (
	"time"

	"github.com/fwojciec/datescrub"
)

var _ datescrub.TimestampExtractor = (*TimestampExtractor)(nil)

// TimestampExtractor is a mock implementation of datescrub.TimestampExtractor.
type TimestampExtractor struct {
	ExtractFn func(text string) []datescrub.Candidate
}

func (e *TimestampExtractor) Extract(text string) []datescrub.Candidate {
	return e.ExtractFn(text)
}

var _ datescrub.BoundParser = (*BoundParser)(nil)

// BoundParser is a mock implementation of datescrub.BoundParser.
type BoundParser struct {
	ParseBoundFn func(s string) (time.Time, error)
}

func (p *BoundParser) ParseBound(s string) (time.Time, error) {
	return p.ParseBoundFn(s)
}
