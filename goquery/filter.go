package goquery

import "github.com/fwojciec/datescrub"

// Filter decides whether an entry survives a time window.
type Filter struct {
	extractor datescrub.TimestampExtractor
}

// NewFilter creates a Filter reading timestamps with extractor.
func NewFilter(extractor datescrub.TimestampExtractor) *Filter {
	return &Filter{extractor: extractor}
}

// Evaluate extracts every timestamp in the entry's text and decides the
// entry's verdict from their span. Entries without a usable timestamp are kept.
func (f *Filter) Evaluate(e Entry, w datescrub.Window) datescrub.Evaluation {
	return datescrub.Evaluate(f.extractor.Extract(e.Text()), w)
}
