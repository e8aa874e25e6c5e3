package mock

import "github.com/fwojciec/datescrub"

var _ datescrub.Scrubber = (*Scrubber)(nil)

// Scrubber is a mock implementation of datescrub.Scrubber.
type Scrubber struct {
	ScrubFn func(html string, window datescrub.Window) (*datescrub.ScrubResult, error)
}

func (s *Scrubber) Scrub(html string, window datescrub.Window) (*datescrub.ScrubResult, error) {
	return s.ScrubFn(html, window)
}

var _ datescrub.MediaScanner = (*MediaScanner)(nil)

// MediaScanner is a mock implementation of datescrub.MediaScanner.
type MediaScanner struct {
	ScanMediaFn func(html string) ([]string, error)
}

func (s *MediaScanner) ScanMedia(html string) ([]string, error) {
	return s.ScanMediaFn(html)
}
