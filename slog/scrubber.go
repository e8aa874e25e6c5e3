// Package slog provides logging decorators built on log/slog.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/datescrub"
)

// Ensure LoggingScrubber implements datescrub.Scrubber.
var _ datescrub.Scrubber = (*LoggingScrubber)(nil)

// LoggingScrubber wraps a Scrubber and logs every discarded entry.
type LoggingScrubber struct {
	next   datescrub.Scrubber
	logger *slog.Logger
}

// NewLoggingScrubber creates a new LoggingScrubber.
func NewLoggingScrubber(next datescrub.Scrubber, logger *slog.Logger) *LoggingScrubber {
	return &LoggingScrubber{next: next, logger: logger}
}

// Scrub delegates to the wrapped scrubber, logging one line per discarded
// entry with its span and a summary of the document.
func (s *LoggingScrubber) Scrub(html string, w datescrub.Window) (result *datescrub.ScrubResult, err error) {
	defer func(begin time.Time) {
		var entries, discarded int
		if result != nil {
			entries = result.Entries
			discarded = len(result.Discards)
		}
		s.logger.Info("scrubbed document",
			"entries", entries,
			"discarded", discarded,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	result, err = s.next.Scrub(html, w)
	if err != nil {
		return nil, err
	}
	for _, d := range result.Discards {
		s.logger.Info("discarded entry",
			"min", d.Span.Min.Format(time.RFC3339),
			"max", d.Span.Max.Format(time.RFC3339),
			"candidates", d.Candidates,
			"excerpt", d.Excerpt,
		)
	}
	return result, nil
}
