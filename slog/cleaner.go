package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/datescrub"
)

// Ensure LoggingCleaner implements datescrub.Cleaner.
var _ datescrub.Cleaner = (*LoggingCleaner)(nil)

// LoggingCleaner wraps a Cleaner with progress and audit logging.
type LoggingCleaner struct {
	next   datescrub.Cleaner
	logger *slog.Logger
}

// NewLoggingCleaner creates a new LoggingCleaner.
func NewLoggingCleaner(next datescrub.Cleaner, logger *slog.Logger) *LoggingCleaner {
	return &LoggingCleaner{next: next, logger: logger}
}

// Clean delegates to the wrapped cleaner. Every progress event is logged
// before it is forwarded to progress, and the digests of both archives are
// logged once cleaning finishes.
func (c *LoggingCleaner) Clean(ctx context.Context, inPath, outPath string, w datescrub.Window, progress datescrub.CleanProgressFunc) (result *datescrub.CleanResult, err error) {
	c.logger.Info("cleaning archive",
		"input", inPath,
		"output", outPath,
		"start", w.Start.Format(time.RFC3339),
		"end", w.End.Format(time.RFC3339),
	)
	defer func(begin time.Time) {
		if err != nil {
			c.logger.Error("cleaning failed",
				"input", inPath,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		c.logger.Info("cleaned archive",
			"input", inPath,
			"input_sha256", result.InputDigest,
			"output", outPath,
			"output_sha256", result.OutputDigest,
			"documents", len(result.Documents),
			"discarded", result.Discarded(),
			"assets", len(result.Assets),
			"duration", time.Since(begin),
		)
	}(time.Now())

	return c.next.Clean(ctx, inPath, outPath, w, func(p datescrub.CleanProgress) {
		c.logProgress(p)
		if progress != nil {
			progress(p)
		}
	})
}

func (c *LoggingCleaner) logProgress(p datescrub.CleanProgress) {
	switch p.Kind {
	case datescrub.ProgressAsset:
		c.logger.Info("copied asset", "name", p.Name)
	case datescrub.ProgressDocument:
		attrs := []any{"name", p.Name}
		if p.Result != nil {
			attrs = append(attrs,
				"entries", p.Result.Entries,
				"discarded", p.Result.Discarded,
				"input_hash", p.Result.InputHash,
				"output_hash", p.Result.OutputHash,
			)
		}
		c.logger.Info("processed document", attrs...)
	}
}
