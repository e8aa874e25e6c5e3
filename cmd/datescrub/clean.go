package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fwojciec/datescrub"
	"github.com/fwojciec/datescrub/dateparse"
	"github.com/fwojciec/datescrub/fs"
	"github.com/fwojciec/datescrub/goquery"
	dsslog "github.com/fwojciec/datescrub/slog"
	"github.com/fwojciec/datescrub/timestamp"
	"github.com/fwojciec/datescrub/yaml"
	"github.com/fwojciec/datescrub/zip"
)

const banner = `     _       _                           _
  __| | __ _| |_ ___  ___  ___ _ __ _   _| |__
 / _' |/ _' | __/ _ \/ __|/ __| '__| | | | '_ \
| (_| | (_| | ||  __/\__ \ (__| |  | |_| | |_) |
 \__,_|\__,_|\__\___||___/\___|_|   \__,_|_.__/
`

// Run executes the clean command.
func (c *CleanCmd) Run(deps *Dependencies) error {
	if err := c.run(deps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", datescrub.ErrorMessage(err))
		return err
	}
	return nil
}

func (c *CleanCmd) run(deps *Dependencies) error {
	// Everything that can be rejected is checked before any file is created.
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	level, err := dsslog.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}

	window, err := c.window(cfg)
	if err != nil {
		return err
	}

	if info, err := os.Stat(c.Path); err != nil || info.IsDir() {
		return datescrub.Errorf(datescrub.EINVALID, "input %q must be a zip archive", c.Path)
	}

	grammar, err := timestamp.New(cfg)
	if err != nil {
		return err
	}

	if !c.Quiet {
		fmt.Fprint(deps.Stdout, banner)
	}

	outPath := fs.OutputPath(c.Path, c.Out, cfg.OutputSuffix)
	logFile, err := os.Create(fs.LogPath(outPath))
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	logger := newLogger(level, deps.Stderr, logFile)

	scrubber := dsslog.NewLoggingScrubber(
		goquery.NewScrubber(goquery.NewLocator(cfg.EntryClasses), goquery.NewFilter(grammar)),
		logger,
	)
	media := goquery.NewMediaScanner(cfg.MediaTags, cfg.IgnoredMedia)
	cleaner := dsslog.NewLoggingCleaner(
		zip.NewCleaner(scrubber, media, fs.NewDigester(), cfg.MarkupExtensions),
		logger,
	)

	result, err := cleaner.Clean(deps.Ctx, c.Path, outPath, window, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Cleaned %d documents: %d entries discarded, %d assets kept\n",
		len(result.Documents), result.Discarded(), len(result.Assets))
	fmt.Fprintf(deps.Stdout, "Output: %s\n", result.OutputPath)

	if deps.Runs != nil {
		run := datescrub.NewRun(result, window)
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		fmt.Fprintf(deps.Stdout, "Recorded run %s\n", run.ID)
	}

	return nil
}

func (c *CleanCmd) loadConfig() (*datescrub.Config, error) {
	if c.Config == "" {
		return datescrub.DefaultConfig(), nil
	}
	return yaml.LoadConfig(c.Config)
}

// window parses the start and end bounds.
func (c *CleanCmd) window(cfg *datescrub.Config) (datescrub.Window, error) {
	parser, err := dateparse.NewBoundParser(cfg)
	if err != nil {
		return datescrub.Window{}, err
	}

	start, err := parser.ParseBound(c.Start)
	if err != nil {
		return datescrub.Window{}, datescrub.Errorf(datescrub.EINVALID, "start: %s", datescrub.ErrorMessage(err))
	}
	end, err := parser.ParseBound(c.End)
	if err != nil {
		return datescrub.Window{}, datescrub.Errorf(datescrub.EINVALID, "end: %s", datescrub.ErrorMessage(err))
	}

	w := datescrub.Window{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return datescrub.Window{}, err
	}
	return w, nil
}

// newLogger returns a logger writing every record to both the console and
// the log file.
func newLogger(level slog.Level, console, file io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(dsslog.NewTeeHandler(
		slog.NewTextHandler(console, opts),
		slog.NewTextHandler(file, opts),
	))
}
