package main

import (
	"context"
	"io"

	"github.com/fwojciec/datescrub"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	// Runs is nil unless an audit database is configured.
	Runs datescrub.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	AuditDB string `name:"audit-db" env:"DATESCRUB_AUDIT_DB" help:"SQLite database recording every cleaning run"`

	Clean CleanCmd `cmd:"" default:"withargs" help:"Clean an export archive (default command)"`
	Runs  RunsCmd  `cmd:"" help:"List recorded cleaning runs"`
}

// CleanCmd is the "clean" subcommand.
type CleanCmd struct {
	Path     string `arg:"" help:"Export zip archive to clean"`
	Start    string `short:"s" default:"${default_start}" help:"Discard entries entirely before this date"`
	End      string `short:"e" default:"${default_end}" help:"Discard entries entirely at or after this date"`
	Out      string `short:"o" help:"Output file or directory (default: next to the input with a _CLEANED suffix)"`
	Quiet    bool   `short:"q" help:"Do not print the banner"`
	Config   string `short:"c" env:"DATESCRUB_CONFIG" help:"YAML file overriding entry classes and timestamp layouts"`
	LogLevel string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Minimum log level (debug, info, warn, error)"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Input string `short:"i" help:"Only show runs for this input archive"`
	Limit int    `short:"n" default:"20" help:"Maximum number of runs to show"`
}
