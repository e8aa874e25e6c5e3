package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/datescrub"
	"github.com/fwojciec/datescrub/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database backing the audit ledger, opened only when an
	// audit database path is given.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RunService datescrub.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("datescrub"),
		kong.Description("Remove entries outside a date window from a personal data export archive."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{
			"default_start": datescrub.DefaultWindowStart,
			"default_end":   datescrub.DefaultWindowEnd,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no archive specified. Run 'datescrub --help' for usage")
	}

	if len(args) == 1 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The audit ledger is optional.
	deps.Runs = m.RunService
	if deps.Runs == nil && cli.AuditDB != "" {
		m.DB = sqlite.NewDB(cli.AuditDB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set DATESCRUB_AUDIT_DB or --audit-db to a writable path\n")
			return fmt.Errorf("failed to open audit database at %q: %w", cli.AuditDB, err)
		}
		defer m.Close()
		deps.Runs = sqlite.NewRunService(m.DB)
	}

	return kongCtx.Run(deps)
}
