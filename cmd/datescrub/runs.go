package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/datescrub"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	if deps.Runs == nil {
		err := datescrub.Errorf(datescrub.EINVALID, "no audit database configured: set --audit-db or DATESCRUB_AUDIT_DB")
		fmt.Fprintf(deps.Stderr, "error: %s\n", datescrub.ErrorMessage(err))
		return err
	}

	filter := datescrub.RunFilter{Limit: c.Limit}
	if c.Input != "" {
		filter.InputPath = &c.Input
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", datescrub.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s -> %s  window=%s..%s  documents=%d  discarded=%d  assets=%d\n",
			r.ID,
			r.CreatedAt.Format(time.RFC3339),
			r.InputPath,
			r.OutputPath,
			r.Window.Start.Format(time.DateOnly),
			r.Window.End.Format(time.DateOnly),
			len(r.Documents),
			r.Discarded(),
			r.Assets,
		)
	}

	return nil
}
