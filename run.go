package datescrub

import (
	"context"
	"time"
)

// Run is an audit record of one archive cleaning.
type Run struct {
	ID           string           `json:"id"`
	InputPath    string           `json:"inputPath"`
	OutputPath   string           `json:"outputPath"`
	InputDigest  string           `json:"inputDigest"`
	OutputDigest string           `json:"outputDigest"`
	Window       Window           `json:"window"`
	Documents    []DocumentResult `json:"documents"`
	Assets       int              `json:"assets"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// NewRun builds an audit record from a cleaning result.
func NewRun(result *CleanResult, window Window) *Run {
	return &Run{
		InputPath:    result.InputPath,
		OutputPath:   result.OutputPath,
		InputDigest:  result.InputDigest,
		OutputDigest: result.OutputDigest,
		Window:       window,
		Documents:    result.Documents,
		Assets:       len(result.Assets),
	}
}

// Discarded returns the total number of entries removed during the run.
func (r *Run) Discarded() int {
	n := 0
	for _, d := range r.Documents {
		n += d.Discarded
	}
	return n
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.InputPath == "" {
		return Errorf(EINVALID, "run input path required")
	}
	if r.OutputPath == "" {
		return Errorf(EINVALID, "run output path required")
	}
	return r.Window.Validate()
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID        *string `json:"id"`
	InputPath *string `json:"inputPath"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RunService represents a service for recording cleaning runs.
type RunService interface {
	// CreateRun records a run and its per-document results.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}
