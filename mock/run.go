package mock

import (
	"context"

	"github.com/fwojciec/datescrub"
)

var _ datescrub.RunService = (*RunService)(nil)

// RunService is a mock implementation of datescrub.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *datescrub.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*datescrub.Run, error)
	FindRunsFn    func(ctx context.Context, filter datescrub.RunFilter) ([]*datescrub.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *datescrub.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*datescrub.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter datescrub.RunFilter) ([]*datescrub.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
