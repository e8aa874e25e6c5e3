package mock

import (
	"context"

	"github.com/fwojciec/datescrub"
)

var _ datescrub.Cleaner = (*Cleaner)(nil)

// Cleaner is a mock implementation of datescrub.Cleaner.
type Cleaner struct {
	CleanFn func(ctx context.Context, inPath, outPath string, window datescrub.Window, progress datescrub.CleanProgressFunc) (*datescrub.CleanResult, error)
}

func (c *Cleaner) Clean(ctx context.Context, inPath, outPath string, window datescrub.Window, progress datescrub.CleanProgressFunc) (*datescrub.CleanResult, error) {
	return c.CleanFn(ctx, inPath, outPath, window, progress)
}

var _ datescrub.Digester = (*Digester)(nil)

// Digester is a mock implementation of datescrub.Digester.
type Digester struct {
	DigestFileFn func(path string) (string, error)
}

func (d *Digester) DigestFile(path string) (string, error) {
	return d.DigestFileFn(path)
}
