// Package mock provides function-field mocks of sitewalk interfaces
// for use in tests.
package mock

import (
	"context"

	"github.com/fwojciec/sitewalk"
)

var _ sitewalk.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitewalk.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
