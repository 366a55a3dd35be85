package mock

import (
	"context"

	"github.com/awitkowski/articlemd"
)

var _ articlemd.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of articlemd.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
