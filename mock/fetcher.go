package mock

import (
	"context"

	"github.com/fwojciec/pagemig"
)

var _ pagemig.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pagemig.Fetcher.
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

var _ pagemig.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of pagemig.RateLimiter.
type RateLimiter struct {
	WaitFn func(ctx context.Context) error
}

func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.WaitFn(ctx)
}
