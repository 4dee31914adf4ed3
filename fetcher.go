package pagemig

import "context"

// Fetcher retrieves raw HTML from URLs.
// Implementations do not retry; retry policy belongs to the caller.
type Fetcher interface {
	// Fetch returns the HTML body at url. Non-2xx responses return a
	// *FetchError and timeouts return an ETIMEOUT error.
	// The context controls cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// RateLimiter paces requests to the content source.
type RateLimiter interface {
	// Wait blocks until the next request is allowed.
	// Returns an error if the context is canceled first.
	Wait(ctx context.Context) error
}
