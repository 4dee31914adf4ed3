// Package rate paces requests to the content source using a token bucket.
package rate

import (
	"context"
	"time"

	"github.com/fwojciec/pagemig"
	"golang.org/x/time/rate"
)

var _ pagemig.RateLimiter = (*Limiter)(nil)

// Limiter enforces a fixed delay between consecutive requests.
// The first request is never delayed. Limiter is safe for concurrent use,
// though the migration drives it from a single goroutine.
type Limiter struct {
	limiter *rate.Limiter
	delay   time.Duration
}

// NewLimiter creates a Limiter that spaces requests by delay.
// A non-positive delay disables pacing.
func NewLimiter(delay time.Duration) *Limiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Limiter{
		limiter: rate.NewLimiter(limit, 1),
		delay:   delay,
	}
}

// Delay returns the configured spacing between requests.
func (l *Limiter) Delay() time.Duration {
	return l.delay
}

// Wait blocks until the next request is allowed.
// Returns an error if the context is canceled before the wait completes.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
