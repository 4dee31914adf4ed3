package rate_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/pagemig"
	"github.com/fwojciec/pagemig/rate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter(t *testing.T) {
	t.Parallel()

	t.Run("implements pagemig.RateLimiter interface", func(t *testing.T) {
		t.Parallel()
		var _ pagemig.RateLimiter = rate.NewLimiter(time.Second)
	})

	t.Run("first request is immediate", func(t *testing.T) {
		t.Parallel()

		limiter := rate.NewLimiter(time.Second)

		start := time.Now()
		err := limiter.Wait(context.Background())
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond, "first request should be immediate")
	})

	t.Run("spaces consecutive requests by the delay", func(t *testing.T) {
		t.Parallel()

		limiter := rate.NewLimiter(100 * time.Millisecond)
		require.NoError(t, limiter.Wait(context.Background()))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background()))
		elapsed := time.Since(start)

		assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond, "second request should wait ~100ms")
		assert.Less(t, elapsed, 200*time.Millisecond, "second request should not wait too long")
	})

	t.Run("zero delay never waits", func(t *testing.T) {
		t.Parallel()

		limiter := rate.NewLimiter(0)

		start := time.Now()
		for i := 0; i < 20; i++ {
			require.NoError(t, limiter.Wait(context.Background()))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
		assert.Equal(t, time.Duration(0), limiter.Delay())
	})

	t.Run("returns error when context is canceled", func(t *testing.T) {
		t.Parallel()

		limiter := rate.NewLimiter(time.Hour)
		require.NoError(t, limiter.Wait(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := limiter.Wait(ctx)
		require.Error(t, err)
	})
}
