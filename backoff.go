package redlock

import (
	"context"
	"math/rand/v2"
	"time"
)

// backoff returns the sleep duration to use before the next retry
// attempt: retryDelay plus a signed jitter uniformly drawn from
// [-retryJitter, +retryJitter].
//
// The Redlock reference implementation drew its jitter sign from a
// half-open range with an exclusive upper bound, which in practice
// yields only zero or negative jitter — almost certainly a transcription
// slip rather than intended behavior. This implementation uses the
// symmetric, inclusive draw that the algorithm clearly intends; New
// still rejects configurations where RetryJitter exceeds RetryDelay so
// that even the clamp below is unreachable in well-formed configs.
func (c *Coordinator) backoff() time.Duration {
	jitterMillis := c.retryJitter.Milliseconds()
	if jitterMillis <= 0 {
		return c.retryDelay
	}
	draw := rand.Int64N(2*jitterMillis+1) - jitterMillis
	d := c.retryDelay + time.Duration(draw)*time.Millisecond
	if d < 0 {
		return 0
	}
	return d
}

// sleepBackoff waits for backoff() or until ctx is done, whichever
// comes first.
func (c *Coordinator) sleepBackoff(ctx context.Context) error {
	d := c.backoff()
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
