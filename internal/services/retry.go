package services

import (
	"context"
	"time"

	"github.com/avast/retry-go"
)

// RetryPolicy bounds retries of transient failures. Delay grows
// linearly: attempt n waits n*Backoff.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// Do runs fn until it succeeds, fails non-transiently, the attempt
// budget is exhausted, or ctx is done. The last error is returned
// unwrapped of retry bookkeeping.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	return retry.Do(
		func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn()
		},
		retry.Attempts(uint(attempts)),
		retry.RetryIf(func(err error) bool {
			if ctx.Err() != nil {
				return false
			}
			return IsTransient(err)
		}),
		retry.DelayType(func(n uint, _ error, config *retry.Config) time.Duration {
			return time.Duration(n+1) * p.Backoff
		}),
		retry.LastErrorOnly(true),
	)
}
