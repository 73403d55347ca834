// Package retry centralizes the backoff policy applied at the two provider
// call sites: discovery page fetches and single deletions.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy is a bounded exponential backoff. The zero value is not usable;
// use DefaultPolicy or fill every field.
type Policy struct {
	// MaxAttempts bounds total calls, first try included.
	MaxAttempts int

	// BaseDelay is the initial wait, doubling each attempt.
	BaseDelay time.Duration

	// MaxDelay caps the wait between attempts.
	MaxDelay time.Duration
}

// DefaultPolicy matches the discovery contract: five attempts, base delay
// doubling, jittered by the backoff implementation.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Do runs op, retrying while retryable(err) is true, up to the policy
// bound. The first nil or non-retryable error is returned as-is. Context
// cancellation stops waiting and surfaces the last error.
func (p Policy) Do(ctx context.Context, op func() error, retryable func(error) bool) error {
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.MaxInterval = p.MaxDelay
	b.Multiplier = 2
	b.MaxElapsedTime = 0

	var policy backoff.BackOff = b
	if p.MaxAttempts > 0 {
		policy = backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1))
	}
	return backoff.Retry(wrapped, backoff.WithContext(policy, ctx))
}
