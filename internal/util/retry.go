package util

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryOnce runs op and, when op reports its failure as retryable, waits
// delay and runs it exactly one more time. Non-retryable errors and
// context cancellation end the attempt immediately.
func RetryOnce(ctx context.Context, delay time.Duration, op func() (retry bool, err error)) error {
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), 1), ctx)

	return backoff.Retry(func() error {
		retry, err := op()
		if err != nil && !retry {
			return backoff.Permanent(err)
		}
		return err
	}, bo)
}
