package chain

import (
	"context"
	"time"
)

// RetryPolicy bounds how often a failed RPC call is repeated. The delay
// doubles after every attempt.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

func withRetry(ctx context.Context, policy RetryPolicy, fn func(context.Context) error) error {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	delay := policy.Backoff
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
