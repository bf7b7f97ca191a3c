// Package retry retries transient failures with capped exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy controls how often and how patiently an operation is retried.
type Policy struct {
	// Attempts is the total number of calls, including the first.
	// Values below 1 mean a single call.
	Attempts int
	// InitialBackoff is the wait before the second call; it doubles after
	// each failure.
	InitialBackoff time.Duration
	// MaxBackoff caps the wait. Zero means no cap.
	MaxBackoff time.Duration
}

// Backoff returns the wait before call number attempt+1 (attempt >= 1).
func (p Policy) Backoff(attempt int) time.Duration {
	backoff := p.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if p.MaxBackoff > 0 && backoff >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
		return p.MaxBackoff
	}
	return backoff
}

// Do calls fn until it succeeds, retryable reports false, the attempts run
// out or ctx ends. A nil retryable retries every error.
func Do(ctx context.Context, p Policy, fn func(context.Context) error, retryable func(error) bool) error {
	attempts := max(p.Attempts, 1)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(p.Backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		lastErr = err
	}

	if attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
