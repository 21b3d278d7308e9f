// Package retry provides a bounded retry policy with linear backoff.
// It is applied as a wrapper around provider calls rather than being
// re-implemented at each call site.
package retry

import (
	"context"
	"time"
)

// Default policy values.
const (
	DefaultAttempts = 3
	DefaultDelay    = 2 * time.Second
)

// Policy describes how an operation is retried. An operation is retried
// only while Retryable returns true for the observed error; the delay
// grows linearly with the attempt number (delay, 2*delay, ...).
type Policy struct {
	// Attempts is the maximum number of tries, including the first.
	Attempts int

	// Delay is the base delay between attempts.
	Delay time.Duration

	// Retryable decides whether an error is worth another attempt.
	// A nil predicate retries nothing.
	Retryable func(error) bool
}

// DefaultPolicy returns a policy with default attempts and delay and
// the given predicate.
func DefaultPolicy(retryable func(error) bool) Policy {
	return Policy{
		Attempts:  DefaultAttempts,
		Delay:     DefaultDelay,
		Retryable: retryable,
	}
}

// Do runs fn until it succeeds, the error is not retryable, attempts
// run out, or the context is cancelled. The last error is returned.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		// Linear backoff: delay grows with the attempt number.
		select {
		case <-time.After(p.Delay * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
