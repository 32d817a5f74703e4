// Package resilience provides retry with exponential backoff for
// operations that cross the network.
package resilience

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Policy controls how Retry schedules attempts.
type Policy struct {
	// MaxRetries is the number of attempts after the initial call.
	MaxRetries int

	// BaseDelay seeds the exponential backoff.
	BaseDelay time.Duration

	// MaxDelay caps the backoff growth.
	MaxDelay time.Duration

	// UseJitter randomizes each delay to avoid synchronized retries.
	UseJitter bool
}

// permanentError marks an error that must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Retry gives up immediately. A nil err stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err carries the Permanent marker.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Retry runs fn until it succeeds, the policy is exhausted, the error is
// permanent, or ctx ends. The error of the last attempt is returned.
func Retry(ctx context.Context, policy Policy, fn func() error) error {
	var lastErr error

	attempts := policy.MaxRetries + 1
	for attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) {
			return err
		}

		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(Backoff(attempt, policy)):
			}
		}
	}

	return lastErr
}

// Backoff returns the delay before the retry that follows the given
// attempt: BaseDelay doubled per attempt, capped at MaxDelay.
func Backoff(attempt int, policy Policy) time.Duration {
	base := policy.BaseDelay
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	ceiling := policy.MaxDelay
	if ceiling <= 0 {
		ceiling = 30 * time.Second
	}

	delay := base
	for range attempt {
		delay *= 2
		if delay >= ceiling {
			delay = ceiling
			break
		}
	}

	if policy.UseJitter {
		// Between 0.5x and 1.5x of the computed delay.
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))
	}
	if delay > ceiling {
		delay = ceiling
	}
	return delay
}

// retryable rejects context errors and permanent failures.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !IsPermanent(err)
}
