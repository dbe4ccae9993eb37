// Package retry provides the bounded retry policy shared by the search
// client and the retrieval fetchers: a fixed number of attempts with a
// fixed delay between them.
package retry

import (
	"context"
	"errors"
	"time"
)

const (
	// DefaultResults is how many search result URLs are retrieved.
	DefaultResults = 3
	// Limit is how many additional attempts follow a failed first attempt.
	Limit = 3
	// Delay is the pause between attempts.
	Delay = 500 * time.Millisecond
	// AttemptTimeout bounds a single network attempt.
	AttemptTimeout = 10 * time.Second
)

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps an error so Do stops retrying and returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs fn up to attempts times, sleeping delay between attempts. Each
// attempt gets its own context bounded by AttemptTimeout. The last error is
// returned once attempts are exhausted; a Permanent error or a cancelled
// parent context short-circuits.
func Do(ctx context.Context, attempts int, delay time.Duration, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, AttemptTimeout)
		err := fn(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		lastErr = err

		if attempt < attempts-1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}
