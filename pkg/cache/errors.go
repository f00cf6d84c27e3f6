package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared by sources and backends.
var (
	// ErrNotFound is returned when a remote resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned for transport failures and 5xx responses.
	ErrNetwork = errors.New("network error")
)

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff controls [RetryWithBackoff].
type Backoff struct {
	Attempts int
	Initial  time.Duration
}

// DefaultBackoff tries three times starting at one second.
var DefaultBackoff = Backoff{Attempts: 3, Initial: time.Second}

// RetryWithBackoff calls fn using [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}

// Retry calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The delay doubles after every failed attempt.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Initial
	var lastErr error

	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
