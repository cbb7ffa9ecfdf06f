package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss is for callers that want a miss as an error value.
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnavailable means a remote backend could not be reached.
	ErrUnavailable = errors.New("cache unavailable")
)

// RetryableError marks an error as transient for RetryWithBackoff.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

const retryAttempts = 3

// retryDelay is the wait before the second attempt; each later wait doubles.
var retryDelay = time.Second

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// Retryable, or has run retryAttempts times. The last error is returned.
// Cancelling ctx while waiting returns ctx.Err().
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
}
