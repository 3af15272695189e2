package cache

import (
	"context"
	"errors"
	"net"
	"time"
)

// Backend calls are attempted this many times when they fail with a
// retryable error. The delay before the second attempt is retryDelay and
// doubles after that.
const retryAttempts = 3

var retryDelay = 100 * time.Millisecond

// RetryableError marks a backend failure as transient.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// classify marks network failures as retryable and leaves the rest alone.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Retryable(err)
	}
	return err
}

// RetryWithBackoff runs fn until it succeeds, fails with an error that is
// not retryable, or runs out of attempts. The wait between attempts is
// cut short by ctx.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	err := fn()
	for attempt, delay := 1, retryDelay; attempt < retryAttempts && IsRetryable(err); attempt, delay = attempt+1, delay*2 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		err = fn()
	}
	return err
}
