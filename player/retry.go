package player

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultRetryAttempts = 3
	DefaultRetryBackoff  = 500 * time.Millisecond
	DefaultCallTimeout   = 10 * time.Second
	maxRetryBackoff      = 5 * time.Second
)

// RetryPolicy bounds how long a remote call may keep the radio waiting.
type RetryPolicy struct {
	Attempts int           // total tries, including the first
	Backoff  time.Duration // wait before the second try, doubled after each failure
	Timeout  time.Duration // per-attempt deadline, zero means none
}

// DefaultRetryPolicy returns the policy used when nothing is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: DefaultRetryAttempts,
		Backoff:  DefaultRetryBackoff,
		Timeout:  DefaultCallTimeout,
	}
}

// Retry runs fn until it succeeds, fails with a non-transient error, the
// attempts are used up or ctx is done.
func Retry(ctx context.Context, policy RetryPolicy, logger zerolog.Logger, op string, fn func(ctx context.Context) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := policy.Backoff

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = runAttempt(ctx, policy.Timeout, fn)
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		logger.Warn().Err(err).
			Str("op", op).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("Remote call failed, retrying")

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
		if backoff > maxRetryBackoff {
			backoff = maxRetryBackoff
		}
	}

	return fmt.Errorf("%s: giving up after %d attempts: %w", op, attempts, err)
}

func runAttempt(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(callCtx)
}
