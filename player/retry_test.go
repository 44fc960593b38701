package player

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastPolicy = RetryPolicy{Attempts: 3, Backoff: time.Millisecond, Timeout: time.Second}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy, zerolog.Nop(), "status", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &TransientError{Op: "status", Err: errors.New("blip")}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUp(t *testing.T) {
	calls := 0
	blip := errors.New("blip")
	err := Retry(context.Background(), fastPolicy, zerolog.Nop(), "status", func(ctx context.Context) error {
		calls++
		return &TransientError{Op: "status", Err: blip}
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, blip)
	assert.True(t, IsTransient(err))
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("no such device")
	err := Retry(context.Background(), fastPolicy, zerolog.Nop(), "play", func(ctx context.Context) error {
		calls++
		return permanent
	})

	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{Attempts: 10, Backoff: time.Hour}

	calls := 0
	err := Retry(ctx, policy, zerolog.Nop(), "status", func(ctx context.Context) error {
		calls++
		cancel()
		return &TransientError{Op: "status", Err: errors.New("blip")}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryAppliesPerAttemptTimeout(t *testing.T) {
	policy := RetryPolicy{Attempts: 2, Backoff: time.Millisecond, Timeout: 5 * time.Millisecond}

	calls := 0
	err := Retry(context.Background(), policy, zerolog.Nop(), "status", func(ctx context.Context) error {
		calls++
		<-ctx.Done()
		return classifyNetwork("status", ctx.Err())
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, calls)
}

type tempErr bool

func (e tempErr) Error() string   { return "temp" }
func (e tempErr) Temporary() bool { return bool(e) }

func TestClassifyNetwork(t *testing.T) {
	assert.NoError(t, classifyNetwork("op", nil))
	assert.True(t, IsTransient(classifyNetwork("op", &net.OpError{Op: "dial", Err: errors.New("refused")})))
	assert.True(t, IsTransient(classifyNetwork("op", context.DeadlineExceeded)))
	assert.True(t, IsTransient(classifyNetwork("op", tempErr(true))))
	assert.False(t, IsTransient(classifyNetwork("op", tempErr(false))))
	assert.False(t, IsTransient(classifyNetwork("op", context.Canceled)))
	assert.False(t, IsTransient(classifyNetwork("op", errors.New("bad request"))))
}
