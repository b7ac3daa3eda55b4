package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/resilience"
)

var fastRetry = resilience.Config{MaxRetries: 3, InitialBackoff: time.Millisecond}

func TestRetryWithBackoff_SucceedsEventually(t *testing.T) {
	attempts := 0

	err := resilience.RetryWithBackoff(context.Background(), fastRetry, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	attempts := 0

	err := resilience.RetryWithBackoff(context.Background(), fastRetry, func() error {
		attempts++
		return errors.New("down")
	})

	require.Error(t, err)
	assert.Equal(t, fastRetry.MaxRetries+1, attempts)
}

func TestRetryWithBackoff_PermanentStopsImmediately(t *testing.T) {
	attempts := 0

	err := resilience.RetryWithBackoff(context.Background(), fastRetry, func() error {
		attempts++
		return errors.Join(resilience.ErrPermanent, errors.New("bad request"))
	})

	require.ErrorIs(t, err, resilience.ErrPermanent)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithBackoff_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := resilience.RetryWithBackoff(ctx, fastRetry, func() error {
		t.Fatal("fn must not run on a cancelled context")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestGuard_OpenBreakerIsNotRetried(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test")

	for range 5 {
		_ = resilience.Guard(context.Background(), cb, resilience.Config{}, func() error {
			return errors.New("down")
		})
	}

	require.Equal(t, gobreaker.StateOpen, cb.State())

	calls := 0
	err := resilience.Guard(context.Background(), cb, fastRetry, func() error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.ErrorIs(t, err, resilience.ErrPermanent)
	assert.Zero(t, calls)
}
