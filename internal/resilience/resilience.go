// Package resilience wraps calls to external collaborators with retry and a
// circuit breaker.
package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds retry parameters.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
}

// ErrPermanent marks an error that must not be retried.
var ErrPermanent = errors.New("permanent failure")

// RetryWithBackoff runs fn until it succeeds, returns an error wrapping
// ErrPermanent, the retries are exhausted or ctx is done. The wait between
// attempts grows exponentially with up to 50% jitter.
func RetryWithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil || errors.Is(lastErr, ErrPermanent) {
			return lastErr
		}

		if attempt == cfg.MaxRetries {
			break
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * cfg.InitialBackoff

		var jitter time.Duration
		if half := int64(backoff / 2); half > 0 {
			jitter = time.Duration(rand.Int64N(half))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff + jitter):
		}
	}

	return lastErr
}

// NewCircuitBreaker returns a breaker that opens once at least five requests
// were seen in the window and 60% of them failed.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return failureRatio >= 0.6
		},
	})
}

// Guard runs fn inside cb, retrying failures with backoff. Open-breaker
// rejections are not retried.
func Guard(ctx context.Context, cb *gobreaker.CircuitBreaker, cfg Config, fn func() error) error {
	return RetryWithBackoff(ctx, cfg, func() error {
		_, err := cb.Execute(func() (any, error) {
			return nil, fn()
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return errors.Join(ErrPermanent, err)
		}

		return err
	})
}
