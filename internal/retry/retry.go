// Package retry runs remote calls with exponential backoff and jitter.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

const (
	// DefaultAttempts is the number of tries before Do gives up.
	DefaultAttempts = 3

	defaultBaseDelay = 500 * time.Millisecond
	defaultMaxDelay  = 5 * time.Second
	jitterPercent    = 50
)

// Policy configures Do. Zero fields take the defaults.
type Policy struct {
	// Retryable decides whether an error is worth another attempt.
	// Nil retries every error.
	Retryable func(error) bool
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

func (p Policy) withDefaults() Policy {
	if p.Attempts <= 0 {
		p.Attempts = DefaultAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = defaultMaxDelay
	}
	return p
}

// backoff: base * 2^n, ±50 % jitter, capped at MaxDelay, Attempts-1 waits.
func (p Policy) backoff() goretry.Backoff {
	b := goretry.NewExponential(p.BaseDelay)
	b = goretry.WithJitterPercent(jitterPercent, b)
	b = goretry.WithCappedDuration(p.MaxDelay, b)
	return goretry.WithMaxRetries(uint64(p.Attempts-1), b) //nolint:gosec // Attempts >= 1 after withDefaults
}

func (p Policy) retryable(err error) bool {
	return p.Retryable == nil || p.Retryable(err)
}

// Do executes fn until it succeeds, fails with a non-retryable error, or
// the attempts are exhausted. Non-retryable errors are returned as is.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	policy = policy.withDefaults()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("retry cancelled: %w", err)
	}

	tries := 0
	err := goretry.Do(ctx, policy.backoff(), func(ctx context.Context) error {
		tries++
		err := fn(ctx)
		if err == nil || !policy.retryable(err) {
			return err
		}
		return goretry.RetryableError(err)
	})

	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return fmt.Errorf("retry cancelled: %w", err)
	case !policy.retryable(err):
		return err
	default:
		return fmt.Errorf("all %d attempts failed: %w", tries, err)
	}
}
