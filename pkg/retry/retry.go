package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned when an operation still fails after the policy's
// final attempt. It wraps the last attempt's error.
var ErrExhausted = errors.New("retry attempts exhausted")

// Strategy selects how the delay evolves between attempts
type Strategy string

const (
	// StrategyFixed sleeps the same Delay between every attempt
	StrategyFixed Strategy = "fixed"

	// StrategyExponential doubles the delay after each failed attempt,
	// capped at MaxDelay
	StrategyExponential Strategy = "exponential"
)

// Policy bounds a retry loop. Every call site supplies a finite MaxAttempts;
// there is no unbounded mode.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first
	MaxAttempts int

	// Delay is the sleep between attempts (the initial sleep for the
	// exponential strategy)
	Delay time.Duration

	// Strategy is fixed or exponential; empty defaults to fixed
	Strategy Strategy

	// MaxDelay caps the exponential strategy (default: 30s)
	MaxDelay time.Duration
}

// DefaultMaxDelay caps exponential backoff when the policy does not set one
const DefaultMaxDelay = 30 * time.Second

// Notify is called after each failed attempt with the 1-based attempt number
// and the attempt's error. It must not alter control flow.
type Notify func(attempt int, err error)

// Do runs op until it succeeds, the policy is exhausted, or ctx is
// cancelled. The sleep between attempts is interruptible via ctx so a
// termination signal does not have to ride out the backoff.
func Do(ctx context.Context, policy Policy, op func() error) error {
	return DoNotify(ctx, policy, op, nil)
}

// DoNotify is Do with a per-attempt callback for progress reporting.
func DoNotify(ctx context.Context, policy Policy, op func() error, notify Notify) error {
	if policy.MaxAttempts <= 0 {
		return fmt.Errorf("retry policy requires at least one attempt, got %d", policy.MaxAttempts)
	}

	maxDelay := policy.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}

	var err error
	delay := policy.Delay

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		if notify != nil {
			notify(attempt, err)
		}

		// No sleep after the final attempt
		if attempt == policy.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		if policy.Strategy == StrategyExponential {
			delay = delay * 2
			if delay > maxDelay {
				delay = maxDelay
			}
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, policy.MaxAttempts, err)
}
