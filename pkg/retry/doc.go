/*
Package retry provides the single bounded-retry abstraction shared by every
polling call site in stackboot.

Readiness probes and the schema-migration runner both need the same loop:
attempt, sleep, attempt again, give up after a finite budget. Rather than
duplicating ad-hoc loops at each site, this package owns the loop and the
call sites own only their Policy.

# Architecture

	┌─────────────────── RETRY LOOP ───────────────────┐
	│                                                   │
	│   attempt 1 ──fail──▶ notify ──▶ sleep(delay)    │
	│   attempt 2 ──fail──▶ notify ──▶ sleep(delay')   │
	│   ...                                             │
	│   attempt N ──fail──▶ notify ──▶ ErrExhausted    │
	│                                                   │
	│   any attempt ──ok──▶ return nil                 │
	│   ctx cancelled during sleep ──▶ return ctx err  │
	│                                                   │
	└───────────────────────────────────────────────────┘

Delay strategies:

  - StrategyFixed: constant delay between attempts (readiness probes)
  - StrategyExponential: doubling delay capped at MaxDelay (schema migration)

# Usage

	policy := retry.Policy{MaxAttempts: 5, Delay: time.Second}
	err := retry.Do(ctx, policy, func() error {
		return dialOnce(addr)
	})
	if errors.Is(err, retry.ErrExhausted) {
		// terminal timeout, never an infinite wait
	}

The Notify hook reports progress without altering control flow:

	retry.DoNotify(ctx, policy, op, func(attempt int, err error) {
		logger.Info().Int("attempt", attempt).Err(err).Msg("still waiting")
	})

# Design Patterns

Every loop is bounded: MaxAttempts is required and timeout is a representable
terminal outcome (ErrExhausted). The sleep selects on ctx.Done() so the
top-level termination signal can abort a wait mid-backoff.
*/
package retry
