package api

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy controls how an operation body is retried when it returns an
// error. MaxAttempts includes the first attempt:
//
//	MaxAttempts = 1 => no retries (just the initial call)
//	MaxAttempts = 3 => initial call + up to 2 retries
//
// InitialBackoff is the delay before the first retry; it is multiplied by
// BackoffMultiplier after every failed attempt and capped at MaxBackoff
// when MaxBackoff > 0.
type RetryPolicy struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// RetryBuilder provides a fluent way to construct RetryPolicy values for
// use with WithRetry.
type RetryBuilder struct {
	policy RetryPolicy
}

// Retry creates a RetryBuilder with the given maxAttempts.
//
// maxAttempts <= 0 is treated as 1 (no retries).
func Retry(maxAttempts int) RetryBuilder {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return RetryBuilder{
		policy: RetryPolicy{
			MaxAttempts: maxAttempts,
		},
	}
}

// WithExponentialBackoff configures exponential backoff:
//
//   - initial is the delay before the first retry.
//   - multiplier > 1 grows the delay each attempt (default 2.0 if <= 0).
//   - max caps the delay; if <= 0, there is no cap.
//
// Example:
//
//	Retry(3).WithExponentialBackoff(100*time.Millisecond, 2.0, 2*time.Second)
func (r RetryBuilder) WithExponentialBackoff(initial time.Duration, multiplier float64, max time.Duration) RetryBuilder {
	p := r.policy
	p.InitialBackoff = initial
	p.MaxBackoff = max
	if multiplier <= 0 {
		multiplier = 2.0
	}
	p.BackoffMultiplier = multiplier
	return RetryBuilder{policy: p}
}

// WithConstantBackoff configures a constant backoff between retries.
func (r RetryBuilder) WithConstantBackoff(delay time.Duration) RetryBuilder {
	p := r.policy
	p.InitialBackoff = delay
	p.MaxBackoff = 0
	p.BackoffMultiplier = 1.0
	return RetryBuilder{policy: p}
}

// Immediate disables any sleep between retries.
// Retries will still respect MaxAttempts.
func (r RetryBuilder) Immediate() RetryBuilder {
	p := r.policy
	p.InitialBackoff = 0
	p.MaxBackoff = 0
	p.BackoffMultiplier = 0
	return RetryBuilder{policy: p}
}

// Policy returns the underlying RetryPolicy.
func (r RetryBuilder) Policy() RetryPolicy {
	return r.policy
}

// WithRetry wraps an operation body so that non-cancellation failures are
// retried according to the policy before they surface. Once attempts are
// exhausted, the last error propagates and terminates the runtime as usual.
//
// Cancellation is never retried: if the task's context is done, the attempt
// loop exits immediately with the context error.
func WithRetry[Env, E any](policy RetryPolicy, fn OperationFunc[Env, E]) OperationFunc[Env, E] {
	maxAttempts := policy.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	multiplier := policy.BackoffMultiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	return func(ctx context.Context, env Env, input Input[E]) error {
		backoff := policy.InitialBackoff
		var lastErr error

		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			lastErr = fn(ctx, env, input)
			if lastErr == nil {
				return nil
			}
			if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
				return lastErr
			}
			if attempt == maxAttempts {
				break
			}

			if backoff > 0 {
				delay := backoff
				if policy.MaxBackoff > 0 && delay > policy.MaxBackoff {
					delay = policy.MaxBackoff
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(delay):
				}
				next := time.Duration(float64(backoff) * multiplier)
				if policy.MaxBackoff > 0 && next > policy.MaxBackoff {
					backoff = policy.MaxBackoff
				} else {
					backoff = next
				}
			}
		}
		return lastErr
	}
}
