package api

import (
	"context"
	"errors"
	"testing"
	"time"
)

// Ensure non-positive maxAttempts is normalized to 1.
func TestRetry_NonPositiveMaxAttemptsDefaultsToOne(t *testing.T) {
	p := Retry(0).Policy()
	if p.MaxAttempts != 1 {
		t.Fatalf("expected MaxAttempts=1 for Retry(0), got %d", p.MaxAttempts)
	}

	p = Retry(-5).Policy()
	if p.MaxAttempts != 1 {
		t.Fatalf("expected MaxAttempts=1 for Retry(-5), got %d", p.MaxAttempts)
	}
}

// Ensure WithExponentialBackoff wires fields correctly and default multiplier is applied.
func TestRetry_WithExponentialBackoff_UsesDefaults(t *testing.T) {
	initial := 100 * time.Millisecond
	max := 2 * time.Second

	// multiplier <= 0 should default to 2.0
	p := Retry(3).
		WithExponentialBackoff(initial, 0, max).
		Policy()

	if p.MaxAttempts != 3 {
		t.Fatalf("expected MaxAttempts=3, got %d", p.MaxAttempts)
	}
	if p.InitialBackoff != initial {
		t.Fatalf("expected InitialBackoff=%v, got %v", initial, p.InitialBackoff)
	}
	if p.MaxBackoff != max {
		t.Fatalf("expected MaxBackoff=%v, got %v", max, p.MaxBackoff)
	}
	if p.BackoffMultiplier != 2.0 {
		t.Fatalf("expected BackoffMultiplier=2.0 (default), got %v", p.BackoffMultiplier)
	}
}

// Ensure WithConstantBackoff sets a fixed delay and uses multiplier 1.0.
func TestRetry_WithConstantBackoff(t *testing.T) {
	delay := 250 * time.Millisecond

	p := Retry(5).
		WithConstantBackoff(delay).
		Policy()

	if p.MaxAttempts != 5 {
		t.Fatalf("expected MaxAttempts=5, got %d", p.MaxAttempts)
	}
	if p.InitialBackoff != delay {
		t.Fatalf("expected InitialBackoff=%v, got %v", delay, p.InitialBackoff)
	}
	if p.MaxBackoff != 0 {
		t.Fatalf("expected MaxBackoff=0 for constant backoff, got %v", p.MaxBackoff)
	}
	if p.BackoffMultiplier != 1.0 {
		t.Fatalf("expected BackoffMultiplier=1.0, got %v", p.BackoffMultiplier)
	}
}

// Ensure Immediate clears all backoff-related timing without changing MaxAttempts.
func TestRetry_ImmediateClearsBackoff(t *testing.T) {
	p := Retry(7).
		WithExponentialBackoff(100*time.Millisecond, 2.0, 5*time.Second).
		Immediate().
		Policy()

	if p.MaxAttempts != 7 {
		t.Fatalf("expected MaxAttempts=7, got %d", p.MaxAttempts)
	}
	if p.InitialBackoff != 0 {
		t.Fatalf("expected InitialBackoff=0 after Immediate, got %v", p.InitialBackoff)
	}
	if p.MaxBackoff != 0 {
		t.Fatalf("expected MaxBackoff=0 after Immediate, got %v", p.MaxBackoff)
	}
	if p.BackoffMultiplier != 0 {
		t.Fatalf("expected BackoffMultiplier=0 after Immediate, got %v", p.BackoffMultiplier)
	}
}

func TestWithRetry_RetriesUntilSuccess(t *testing.T) {
	attempts := 0
	fn := WithRetry(Retry(3).Immediate().Policy(),
		func(ctx context.Context, env struct{}, input Input[string]) error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		})

	if err := fn(context.Background(), struct{}{}, nil); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetry_ExhaustionReturnsLastError(t *testing.T) {
	last := errors.New("still failing")
	attempts := 0
	fn := WithRetry(Retry(3).Immediate().Policy(),
		func(ctx context.Context, env struct{}, input Input[string]) error {
			attempts++
			return last
		})

	if err := fn(context.Background(), struct{}{}, nil); !errors.Is(err, last) {
		t.Fatalf("expected the last error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

// Cancellation is never retried, whether surfaced by the body or by the
// context itself.
func TestWithRetry_NeverRetriesCancellation(t *testing.T) {
	attempts := 0
	fn := WithRetry(Retry(5).Immediate().Policy(),
		func(ctx context.Context, env struct{}, input Input[string]) error {
			attempts++
			return context.Canceled
		})

	if err := fn(context.Background(), struct{}{}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	attempts = 0
	fn = WithRetry(Retry(5).Immediate().Policy(),
		func(ctx context.Context, env struct{}, input Input[string]) error {
			attempts++
			return nil
		})
	if err := fn(ctx, struct{}{}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled from a dead context, got %v", err)
	}
	if attempts != 0 {
		t.Fatalf("expected no attempts against a dead context, got %d", attempts)
	}
}

func TestWithRetry_BackoffInterruptedByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	fn := WithRetry(Retry(3).WithConstantBackoff(time.Hour).Policy(),
		func(ctx context.Context, env struct{}, input Input[string]) error {
			attempts++
			cancel()
			return errors.New("transient")
		})

	done := make(chan error, 1)
	go func() { done <- fn(ctx, struct{}{}, nil) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled during backoff, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("retry slept through its context cancellation")
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}
