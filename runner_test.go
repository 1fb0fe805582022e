package transiro

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newCounterRuntime(t *testing.T, p *Buffered[string]) *Runtime[counterState, string, int, counterEnv] {
	t.Helper()
	rt, err := NewProgram(counterState{}, countingUpdate).
		Terminal(func(s counterState) bool { return s.done }).
		Build(p)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return rt
}

func TestRunner_StartAndWait(t *testing.T) {
	p := NewBuffered[string](8)
	runner := NewRunner(newCounterRuntime(t, p))

	if err := runner.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer runner.Stop()

	for _, ev := range []string{"inc", "inc", "stop"} {
		if err := p.Send(ev); err != nil {
			t.Fatalf("Send(%s): %v", ev, err)
		}
	}

	out, err := runner.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if out != 2 {
		t.Fatalf("expected final output 2, got %d", out)
	}

	select {
	case <-runner.Done():
	default:
		t.Fatal("expected Done to be closed after Wait returned")
	}
}

func TestRunner_StopCancelsRun(t *testing.T) {
	p := NewBuffered[string](8)
	runner := NewRunner(newCounterRuntime(t, p))

	if err := runner.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	runner.Stop()
	// Stop is idempotent.
	runner.Stop()

	_, err := runner.Wait(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled after Stop, got %v", err)
	}
}

func TestRunner_DoubleStartFails(t *testing.T) {
	p := NewBuffered[string](8)
	runner := NewRunner(newCounterRuntime(t, p))

	if err := runner.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer runner.Stop()

	if err := runner.Start(context.Background()); err == nil {
		t.Fatal("expected second Start to fail")
	}
}

func TestRunner_WaitBeforeStartFails(t *testing.T) {
	p := NewBuffered[string](8)
	runner := NewRunner(newCounterRuntime(t, p))

	if _, err := runner.Wait(context.Background()); err == nil {
		t.Fatal("expected Wait before Start to fail")
	}
	if runner.Done() != nil {
		t.Fatal("expected nil Done channel before Start")
	}
}

func TestRunner_WaitHonoursContext(t *testing.T) {
	p := NewBuffered[string](8)
	runner := NewRunner(newCounterRuntime(t, p))

	if err := runner.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer runner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// The machine never reaches "stop"; Wait must give up with the
	// caller's context error.
	if _, err := runner.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}
