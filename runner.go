package transiro

import (
	"context"
	"errors"
	"sync"
)

// Runner owns the goroutine running a Runtime and scopes its lifetime
// explicitly: whoever holds the Runner is responsible for calling Stop,
// after which no task of the transducer is left running.
//
// Typical usage:
//
//	rt, _ := transiro.New(cfg)
//	runner := transiro.NewRunner(rt)
//	_ = runner.Start(ctx)
//	defer runner.Stop()
//
//	// feed events through the proxy...
//	out, err := runner.Wait(ctx)
type Runner[S, E, O, Env any] struct {
	runtime *Runtime[S, E, O, Env]

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool

	out O
	err error
}

// NewRunner wraps rt. The runtime must not be run by anyone else.
func NewRunner[S, E, O, Env any](rt *Runtime[S, E, O, Env]) *Runner[S, E, O, Env] {
	return &Runner[S, E, O, Env]{runtime: rt}
}

// Start launches the runtime on its own goroutine. Calling Start twice
// without an intervening Stop is an error.
func (r *Runner[S, E, O, Env]) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return errors.New("transiro: Runner already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true

	done := r.done
	go func() {
		defer close(done)
		out, err := r.runtime.Run(ctx)

		r.mu.Lock()
		r.out = out
		r.err = err
		r.mu.Unlock()
	}()

	return nil
}

// Done returns a channel closed when the runtime has exited. Nil before
// Start.
func (r *Runner[S, E, O, Env]) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Wait blocks until the runtime exits or ctx is done, then returns the
// runtime's outcome.
func (r *Runner[S, E, O, Env]) Wait(ctx context.Context) (O, error) {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done == nil {
		var zero O
		return zero, errors.New("transiro: Runner not started")
	}

	select {
	case <-done:
	case <-ctx.Done():
		var zero O
		return zero, ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.out, r.err
}

// Stop cancels the runtime and waits for it to exit. Safe to call more
// than once.
func (r *Runner[S, E, O, Env]) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	done := r.done
	r.running = false
	r.mu.Unlock()

	cancel()
	<-done
}
