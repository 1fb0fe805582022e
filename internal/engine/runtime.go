package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/petrijr/transiro/pkg/api"
	"github.com/petrijr/transiro/pkg/proxy"
)

// Config describes how to construct a Runtime.
type Config[S, E, O, Env any] struct {
	// Initial is the state the machine starts from.
	Initial S

	// Update is the pure transition function. Required.
	Update api.Update[S, E, O, Env]

	// Proxy is the event channel the runtime consumes. Required.
	Proxy proxy.Conn[E]

	// Env is passed unchanged into every effect invocation. The runtime
	// treats it as an opaque capability bag.
	Env Env

	// Sink receives outputs synchronously, in processing order. Optional.
	Sink api.Sink[O]

	// Observer receives lifecycle callbacks. Defaults to NoopObserver.
	Observer api.Observer[E, O]

	// Terminal reports whether a state is terminal. When nil, the runtime
	// falls back to the state implementing api.Terminal; otherwise no state
	// is terminal and the runtime runs until cancelled or the channel ends.
	Terminal func(S) bool

	// InitialOutput, when non-nil, is delivered to the sink once before the
	// first event is dequeued (Moore-style initial output).
	InitialOutput *O
}

// Runtime is the scheduler loop driving one transducer.
//
// A single goroutine (the one calling Run) owns the state, the internal
// queue, and all Update invocations; operation tasks interact with it only
// through the proxy and the task registry.
type Runtime[S, E, O, Env any] struct {
	cfg      Config[S, E, O, Env]
	observer api.Observer[E, O]

	state S
	queue eventQueue[E]
	reg   *taskRegistry
	input api.Input[E]

	lastOut O

	failMu     sync.Mutex
	failErr    error
	loopCancel context.CancelFunc
}

// New validates cfg and constructs a Runtime. The runtime is single-use:
// call Run exactly once.
func New[S, E, O, Env any](cfg Config[S, E, O, Env]) (*Runtime[S, E, O, Env], error) {
	if cfg.Update == nil {
		return nil, errors.New("transiro: Config.Update is required")
	}
	if cfg.Proxy == nil {
		return nil, errors.New("transiro: Config.Proxy is required")
	}
	obs := cfg.Observer
	if obs == nil {
		obs = api.NoopObserver[E, O]{}
	}
	return &Runtime[S, E, O, Env]{
		cfg:      cfg,
		observer: obs,
		state:    cfg.Initial,
		reg:      newTaskRegistry(),
		input:    proxy.NewInput(cfg.Proxy),
	}, nil
}

// Run executes the transducer until a terminal state, a drained channel, a
// cancellation, or a failure.
//
// Outcomes are distinct and typed:
//   - terminal state or gracefully finished channel: (last output, nil)
//   - owning context cancelled: ctx.Err()
//   - proxy cancelled: *api.CancelError
//   - effect body failed: *api.EffectError
//
// Every exit path cancels all registered tasks before returning.
func (r *Runtime[S, E, O, Env]) Run(ctx context.Context) (O, error) {
	if err := r.cfg.Proxy.Bind(); err != nil {
		var zero O
		return zero, err
	}
	defer r.cfg.Proxy.Unbind()

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.failMu.Lock()
	r.loopCancel = cancel
	r.failMu.Unlock()

	r.observer.OnStart(loopCtx)

	if r.cfg.InitialOutput != nil {
		r.deliver(loopCtx, *r.cfg.InitialOutput)
	}
	if r.terminal() {
		return r.finish(ctx, nil)
	}

	for {
		if err := r.failure(); err != nil {
			return r.finish(ctx, err)
		}

		// Depth-first internal events win over anything in the channel.
		if event, ok := r.queue.Pop(); ok {
			if err := r.step(loopCtx, event, true); err != nil {
				return r.finish(ctx, err)
			}
		} else {
			envl, err := r.cfg.Proxy.Receive(loopCtx)
			if err != nil {
				return r.finish(ctx, err)
			}
			stepErr := r.step(loopCtx, envl.Event, false)
			envl.Done()
			if stepErr != nil {
				return r.finish(ctx, stepErr)
			}
		}

		if r.terminal() {
			return r.finish(ctx, nil)
		}
	}
}

// step processes one event: transition, output delivery, then effect
// interpretation. Events emitted during the step are prepended to the
// internal queue as one block.
func (r *Runtime[S, E, O, Env]) step(ctx context.Context, event E, internal bool) error {
	start := time.Now()

	effect, out := r.cfg.Update(&r.state, event)
	if out != nil {
		r.deliver(ctx, *out)
	}

	emitted, err := r.interpret(ctx, effect)
	r.queue.PushFront(emitted)

	r.observer.OnEvent(ctx, event, internal, time.Since(start))
	return err
}

func (r *Runtime[S, E, O, Env]) deliver(ctx context.Context, out O) {
	if r.cfg.Sink != nil {
		r.cfg.Sink(out)
	}
	r.lastOut = out
	r.observer.OnOutput(ctx, out)
}

func (r *Runtime[S, E, O, Env]) terminal() bool {
	if r.cfg.Terminal != nil {
		return r.cfg.Terminal(r.state)
	}
	if t, ok := any(r.state).(api.Terminal); ok {
		return t.Terminal()
	}
	return false
}

// fail records the first asynchronous effect failure and interrupts the
// loop. Safe to call from any task goroutine.
func (r *Runtime[S, E, O, Env]) fail(err error) {
	r.failMu.Lock()
	if r.failErr == nil {
		r.failErr = err
		if r.loopCancel != nil {
			r.loopCancel()
		}
	}
	r.failMu.Unlock()
}

func (r *Runtime[S, E, O, Env]) failure() error {
	r.failMu.Lock()
	defer r.failMu.Unlock()
	return r.failErr
}

// finish maps the loop's exit cause to the typed Run outcome and performs
// full cleanup: every registered task is cancelled and the proxy is shut
// down so suspended producers do not hang on a dead runtime.
func (r *Runtime[S, E, O, Env]) finish(ctx context.Context, cause error) (O, error) {
	for _, id := range r.reg.CancelAll() {
		r.observer.OnTaskDone(ctx, id, true)
	}

	// An asynchronous effect failure outranks the secondary receive error
	// its interruption produced.
	if failErr := r.failure(); failErr != nil {
		cause = failErr
	}
	if errors.Is(cause, api.ErrFinished) {
		cause = nil
	}

	if cause == nil {
		r.cfg.Proxy.Shutdown(api.ErrFinished)
		r.observer.OnStop(ctx, nil)
		return r.lastOut, nil
	}

	r.cfg.Proxy.Shutdown(cause)
	r.observer.OnStop(ctx, cause)
	var zero O
	return zero, cause
}
