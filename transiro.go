package transiro

import (
	"context"
	"log/slog"
	"time"

	"github.com/petrijr/transiro/internal/engine"
	"github.com/petrijr/transiro/pkg/api"
	"github.com/petrijr/transiro/pkg/proxy"
)

// Re-export key types so users don't need to dig into pkg/api and pkg/proxy.

type (
	TaskID                        = api.TaskID
	Effect[Env, E any]            = api.Effect[Env, E]
	EffectVisitor[Env, E any]     = api.EffectVisitor[Env, E]
	ActionFunc[Env, E any]        = api.ActionFunc[Env, E]
	OperationFunc[Env, E any]     = api.OperationFunc[Env, E]
	Update[S, E, O, Env any]      = api.Update[S, E, O, Env]
	Sink[O any]                   = api.Sink[O]
	Input[E any]                  = api.Input[E]
	Observer[E, O any]            = api.Observer[E, O]
	NoopObserver[E, O any]        = api.NoopObserver[E, O]
	BasicMetrics[E, O any]        = api.BasicMetrics[E, O]
	BasicMetricsSnapshot          = api.BasicMetricsSnapshot
	RetryPolicy                   = api.RetryPolicy
	RetryBuilder                  = api.RetryBuilder
	OverflowError                 = api.OverflowError
	CancelError                   = api.CancelError
	EffectError                   = api.EffectError
	Buffered[E any]               = proxy.Buffered[E]
	Awaiting[E any]               = proxy.Awaiting[E]
	Conn[E any]                   = proxy.Conn[E]
	Config[S, E, O, Env any]      = engine.Config[S, E, O, Env]
	Runtime[S, E, O, Env any]     = engine.Runtime[S, E, O, Env]
)

// Re-export sentinel errors and common helpers.

var (
	ErrFinished     = api.ErrFinished
	ErrAlreadyBound = api.ErrAlreadyBound

	IsOverflow      = api.IsOverflow
	IsCancelled     = api.IsCancelled
	IsEffectFailure = api.IsEffectFailure
)

// NewTaskID returns a fresh, unique task identifier.
func NewTaskID() TaskID { return api.NewTaskID() }

// Effect constructors. See pkg/api for the full semantics of each kind.

// None returns the empty effect.
func None[Env, E any]() Effect[Env, E] { return api.None[Env, E]() }

// Emit queues events depth-first, ahead of all waiting external events.
func Emit[Env, E any](events ...E) Effect[Env, E] { return api.Emit[Env, E](events...) }

// EmitAfter schedules a cancellable delayed emission through the channel.
func EmitAfter[Env, E any](id TaskID, delay time.Duration, events ...E) Effect[Env, E] {
	return api.EmitAfter[Env, E](id, delay, events...)
}

// Do runs an action inline, atomically with respect to the event stream.
func Do[Env, E any](fn ActionFunc[Env, E]) Effect[Env, E] { return api.Do(fn) }

// Spawn starts a concurrent operation task under a fresh identifier.
func Spawn[Env, E any](fn OperationFunc[Env, E]) Effect[Env, E] { return api.Spawn(fn) }

// SpawnNamed starts a concurrent operation task under id, superseding any
// task already registered there.
func SpawnNamed[Env, E any](id TaskID, fn OperationFunc[Env, E]) Effect[Env, E] {
	return api.SpawnNamed(id, fn)
}

// Batch combines effects; each is interpreted fully, left to right.
func Batch[Env, E any](effects ...Effect[Env, E]) Effect[Env, E] { return api.Batch(effects...) }

// Cancel cancels the task registered under id, if any.
func Cancel[Env, E any](id TaskID) Effect[Env, E] { return api.Cancel[Env, E](id) }

// Proxy constructors.

// NewBuffered creates the fixed-capacity, non-blocking channel variant.
// capacity <= 0 selects the default capacity of 8.
func NewBuffered[E any](capacity int) *Buffered[E] { return proxy.NewBuffered[E](capacity) }

// NewAwaiting creates the suspending, backpressured channel variant.
func NewAwaiting[E any]() *Awaiting[E] { return proxy.NewAwaiting[E]() }

// Runtime constructors.

// New validates cfg and constructs a single-use Runtime.
func New[S, E, O, Env any](cfg Config[S, E, O, Env]) (*Runtime[S, E, O, Env], error) {
	return engine.New(cfg)
}

// Run constructs a Runtime from cfg and drives it to completion. It returns
// the final output on normal terminal completion, and a typed error for
// every other termination path.
func Run[S, E, O, Env any](ctx context.Context, cfg Config[S, E, O, Env]) (O, error) {
	rt, err := engine.New(cfg)
	if err != nil {
		var zero O
		return zero, err
	}
	return rt.Run(ctx)
}

// Observer helpers.

// NewLoggingObserver creates an Observer that writes structured slog logs.
func NewLoggingObserver[E, O any](logger *slog.Logger) Observer[E, O] {
	return api.NewLoggingObserver[E, O](logger)
}

// NewCompositeObserver fans callbacks out to each non-nil observer.
func NewCompositeObserver[E, O any](obs ...Observer[E, O]) Observer[E, O] {
	return api.NewCompositeObserver(obs...)
}

// Retry helpers for operation bodies.

var Retry = api.Retry

// WithRetry wraps an operation body with the given retry policy.
func WithRetry[Env, E any](policy RetryPolicy, fn OperationFunc[Env, E]) OperationFunc[Env, E] {
	return api.WithRetry(policy, fn)
}
