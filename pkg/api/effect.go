package api

import (
	"context"
	"time"
)

// effectKind discriminates the Effect union.
type effectKind int

const (
	effectNone effectKind = iota
	effectEmit
	effectAction
	effectOperation
	effectCombine
	effectCancel
)

// ActionFunc is the body of an action effect. It runs inline on the runtime
// goroutine; the runtime does not consume another external event until the
// body returns. The returned events are queued depth-first, ahead of any
// external event already waiting in the channel.
type ActionFunc[Env, E any] func(ctx context.Context, env Env) ([]E, error)

// OperationFunc is the body of an operation effect. It runs on its own
// goroutine, concurrently with the runtime, and reports back exclusively by
// sending events through the Input handle. Returning a non-nil error that is
// not a cancellation terminates the whole runtime with an EffectError;
// recoverable failures should be converted into events instead.
type OperationFunc[Env, E any] func(ctx context.Context, env Env, input Input[E]) error

// Effect describes a unit of side work produced by a transition.
//
// Effects are inert values: constructing one performs nothing. The runtime
// interprets the descriptor immediately after the transition that produced
// it. The zero Effect is "no effect".
type Effect[Env, E any] struct {
	kind      effectKind
	events    []E
	id        TaskID
	hasID     bool
	delay     time.Duration
	action    ActionFunc[Env, E]
	operation OperationFunc[Env, E]
	children  []Effect[Env, E]
}

// None returns the empty effect. Equivalent to the zero value; provided for
// readable transition tables.
func None[Env, E any]() Effect[Env, E] {
	return Effect[Env, E]{}
}

// Emit queues the given events, in order, ahead of all external events
// already waiting. The whole batch is processed depth-first before the next
// external event is considered.
func Emit[Env, E any](events ...E) Effect[Env, E] {
	return Effect[Env, E]{kind: effectEmit, events: events}
}

// EmitAfter schedules the events to be sent through the external channel
// after the given delay. The timer runs as a cancellable task registered
// under id; emitting a new EmitAfter with the same id supersedes the pending
// one, and Cancel(id) aborts it. Unlike Emit, the delayed events arrive in
// normal FIFO order with other external events.
func EmitAfter[Env, E any](id TaskID, delay time.Duration, events ...E) Effect[Env, E] {
	return Effect[Env, E]{kind: effectEmit, events: events, id: id, hasID: true, delay: delay}
}

// Do runs fn inline on the runtime goroutine. The events it returns are
// queued exactly like Emit. No other external event is dequeued while fn is
// outstanding, which is what makes action chains atomic with respect to the
// event stream.
func Do[Env, E any](fn ActionFunc[Env, E]) Effect[Env, E] {
	return Effect[Env, E]{kind: effectAction, action: fn}
}

// Spawn starts fn as an independent task registered under a fresh TaskID.
// Use SpawnNamed when the task must be addressable for cancellation or
// supersession.
func Spawn[Env, E any](fn OperationFunc[Env, E]) Effect[Env, E] {
	return Effect[Env, E]{kind: effectOperation, operation: fn}
}

// SpawnNamed starts fn as an independent task registered under id. If a task
// is already registered under id it is cancelled and evicted first, so at
// most one task per identifier is ever alive.
func SpawnNamed[Env, E any](id TaskID, fn OperationFunc[Env, E]) Effect[Env, E] {
	return Effect[Env, E]{kind: effectOperation, operation: fn, id: id, hasID: true}
}

// Batch combines several effects into one. The runtime interprets each
// element fully, left to right.
func Batch[Env, E any](effects ...Effect[Env, E]) Effect[Env, E] {
	switch len(effects) {
	case 0:
		return Effect[Env, E]{}
	case 1:
		return effects[0]
	}
	return Effect[Env, E]{kind: effectCombine, children: effects}
}

// Cancel cancels the task registered under id, if any. Unknown identifiers
// are a no-op.
func Cancel[Env, E any](id TaskID) Effect[Env, E] {
	return Effect[Env, E]{kind: effectCancel, id: id, hasID: true}
}

// IsNone reports whether the effect describes no work.
func (e Effect[Env, E]) IsNone() bool {
	return e.kind == effectNone
}

// Walk drives an interpreter over the descriptor. The runtime's interpreter
// is built on it; tests use it to assert descriptor structure.
//
// Exactly one visitor callback fires per leaf effect. Combine recurses into
// its children in order, each fully before the next. The first callback
// error stops the walk and is returned.
func (e Effect[Env, E]) Walk(v EffectVisitor[Env, E]) error {
	switch e.kind {
	case effectNone:
	case effectEmit:
		if v.Emit != nil {
			id := e.id
			if !e.hasID {
				id = ""
			}
			return v.Emit(e.events, id, e.delay)
		}
	case effectAction:
		if v.Action != nil {
			return v.Action(e.action)
		}
	case effectOperation:
		if v.Operation != nil {
			id := e.id
			if !e.hasID {
				id = ""
			}
			return v.Operation(id, e.operation)
		}
	case effectCombine:
		for _, child := range e.children {
			if err := child.Walk(v); err != nil {
				return err
			}
		}
	case effectCancel:
		if v.Cancel != nil {
			return v.Cancel(e.id)
		}
	}
	return nil
}

// EffectVisitor receives the leaves of an effect descriptor during Walk.
// Nil callbacks are skipped. An empty id means the effect carried no
// identifier and a fresh one should be generated where needed.
type EffectVisitor[Env, E any] struct {
	Emit      func(events []E, id TaskID, delay time.Duration) error
	Action    func(fn ActionFunc[Env, E]) error
	Operation func(id TaskID, fn OperationFunc[Env, E]) error
	Cancel    func(id TaskID) error
}
