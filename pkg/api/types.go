package api

import (
	"context"

	"github.com/google/uuid"
)

// TaskID identifies a running effect task in the registry.
//
// Applications usually pick stable, meaningful identifiers ("ticker",
// "search-request") so that a later Spawn or Cancel can address the task.
// Anonymous tasks get a fresh token from NewTaskID.
type TaskID string

// NewTaskID returns a fresh, unique task identifier.
func NewTaskID() TaskID {
	return TaskID(uuid.NewString())
}

// Update is the pure transition function of a transducer.
//
// It mutates the state in place, and returns the effect to interpret next
// plus an optional output (nil means no output for this event).
//
// Update must not perform I/O, block, or spawn goroutines. All side work is
// described through the returned Effect and executed by the runtime. The
// zero Effect and a nil output are the documented default for (state, event)
// combinations the application considers unreachable; the runtime never
// panics on an unhandled event.
type Update[S, E, O, Env any] func(state *S, event E) (Effect[Env, E], *O)

// Sink consumes outputs produced by the transition function. It is invoked
// synchronously on the runtime goroutine, once per output, in processing
// order. A slow sink deliberately slows the runtime down; that is the
// backpressure the awaiting proxy variant relies on.
type Sink[O any] func(O)

// Terminal is implemented by state types that can report their own terminal
// configuration. The runtime stops processing events once the state reports
// terminal; engine.Config.Terminal takes precedence when set.
type Terminal interface {
	Terminal() bool
}

// Input is the restricted, send-only handle into an event channel.
//
// Operation effects and external producers receive an Input rather than the
// full proxy, so they can feed events but never finish, cancel, or consume
// the channel.
type Input[E any] interface {
	// Send delivers an event to the channel. For the buffered proxy the
	// context is only consulted on suspension-free paths; for the awaiting
	// proxy Send suspends until the runtime has processed the event's
	// transition.
	Send(ctx context.Context, event E) error
}
