// Package transiro provides a deterministic finite-state-transducer runtime
// for Go: a pure transition function drives the state machine, while all
// side work is described as inert effect values and executed by a scheduler
// that owns cancellation, ordering, and task lifecycle.
//
// Transiro is designed for event-driven components that want testable,
// race-free state logic: the transition function never performs I/O, the
// runtime goroutine is the only one touching state, and every concurrent
// task is addressable and cancellable. It runs fully in-process with no
// operational overhead.
//
// # Core Concepts
//
// The programming model is intentionally small:
//
//  1. Update
//  2. Effect
//  3. Proxy
//  4. Runtime
//  5. Runner
//
// # Update
//
// Update is the pure transition function:
//
//	func(state *State, event Event) (transiro.Effect[Env, Event], *Output)
//
// It mutates the state in place and returns an effect descriptor plus an
// optional output. The runtime calls it exactly once per dequeued event,
// always from the same goroutine, so transitions are linearizable without
// locks. Because effects are returned as data rather than executed, the
// whole transition table can be tested without concurrency.
//
// # Effect
//
// Effects describe side work:
//
//   - Emit queues follow-up events depth-first, ahead of all waiting
//     external events, so synthesized chains resolve atomically.
//   - EmitAfter schedules a cancellable delayed emission.
//   - Do runs a closure inline; no external event interleaves with it.
//   - Spawn and SpawnNamed start concurrent operation tasks that report
//     back exclusively by sending events. At most one task lives under a
//     given identifier; respawning supersedes, Cancel aborts.
//   - Batch composes effects left to right.
//
// # Proxy
//
// Proxies are the event channels feeding a runtime. NewBuffered gives a
// fixed-capacity, non-blocking Send that fails loudly on overflow;
// NewAwaiting gives a suspending Send with natural backpressure. Both
// support graceful Finish, forceful Cancel, and a send-only Input handle
// safe to share with producers.
//
// # Runtime
//
// The Runtime pulls events (internal first, then external), invokes Update,
// delivers outputs to the Sink in order, and interprets effects. Run exits
// with distinct, typed outcomes: normal terminal completion, context
// cancellation, proxy cancellation, or effect failure. Every exit path
// cancels all registered tasks.
//
// # Runner
//
// Runner scopes a runtime's lifetime explicitly with Start, Wait, and Stop,
// for callers that want the loop on a background goroutine.
//
// Observers (logging via log/slog, metrics, composition) and a transition
// journal with in-memory and SQLite stores round out the runtime; see
// NewLoggingObserver, BasicMetrics, and NewSQLiteJournal.
//
// For examples, see the /examples directory or the project README.
package transiro
