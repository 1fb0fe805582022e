package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from the runtime for logging and metrics.
//
// All callbacks except OnTaskDone run on the runtime goroutine;
// implementations should be fast and non-blocking so they do not delay event
// processing. OnTaskDone may fire from the completing task's goroutine.
type Observer[E, O any] interface {
	// OnStart is called once, before the first event is dequeued.
	OnStart(ctx context.Context)

	// OnEvent is called after an event's transition completed. internal is
	// true for depth-first events synthesized by a transition, false for
	// events that arrived through the external channel.
	OnEvent(ctx context.Context, event E, internal bool, duration time.Duration)

	// OnOutput is called after an output was delivered to the sink.
	OnOutput(ctx context.Context, output O)

	// OnTaskSpawned is called when an operation or delayed-emit task is
	// registered, after any previous holder of the same id was evicted.
	OnTaskSpawned(ctx context.Context, id TaskID)

	// OnTaskDone is called when a task leaves the registry, either by
	// completing (cancelled=false) or by being cancelled or superseded.
	OnTaskDone(ctx context.Context, id TaskID, cancelled bool)

	// OnStop is called once when the runtime exits. err is nil for normal
	// terminal completion and typed for every other termination path.
	OnStop(ctx context.Context, err error)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver[E, O any] struct{}

func (NoopObserver[E, O]) OnStart(ctx context.Context)                                       {}
func (NoopObserver[E, O]) OnEvent(ctx context.Context, ev E, internal bool, d time.Duration) {}
func (NoopObserver[E, O]) OnOutput(ctx context.Context, out O)                               {}
func (NoopObserver[E, O]) OnTaskSpawned(ctx context.Context, id TaskID)                      {}
func (NoopObserver[E, O]) OnTaskDone(ctx context.Context, id TaskID, cancelled bool)         {}
func (NoopObserver[E, O]) OnStop(ctx context.Context, err error)                             {}

// CompositeObserver fans out callbacks to multiple observers.
type CompositeObserver[E, O any] struct {
	observers []Observer[E, O]
}

// NewCompositeObserver creates an Observer that forwards callbacks to each
// non-nil observer in obs.
func NewCompositeObserver[E, O any](obs ...Observer[E, O]) Observer[E, O] {
	filtered := make([]Observer[E, O], 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver[E, O]{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver[E, O]{observers: filtered}
}

func (c *CompositeObserver[E, O]) OnStart(ctx context.Context) {
	for _, o := range c.observers {
		o.OnStart(ctx)
	}
}

func (c *CompositeObserver[E, O]) OnEvent(ctx context.Context, ev E, internal bool, d time.Duration) {
	for _, o := range c.observers {
		o.OnEvent(ctx, ev, internal, d)
	}
}

func (c *CompositeObserver[E, O]) OnOutput(ctx context.Context, out O) {
	for _, o := range c.observers {
		o.OnOutput(ctx, out)
	}
}

func (c *CompositeObserver[E, O]) OnTaskSpawned(ctx context.Context, id TaskID) {
	for _, o := range c.observers {
		o.OnTaskSpawned(ctx, id)
	}
}

func (c *CompositeObserver[E, O]) OnTaskDone(ctx context.Context, id TaskID, cancelled bool) {
	for _, o := range c.observers {
		o.OnTaskDone(ctx, id, cancelled)
	}
}

func (c *CompositeObserver[E, O]) OnStop(ctx context.Context, err error) {
	for _, o := range c.observers {
		o.OnStop(ctx, err)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver[E, O any] struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs runtime lifecycle events
// using the provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingObserver[E, O any](logger *slog.Logger) Observer[E, O] {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver[E, O]{Logger: logger}
}

func (o *LoggingObserver[E, O]) OnStart(ctx context.Context) {
	o.Logger.InfoContext(ctx, "transducer_start")
}

func (o *LoggingObserver[E, O]) OnEvent(ctx context.Context, ev E, internal bool, d time.Duration) {
	o.Logger.DebugContext(ctx, "event_processed",
		slog.Any("event", ev),
		slog.Bool("internal", internal),
		slog.Duration("duration", d),
	)
}

func (o *LoggingObserver[E, O]) OnOutput(ctx context.Context, out O) {
	o.Logger.DebugContext(ctx, "output_delivered",
		slog.Any("output", out),
	)
}

func (o *LoggingObserver[E, O]) OnTaskSpawned(ctx context.Context, id TaskID) {
	o.Logger.DebugContext(ctx, "task_spawned",
		slog.String("task_id", string(id)),
	)
}

func (o *LoggingObserver[E, O]) OnTaskDone(ctx context.Context, id TaskID, cancelled bool) {
	o.Logger.DebugContext(ctx, "task_done",
		slog.String("task_id", string(id)),
		slog.Bool("cancelled", cancelled),
	)
}

func (o *LoggingObserver[E, O]) OnStop(ctx context.Context, err error) {
	if err != nil {
		o.Logger.ErrorContext(ctx, "transducer_stopped",
			slog.Any("error", err),
		)
		return
	}
	o.Logger.InfoContext(ctx, "transducer_stopped")
}

// BasicMetrics collects simple counters and aggregate transition durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics[E, O any] struct {
	NoopObserver[E, O]

	eventsExternal atomic.Int64
	eventsInternal atomic.Int64
	outputs        atomic.Int64
	tasksSpawned   atomic.Int64
	tasksCancelled atomic.Int64
	totalDuration  atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	ExternalEvents int64
	InternalEvents int64
	Outputs        int64
	TasksSpawned   int64
	TasksCancelled int64

	AvgTransition time.Duration
}

func (m *BasicMetrics[E, O]) OnEvent(ctx context.Context, ev E, internal bool, d time.Duration) {
	if internal {
		m.eventsInternal.Add(1)
	} else {
		m.eventsExternal.Add(1)
	}
	m.totalDuration.Add(d.Nanoseconds())
}

func (m *BasicMetrics[E, O]) OnOutput(ctx context.Context, out O) {
	m.outputs.Add(1)
}

func (m *BasicMetrics[E, O]) OnTaskSpawned(ctx context.Context, id TaskID) {
	m.tasksSpawned.Add(1)
}

func (m *BasicMetrics[E, O]) OnTaskDone(ctx context.Context, id TaskID, cancelled bool) {
	if cancelled {
		m.tasksCancelled.Add(1)
	}
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics[E, O]) Snapshot() BasicMetricsSnapshot {
	external := m.eventsExternal.Load()
	internal := m.eventsInternal.Load()
	totalNs := m.totalDuration.Load()

	var avg time.Duration
	if n := external + internal; n > 0 {
		avg = time.Duration(totalNs / n)
	}

	return BasicMetricsSnapshot{
		ExternalEvents: external,
		InternalEvents: internal,
		Outputs:        m.outputs.Load(),
		TasksSpawned:   m.tasksSpawned.Load(),
		TasksCancelled: m.tasksCancelled.Load(),
		AvgTransition:  avg,
	}
}
