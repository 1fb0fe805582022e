package engine

import (
	"context"
	"errors"
	"time"

	"github.com/petrijr/transiro/pkg/api"
)

// interpret executes one transition's effect descriptor. Events to queue
// depth-first (from immediate emits and action returns) are collected in
// order across the whole descriptor and returned as one batch; operations
// and timers are spawned as registered tasks.
//
// A non-cancellation action failure aborts the walk and terminates the
// runtime; operation failures arrive later through fail.
func (r *Runtime[S, E, O, Env]) interpret(ctx context.Context, effect api.Effect[Env, E]) ([]E, error) {
	if effect.IsNone() {
		return nil, nil
	}

	var emitted []E
	err := effect.Walk(api.EffectVisitor[Env, E]{
		Emit: func(events []E, id api.TaskID, delay time.Duration) error {
			if delay <= 0 {
				emitted = append(emitted, events...)
				return nil
			}
			r.spawnTimer(ctx, id, delay, events)
			return nil
		},
		Action: func(fn api.ActionFunc[Env, E]) error {
			events, err := fn(ctx, r.cfg.Env)
			emitted = append(emitted, events...)
			if err != nil {
				if isCancellation(err) {
					return err
				}
				return &api.EffectError{Cause: err}
			}
			return nil
		},
		Operation: func(id api.TaskID, fn api.OperationFunc[Env, E]) error {
			r.spawnOperation(ctx, id, fn)
			return nil
		},
		Cancel: func(id api.TaskID) error {
			if r.reg.Cancel(id) {
				r.observer.OnTaskDone(ctx, id, true)
			}
			return nil
		},
	})
	return emitted, err
}

// spawnOperation starts an operation body as an independent task registered
// under id (or a fresh token), superseding any current holder.
func (r *Runtime[S, E, O, Env]) spawnOperation(ctx context.Context, id api.TaskID, fn api.OperationFunc[Env, E]) {
	if id == "" {
		id = api.NewTaskID()
	}
	taskCtx, cancel := context.WithCancel(ctx)
	t := &task{id: id, cancel: cancel}
	if r.reg.Register(t) {
		r.observer.OnTaskDone(ctx, id, true)
	}
	r.observer.OnTaskSpawned(ctx, id)

	go func() {
		defer cancel()
		err := fn(taskCtx, r.cfg.Env, r.input)
		if r.reg.RemoveIf(t) {
			r.observer.OnTaskDone(taskCtx, id, false)
		}
		if err == nil || isCancellation(err) {
			return
		}
		if taskCtx.Err() != nil {
			// The task was cancelled; whatever it returned while unwinding
			// is not a runtime failure.
			return
		}
		r.fail(&api.EffectError{ID: id, Cause: err})
	}()
}

// spawnTimer schedules a delayed emission as a cancellable task. When the
// timer fires, the events go through the external channel in FIFO order,
// not depth-first.
func (r *Runtime[S, E, O, Env]) spawnTimer(ctx context.Context, id api.TaskID, delay time.Duration, events []E) {
	if id == "" {
		id = api.NewTaskID()
	}
	taskCtx, cancel := context.WithCancel(ctx)
	t := &task{id: id, cancel: cancel}
	if r.reg.Register(t) {
		r.observer.OnTaskDone(ctx, id, true)
	}
	r.observer.OnTaskSpawned(ctx, id)

	go func() {
		defer cancel()
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-taskCtx.Done():
			r.reg.RemoveIf(t)
			return
		case <-timer.C:
		}

		var sendErr error
		for _, event := range events {
			if err := r.cfg.Proxy.Feed(taskCtx, event); err != nil {
				sendErr = err
				break
			}
		}
		if r.reg.RemoveIf(t) {
			r.observer.OnTaskDone(taskCtx, id, false)
		}
		if sendErr == nil || isCancellation(sendErr) || taskCtx.Err() != nil {
			return
		}
		// A finished or cancelled channel means the runtime is already
		// winding down; only genuine faults such as overflow escalate.
		if errors.Is(sendErr, api.ErrFinished) {
			return
		}
		if _, cancelled := api.IsCancelled(sendErr); cancelled {
			return
		}
		r.fail(&api.EffectError{ID: id, Cause: sendErr})
	}()
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
