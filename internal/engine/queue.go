package engine

// eventQueue holds the internal, depth-first work queue of a runtime.
//
// Events synthesized by a transition are prepended as one block, so a chain
// started by one event fully resolves before anything queued earlier, and
// long before the next external event. Only the runtime goroutine touches
// the queue; no locking.
type eventQueue[E any] struct {
	events []E
}

// PushFront inserts the batch ahead of everything queued, preserving the
// batch's own order.
func (q *eventQueue[E]) PushFront(events []E) {
	if len(events) == 0 {
		return
	}
	if len(q.events) == 0 {
		q.events = append(q.events, events...)
		return
	}
	merged := make([]E, 0, len(events)+len(q.events))
	merged = append(merged, events...)
	merged = append(merged, q.events...)
	q.events = merged
}

// Pop removes and returns the front event.
func (q *eventQueue[E]) Pop() (E, bool) {
	if len(q.events) == 0 {
		var zero E
		return zero, false
	}
	event := q.events[0]
	q.events = q.events[1:]
	return event, true
}

// Len reports how many internal events are queued.
func (q *eventQueue[E]) Len() int {
	return len(q.events)
}
