package proxy

import (
	"context"
	"sync"

	"github.com/petrijr/transiro/pkg/api"
)

// Awaiting is the suspending event channel variant.
//
// Send suspends the producer until the runtime has fully processed the
// event's transition, which throttles fast producers to the consumer's
// processing rate. There is no overflow; a producer whose event is never
// consumed stays suspended until its context is cancelled or the proxy
// terminates.
type Awaiting[E any] struct {
	binding

	mu       sync.Mutex
	items    []*awaitingItem[E]
	finished bool
	termErr  error
	termCh   chan struct{}
	signal   chan struct{}
}

type awaitingItem[E any] struct {
	event E
	done  chan struct{}
}

// NewAwaiting creates an awaiting proxy.
func NewAwaiting[E any]() *Awaiting[E] {
	return &Awaiting[E]{
		termCh: make(chan struct{}),
		signal: make(chan struct{}, 1),
	}
}

var _ Conn[int] = (*Awaiting[int])(nil)

// Send delivers an event and suspends until its transition has been
// processed.
//
// It returns api.ErrFinished after Finish, the termination error after
// Cancel or runtime shutdown, and ctx.Err() if the caller's context ends
// first. A context abort does not retract the event: once queued, it may
// still be processed.
func (p *Awaiting[E]) Send(ctx context.Context, event E) error {
	p.mu.Lock()
	if p.termErr != nil {
		err := p.termErr
		p.mu.Unlock()
		return err
	}
	if p.finished {
		p.mu.Unlock()
		return api.ErrFinished
	}
	item := &awaitingItem[E]{event: event, done: make(chan struct{})}
	p.items = append(p.items, item)
	p.mu.Unlock()
	pulse(p.signal)

	select {
	case <-item.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.termCh:
		// The acknowledgement may have raced the shutdown; a processed
		// event counts as sent.
		select {
		case <-item.done:
			return nil
		default:
		}
		p.mu.Lock()
		err := p.termErr
		p.mu.Unlock()
		return err
	}
}

// Input returns the restricted send-only handle for this proxy.
func (p *Awaiting[E]) Input() api.Input[E] {
	return NewInput[E](p)
}

// Finish stops accepting new events. Producers already suspended stay
// suspended until their events are drained by the runtime.
func (p *Awaiting[E]) Finish() {
	p.mu.Lock()
	p.finished = true
	p.mu.Unlock()
	pulse(p.signal)
}

// Cancel faults the proxy immediately. Suspended producers resume with the
// cancellation error, queued events are discarded, and the runtime's Run
// fails with a *api.CancelError carrying cause (which may be nil).
func (p *Awaiting[E]) Cancel(cause error) {
	p.Shutdown(&api.CancelError{Cause: cause})
}

// Shutdown implements Conn.
func (p *Awaiting[E]) Shutdown(err error) {
	p.mu.Lock()
	if p.termErr == nil {
		p.termErr = err
		close(p.termCh)
	}
	p.mu.Unlock()
	pulse(p.signal)
}

// Bind implements Conn.
func (p *Awaiting[E]) Bind() error { return p.bind() }

// Unbind implements Conn.
func (p *Awaiting[E]) Unbind() { p.unbind() }

// Feed implements Conn. It has the same suspending semantics as Send, so an
// operation task feeding events is throttled exactly like an external
// producer.
func (p *Awaiting[E]) Feed(ctx context.Context, event E) error {
	return p.Send(ctx, event)
}

// Receive implements Conn.
func (p *Awaiting[E]) Receive(ctx context.Context) (Envelope[E], error) {
	for {
		p.mu.Lock()
		if p.termErr != nil {
			err := p.termErr
			p.mu.Unlock()
			return Envelope[E]{}, err
		}
		if len(p.items) > 0 {
			item := p.items[0]
			p.items = p.items[1:]
			p.mu.Unlock()
			return Envelope[E]{
				Event: item.event,
				done:  sync.OnceFunc(func() { close(item.done) }),
			}, nil
		}
		if p.finished {
			p.mu.Unlock()
			return Envelope[E]{}, api.ErrFinished
		}
		p.mu.Unlock()

		select {
		case <-p.signal:
		case <-ctx.Done():
			return Envelope[E]{}, ctx.Err()
		}
	}
}

// Pending reports how many events are queued but not yet consumed.
func (p *Awaiting[E]) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
