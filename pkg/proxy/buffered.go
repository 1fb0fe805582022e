package proxy

import (
	"context"
	"sync"

	"github.com/petrijr/transiro/pkg/api"
)

// DefaultCapacity is the buffer size used when NewBuffered is given a
// non-positive capacity.
const DefaultCapacity = 8

// Buffered is a fixed-capacity, non-blocking event channel.
//
// Send never blocks: when the buffer is full it fails with an
// *api.OverflowError and the event is dropped at the sender. This makes it
// suitable for call sites that cannot suspend, such as UI callbacks; the
// caller decides per send whether overflow is ignorable or fatal.
type Buffered[E any] struct {
	binding

	mu       sync.Mutex
	capacity int
	buf      []E
	finished bool
	termErr  error
	signal   chan struct{}
}

// NewBuffered creates a buffered proxy. capacity <= 0 selects
// DefaultCapacity.
func NewBuffered[E any](capacity int) *Buffered[E] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffered[E]{
		capacity: capacity,
		buf:      make([]E, 0, capacity),
		signal:   make(chan struct{}, 1),
	}
}

var _ Conn[int] = (*Buffered[int])(nil)

// Send enqueues an event without blocking.
//
// It fails with *api.OverflowError when the buffer is full, api.ErrFinished
// after Finish, and the termination error after Cancel or runtime shutdown.
func (p *Buffered[E]) Send(event E) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.termErr != nil {
		return p.termErr
	}
	if p.finished {
		return api.ErrFinished
	}
	if len(p.buf) >= p.capacity {
		return &api.OverflowError{Capacity: p.capacity}
	}

	p.buf = append(p.buf, event)
	pulse(p.signal)
	return nil
}

// Input returns the restricted send-only handle for this proxy.
func (p *Buffered[E]) Input() api.Input[E] {
	return NewInput[E](p)
}

// Finish stops accepting new events. Events already buffered are still
// delivered; once drained, the runtime completes normally.
func (p *Buffered[E]) Finish() {
	p.mu.Lock()
	p.finished = true
	p.mu.Unlock()
	pulse(p.signal)
}

// Cancel faults the proxy immediately, discarding buffered events. The
// runtime's Run fails with a *api.CancelError carrying cause (which may be
// nil).
func (p *Buffered[E]) Cancel(cause error) {
	p.Shutdown(&api.CancelError{Cause: cause})
}

// Shutdown implements Conn.
func (p *Buffered[E]) Shutdown(err error) {
	p.mu.Lock()
	if p.termErr == nil {
		p.termErr = err
	}
	p.mu.Unlock()
	pulse(p.signal)
}

// Bind implements Conn.
func (p *Buffered[E]) Bind() error { return p.bind() }

// Unbind implements Conn.
func (p *Buffered[E]) Unbind() { p.unbind() }

// Feed implements Conn. The buffered discipline never suspends, so the
// context is not consulted.
func (p *Buffered[E]) Feed(ctx context.Context, event E) error {
	return p.Send(event)
}

// Receive implements Conn.
func (p *Buffered[E]) Receive(ctx context.Context) (Envelope[E], error) {
	for {
		p.mu.Lock()
		if p.termErr != nil {
			err := p.termErr
			p.mu.Unlock()
			return Envelope[E]{}, err
		}
		if len(p.buf) > 0 {
			event := p.buf[0]
			p.buf = p.buf[1:]
			p.mu.Unlock()
			return Envelope[E]{Event: event}, nil
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

// Len reports how many events are currently buffered.
func (p *Buffered[E]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buf)
}
