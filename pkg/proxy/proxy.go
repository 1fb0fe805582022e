package proxy

import (
	"context"
	"sync"

	"github.com/petrijr/transiro/pkg/api"
)

// Envelope pairs a received event with its processing acknowledgement.
//
// The runtime calls Done after the event's transition has been fully
// processed (update, output delivery, and effect interpretation). For the
// awaiting proxy this is what resumes the suspended producer; for the
// buffered proxy it is a no-op.
type Envelope[E any] struct {
	Event E
	done  func()
}

// Done acknowledges the event. It is idempotent.
func (e Envelope[E]) Done() {
	if e.done != nil {
		e.done()
	}
}

// Conn is the runtime-facing side of a proxy. Exactly one runtime may hold
// the connection at a time.
type Conn[E any] interface {
	// Bind claims the consuming side. It returns api.ErrAlreadyBound if a
	// runtime already holds it.
	Bind() error

	// Unbind releases the consuming side.
	Unbind()

	// Receive blocks until an event is available, the proxy terminates, or
	// ctx is done. A gracefully finished and drained proxy returns
	// api.ErrFinished; a cancelled proxy returns *api.CancelError, even
	// while events are still queued.
	Receive(ctx context.Context) (Envelope[E], error)

	// Feed delivers an event with the proxy's native send semantics. Used
	// by operation tasks and delayed emissions; external producers use the
	// proxy's public Send.
	Feed(ctx context.Context, event E) error

	// Shutdown terminates the proxy from the runtime side: subsequent and
	// suspended sends fail with err, unless the proxy already terminated.
	Shutdown(err error)
}

// inlet adapts a Conn into the restricted send-only handle passed to
// operation bodies and external producers.
type inlet[E any] struct {
	conn Conn[E]
}

// NewInput wraps the proxy's send side in an api.Input handle.
func NewInput[E any](conn Conn[E]) api.Input[E] {
	return inlet[E]{conn: conn}
}

func (i inlet[E]) Send(ctx context.Context, event E) error {
	return i.conn.Feed(ctx, event)
}

// binding implements the single-consumer claim shared by both proxy
// variants.
type binding struct {
	mu    sync.Mutex
	bound bool
}

func (b *binding) bind() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bound {
		return api.ErrAlreadyBound
	}
	b.bound = true
	return nil
}

func (b *binding) unbind() {
	b.mu.Lock()
	b.bound = false
	b.mu.Unlock()
}

// pulse signals availability without blocking; a buffer of one coalesces
// repeated signals.
func pulse(signal chan struct{}) {
	select {
	case signal <- struct{}{}:
	default:
	}
}
