package transiro

import (
	"context"

	"github.com/petrijr/transiro/internal/engine"
	"github.com/petrijr/transiro/pkg/proxy"
)

// ProgramBuilder provides a fluent API for assembling a runtime Config:
//
//	rt, err := transiro.NewProgram(Idle{}, update).
//	    Env(services).
//	    Sink(func(out Output) { render(out) }).
//	    Terminal(func(s State) bool { return s.Done }).
//	    Build(transiro.NewBuffered[Event](0))
//
//	final, err := rt.Run(ctx)
type ProgramBuilder[S, E, O, Env any] struct {
	cfg engine.Config[S, E, O, Env]
}

// NewProgram creates a builder around the initial state and transition
// function. A nil update is a programmer error and panics immediately
// rather than surfacing later at Build time.
func NewProgram[S, E, O, Env any](initial S, update Update[S, E, O, Env]) *ProgramBuilder[S, E, O, Env] {
	if update == nil {
		panic("transiro: NewProgram requires a transition function")
	}
	return &ProgramBuilder[S, E, O, Env]{
		cfg: engine.Config[S, E, O, Env]{
			Initial: initial,
			Update:  update,
		},
	}
}

// Env sets the environment passed into every effect invocation.
func (b *ProgramBuilder[S, E, O, Env]) Env(env Env) *ProgramBuilder[S, E, O, Env] {
	b.cfg.Env = env
	return b
}

// Sink sets the output consumer.
func (b *ProgramBuilder[S, E, O, Env]) Sink(sink Sink[O]) *ProgramBuilder[S, E, O, Env] {
	b.cfg.Sink = sink
	return b
}

// Observer sets the lifecycle observer.
func (b *ProgramBuilder[S, E, O, Env]) Observer(obs Observer[E, O]) *ProgramBuilder[S, E, O, Env] {
	b.cfg.Observer = obs
	return b
}

// Terminal sets the terminal-state predicate.
func (b *ProgramBuilder[S, E, O, Env]) Terminal(pred func(S) bool) *ProgramBuilder[S, E, O, Env] {
	b.cfg.Terminal = pred
	return b
}

// InitialOutput sets the Moore-style output delivered before the first
// event is dequeued.
func (b *ProgramBuilder[S, E, O, Env]) InitialOutput(out O) *ProgramBuilder[S, E, O, Env] {
	b.cfg.InitialOutput = &out
	return b
}

// Config returns the assembled configuration without the proxy bound.
// Typically used when interacting with lower-level APIs.
func (b *ProgramBuilder[S, E, O, Env]) Config(p proxy.Conn[E]) Config[S, E, O, Env] {
	cfg := b.cfg
	cfg.Proxy = p
	return cfg
}

// Build attaches the proxy and constructs the Runtime.
func (b *ProgramBuilder[S, E, O, Env]) Build(p proxy.Conn[E]) (*Runtime[S, E, O, Env], error) {
	return engine.New(b.Config(p))
}

// Run is shorthand for Build followed by Runtime.Run.
func (b *ProgramBuilder[S, E, O, Env]) Run(ctx context.Context, p proxy.Conn[E]) (O, error) {
	rt, err := b.Build(p)
	if err != nil {
		var zero O
		return zero, err
	}
	return rt.Run(ctx)
}
