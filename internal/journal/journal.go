package journal

import (
	"context"
	"time"
)

// Kind classifies a journal record.
type Kind string

const (
	KindStart  Kind = "START"
	KindEvent  Kind = "EVENT"
	KindOutput Kind = "OUTPUT"
	KindStop   Kind = "STOP"
)

// Record is one appended journal entry. Seq is the runtime's own monotonic
// sequence so a journal read back is in exact processing order regardless
// of wall-clock resolution.
type Record struct {
	Seq      int64
	At       time.Time
	Kind     Kind
	Internal bool
	Detail   string
}

// Store is an append-only history store for transducer runs.
type Store interface {
	Append(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]Record, error)
}

// NoopStore discards all records.
type NoopStore struct{}

func (NoopStore) Append(ctx context.Context, rec Record) error { return nil }
func (NoopStore) List(ctx context.Context) ([]Record, error)  { return nil, nil }
