package journal

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/petrijr/transiro/pkg/api"
)

// Observer appends a journal record for every processed event, delivered
// output, and lifecycle edge of a runtime.
//
// Records are stamped with a monotonic sequence owned by the observer, so a
// listed journal reads back in exact processing order. Append failures are
// deliberately swallowed: journaling must never stall or fail the runtime.
type Observer[E, O any] struct {
	api.NoopObserver[E, O]

	store Store
	seq   atomic.Int64
}

// NewObserver creates a journaling observer writing to store.
func NewObserver[E, O any](store Store) *Observer[E, O] {
	return &Observer[E, O]{store: store}
}

var _ api.Observer[int, string] = (*Observer[int, string])(nil)

func (o *Observer[E, O]) append(ctx context.Context, kind Kind, internal bool, detail string) {
	_ = o.store.Append(ctx, Record{
		Seq:      o.seq.Add(1),
		At:       time.Now(),
		Kind:     kind,
		Internal: internal,
		Detail:   detail,
	})
}

func (o *Observer[E, O]) OnStart(ctx context.Context) {
	o.append(ctx, KindStart, false, "")
}

func (o *Observer[E, O]) OnEvent(ctx context.Context, event E, internal bool, d time.Duration) {
	o.append(ctx, KindEvent, internal, fmt.Sprintf("%v", event))
}

func (o *Observer[E, O]) OnOutput(ctx context.Context, out O) {
	o.append(ctx, KindOutput, false, fmt.Sprintf("%v", out))
}

func (o *Observer[E, O]) OnStop(ctx context.Context, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	o.append(ctx, KindStop, false, detail)
}
