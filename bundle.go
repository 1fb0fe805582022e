package transiro

import (
	"context"
	"database/sql"
	"time"

	"github.com/petrijr/transiro/internal/journal"
)

// JournalRecord is one entry of a recorded run: a processed event, a
// delivered output, or a lifecycle edge, in exact processing order.
type JournalRecord struct {
	Seq      int64
	At       time.Time
	Kind     string
	Internal bool
	Detail   string
}

// Journal records a runtime's history through its Observer and reads it
// back as JournalRecords. Construct with NewSQLiteJournal or
// NewMemoryJournal and pass Observer (usually composed with others via
// NewCompositeObserver) into the runtime Config.
type Journal[E, O any] struct {
	// Observer appends a record per processed event, output, start and
	// stop. Attach it to the runtime being recorded.
	Observer Observer[E, O]

	store journal.Store
}

// NewSQLiteJournal creates a journal persisted in the provided SQLite
// database, creating the schema if needed. The caller owns the *sql.DB and
// registers the driver (typically modernc.org/sqlite):
//
//	db, _ := sql.Open("sqlite", "file:run.db?_journal=WAL")
//	j, err := transiro.NewSQLiteJournal[Event, Output](db)
//	cfg.Observer = j.Observer
func NewSQLiteJournal[E, O any](db *sql.DB) (*Journal[E, O], error) {
	store, err := journal.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	return &Journal[E, O]{
		Observer: journal.NewObserver[E, O](store),
		store:    store,
	}, nil
}

// NewMemoryJournal creates a non-durable in-memory journal, best for tests
// and development.
func NewMemoryJournal[E, O any]() *Journal[E, O] {
	store := journal.NewMemoryStore()
	return &Journal[E, O]{
		Observer: journal.NewObserver[E, O](store),
		store:    store,
	}
}

// Records returns the recorded history in processing order.
func (j *Journal[E, O]) Records(ctx context.Context) ([]JournalRecord, error) {
	recs, err := j.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]JournalRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, JournalRecord{
			Seq:      rec.Seq,
			At:       rec.At,
			Kind:     string(rec.Kind),
			Internal: rec.Internal,
			Detail:   rec.Detail,
		})
	}
	return out, nil
}
