package journal

import (
	"context"
	"database/sql"
	"time"
)

// SQLiteStore persists journal records in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates the schema if needed and returns a store writing
// to db. The caller owns the *sql.DB and registers the driver (typically
// modernc.org/sqlite).
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS transducer_journal (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seq INTEGER NOT NULL,
			at INTEGER NOT NULL,
			kind TEXT NOT NULL,
			internal INTEGER NOT NULL DEFAULT 0,
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_transducer_journal_seq ON transducer_journal(seq);
	`)
	return err
}

func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	at := rec.At
	if at.IsZero() {
		at = time.Now()
	}
	internal := 0
	if rec.Internal {
		internal = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transducer_journal (seq, at, kind, internal, detail)
		VALUES (?, ?, ?, ?, ?)`,
		rec.Seq,
		at.UnixNano(),
		string(rec.Kind),
		internal,
		rec.Detail,
	)
	return err
}

func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, at, kind, internal, detail
		FROM transducer_journal
		ORDER BY seq ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			seq      int64
			atN      int64
			kind     string
			internal int
			detail   string
		)
		if err := rows.Scan(&seq, &atN, &kind, &internal, &detail); err != nil {
			return nil, err
		}
		out = append(out, Record{
			Seq:      seq,
			At:       time.Unix(0, atN),
			Kind:     Kind(kind),
			Internal: internal != 0,
			Detail:   detail,
		})
	}
	return out, rows.Err()
}
