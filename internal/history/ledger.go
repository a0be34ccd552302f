// Package history records the outcome of every plugin processed by an
// update or refresh run.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Status is the result of processing one plugin.
type Status string

const (
	StatusUpdated Status = "updated"
	StatusFailed  Status = "failed"
)

// Outcome is one recorded plugin result.
type Outcome struct {
	RunID      string
	Plugin     string
	Status     Status
	Error      string
	RecordedAt time.Time
}

// Filter narrows List results.
type Filter struct {
	RunID      string
	FailedOnly bool
	Limit      int
}

// Ledger stores outcomes in a SQL database.
type Ledger struct {
	db *sql.DB
}

// New wraps an open database. Call Initialize before first use.
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Open opens (creating if needed) the SQLite ledger at path.
func Open(ctx context.Context, path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	l := New(db)
	if err := l.Initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// Initialize ensures the outcomes table exists
func (l *Ledger) Initialize(ctx context.Context) error {
	query := `
CREATE TABLE IF NOT EXISTS refresh_outcomes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	plugin TEXT NOT NULL,
	status TEXT NOT NULL,
	error TEXT,
	recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_refresh_outcomes_run_id
ON refresh_outcomes(run_id);
`
	if _, err := l.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to initialize history table: %w", err)
	}
	return nil
}

// Record stores an outcome. A zero RecordedAt is set to now.
func (l *Ledger) Record(ctx context.Context, o Outcome) error {
	if o.RecordedAt.IsZero() {
		o.RecordedAt = time.Now().UTC()
	}

	var errText sql.NullString
	if o.Error != "" {
		errText = sql.NullString{String: o.Error, Valid: true}
	}

	query := `
INSERT INTO refresh_outcomes (run_id, plugin, status, error, recorded_at)
VALUES (?, ?, ?, ?, ?)
`
	if _, err := l.db.ExecContext(ctx, query, o.RunID, o.Plugin, string(o.Status), errText, o.RecordedAt); err != nil {
		return fmt.Errorf("failed to record outcome for %s: %w", o.Plugin, err)
	}
	return nil
}

// List returns outcomes, most recent first.
func (l *Ledger) List(ctx context.Context, f Filter) ([]Outcome, error) {
	query := `SELECT run_id, plugin, status, error, recorded_at FROM refresh_outcomes WHERE 1 = 1`
	var args []any

	if f.RunID != "" {
		query += " AND run_id = ?"
		args = append(args, f.RunID)
	}
	if f.FailedOnly {
		query += " AND status = ?"
		args = append(args, string(StatusFailed))
	}
	query += " ORDER BY recorded_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var o Outcome
		var status string
		var errText sql.NullString
		if err := rows.Scan(&o.RunID, &o.Plugin, &status, &errText, &o.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Status = Status(status)
		if errText.Valid {
			o.Error = errText.String
		}
		outcomes = append(outcomes, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}
	return outcomes, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
