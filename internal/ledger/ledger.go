// Package ledger persists placements in a SQLite database next to the
// output tree. The ledger is what makes a run reviewable and reversible:
// every copy is recorded with its source, destination and proposed title.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by an incompatible
// version.
var ErrSchemaMismatch = errors.New("ledger schema version mismatch")

const schemaSQL = `
CREATE TABLE schema_version (
    version INTEGER NOT NULL
);

CREATE TABLE placements (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    source      TEXT NOT NULL,
    destination TEXT NOT NULL,
    title       TEXT NOT NULL DEFAULT '',
    placed_at   TEXT NOT NULL
);

CREATE INDEX idx_placements_destination ON placements(destination);
`

// Placement is one recorded copy.
type Placement struct {
	ID          int64
	Source      string
	Destination string
	Title       string
	PlacedAt    time.Time
}

// Ledger manages placement persistence backed by SQLite.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	l := &Ledger{db: db, path: path}
	if err := l.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

// Path returns the database location.
func (l *Ledger) Path() string { return l.path }

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

func (l *Ledger) initSchema(ctx context.Context) error {
	var tableExists int
	err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := l.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := l.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to start over)",
			ErrSchemaMismatch, version, schemaVersion, l.path)
	}
	return nil
}

// Record persists one placement. Satisfies the organizer's Recorder.
func (l *Ledger) Record(source, destination, title string) error {
	_, err := l.db.ExecContext(context.Background(),
		"INSERT INTO placements (source, destination, title, placed_at) VALUES (?, ?, ?, ?)",
		source, destination, title, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert placement: %w", err)
	}
	return nil
}

// Placements returns every recorded placement, oldest first.
func (l *Ledger) Placements(ctx context.Context) ([]Placement, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT id, source, destination, title, placed_at FROM placements ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query placements: %w", err)
	}
	defer rows.Close()

	var out []Placement
	for rows.Next() {
		var p Placement
		var placedAt string
		if err := rows.Scan(&p.ID, &p.Source, &p.Destination, &p.Title, &placedAt); err != nil {
			return nil, fmt.Errorf("scan placement: %w", err)
		}
		p.PlacedAt, _ = time.Parse(time.RFC3339, placedAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Undo removes every recorded destination file and clears the ledger,
// newest first. Sources are never touched. A destination already gone is
// not an error; the row is cleared anyway. Returns how many files were
// removed.
func (l *Ledger) Undo(ctx context.Context) (int, error) {
	placements, err := l.Placements(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := len(placements) - 1; i >= 0; i-- {
		p := placements[i]
		err := os.Remove(p.Destination)
		if err == nil {
			removed++
		} else if !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove %s: %w", p.Destination, err)
		}
		if _, err := l.db.ExecContext(ctx, "DELETE FROM placements WHERE id = ?", p.ID); err != nil {
			return removed, fmt.Errorf("clear placement %d: %w", p.ID, err)
		}
	}
	return removed, nil
}
