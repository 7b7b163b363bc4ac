package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"
)

// SQLiteJournal implements Journal using an embedded SQLite database.
type SQLiteJournal struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a journal.
func OpenSQLite(ctx context.Context, path string, log *zap.Logger) (*SQLiteJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite is a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := RunMigrations(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// Record appends one event. A zero CreatedAt is stamped with the current time.
func (j *SQLiteJournal) Record(ctx context.Context, e Event) error {
	if e.Kind == "" {
		return errors.New("journal event without kind")
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO journal (kind, handle, setting, detail, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.Kind, e.Handle, e.Setting, e.Detail, toUnix(e.CreatedAt),
	)
	return err
}

// Recent returns up to limit events for handle, newest first.
func (j *SQLiteJournal) Recent(ctx context.Context, handle string, limit int) ([]Event, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, kind, handle, setting, detail, created_at
		FROM journal
		WHERE handle = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		handle, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Event
	for rows.Next() {
		var (
			e       Event
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Kind, &e.Handle, &e.Setting, &e.Detail, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = fromUnix(created)
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Prune deletes events created before the cutoff and reports how many went.
func (j *SQLiteJournal) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx, `DELETE FROM journal WHERE created_at < ?`, before.UTC().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
