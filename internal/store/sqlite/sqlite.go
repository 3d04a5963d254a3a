// Package sqlite implements the whole-document store contract on SQLite.
// Load materializes every event and entry into a core.State; Save replaces
// the tables inside one transaction. The observable semantics match the
// jsonfile backend, with better durability for larger groups.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"whipbot/internal/core"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (core.State, error) {
	st := core.NewState()

	eventRows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, created_by FROM events`)
	if err != nil {
		return core.State{}, fmt.Errorf("query events: %w", err)
	}
	defer eventRows.Close()

	for eventRows.Next() {
		var (
			ev        core.Event
			createdAt string
		)
		if err := eventRows.Scan(&ev.ID, &ev.Name, &createdAt, &ev.CreatedBy); err != nil {
			return core.State{}, fmt.Errorf("scan event: %w", err)
		}
		ev.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return core.State{}, fmt.Errorf("event %s: parse created_at: %w", ev.ID, err)
		}
		st.Events[ev.ID] = ev
	}
	if err := eventRows.Err(); err != nil {
		return core.State{}, fmt.Errorf("iterate events: %w", err)
	}

	entryRows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, user_id, username, amount_cents, timestamp FROM entries`)
	if err != nil {
		return core.State{}, fmt.Errorf("query entries: %w", err)
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var (
			en        core.Entry
			cents     int64
			timestamp string
		)
		if err := entryRows.Scan(&en.ID, &en.EventID, &en.UserID, &en.Username, &cents, &timestamp); err != nil {
			return core.State{}, fmt.Errorf("scan entry: %w", err)
		}
		en.Amount = core.Money{Cents: cents}
		en.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp)
		if err != nil {
			return core.State{}, fmt.Errorf("entry %s: parse timestamp: %w", en.ID, err)
		}
		st.Entries[en.ID] = en
	}
	if err := entryRows.Err(); err != nil {
		return core.State{}, fmt.Errorf("iterate entries: %w", err)
	}

	return st, nil
}

func (s *Store) Save(ctx context.Context, st core.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	// Whole-document semantics: replace both tables in full.
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}

	for _, ev := range st.Events {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, name, created_at, created_by) VALUES (?, ?, ?, ?)`,
			ev.ID, ev.Name, ev.CreatedAt.Format(time.RFC3339Nano), ev.CreatedBy)
		if err != nil {
			return fmt.Errorf("insert event %s: %w", ev.ID, err)
		}
	}
	for _, en := range st.Entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entries (id, event_id, user_id, username, amount_cents, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			en.ID, en.EventID, en.UserID, en.Username, en.Amount.Cents,
			en.Timestamp.Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("insert entry %s: %w", en.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}
