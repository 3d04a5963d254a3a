// Package jsonfile persists the application state as a single JSON document,
// the same layout the bot has always used:
//
//	{ "events": { "<id>": {"name", "created_at", "created_by"} },
//	  "entries": { "<id>": {"event_id", "user_id", "username", "amount", "timestamp"} } }
//
// A missing file loads as the empty default; a malformed file is an error
// that surfaces to the caller. Saves go through a temp file and rename so a
// concurrent load never observes a partial write, and a store-level mutex
// serializes writers.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"whipbot/internal/core"
)

type Store struct {
	mu   sync.Mutex
	path string
}

type document struct {
	Events  map[string]eventDoc `json:"events"`
	Entries map[string]entryDoc `json:"entries"`
}

type eventDoc struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	CreatedBy int64  `json:"created_by"`
}

type entryDoc struct {
	EventID   string  `json:"event_id"`
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load(_ context.Context) (core.State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return core.NewState(), nil
	}
	if err != nil {
		return core.State{}, fmt.Errorf("read state file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return core.State{}, fmt.Errorf("parse state file %s: %w", s.path, err)
	}

	st := core.NewState()
	for id, ev := range doc.Events {
		createdAt, err := parseTimestamp(ev.CreatedAt)
		if err != nil {
			return core.State{}, fmt.Errorf("event %s: %w", id, err)
		}
		st.Events[id] = core.Event{
			ID:        id,
			Name:      ev.Name,
			CreatedAt: createdAt,
			CreatedBy: ev.CreatedBy,
		}
	}
	for id, en := range doc.Entries {
		ts, err := parseTimestamp(en.Timestamp)
		if err != nil {
			return core.State{}, fmt.Errorf("entry %s: %w", id, err)
		}
		st.Entries[id] = core.Entry{
			ID:        id,
			EventID:   en.EventID,
			UserID:    en.UserID,
			Username:  en.Username,
			Amount:    core.Money{Cents: core.CentsFromEuros(en.Amount)},
			Timestamp: ts,
		}
	}
	return st, nil
}

func (s *Store) Save(_ context.Context, st core.State) error {
	doc := document{
		Events:  make(map[string]eventDoc, len(st.Events)),
		Entries: make(map[string]entryDoc, len(st.Entries)),
	}
	for id, ev := range st.Events {
		doc.Events[id] = eventDoc{
			Name:      ev.Name,
			CreatedAt: ev.CreatedAt.Format(time.RFC3339Nano),
			CreatedBy: ev.CreatedBy,
		}
	}
	for id, en := range st.Entries {
		doc.Entries[id] = entryDoc{
			EventID:   en.EventID,
			UserID:    en.UserID,
			Username:  en.Username,
			Amount:    en.Amount.Euros(),
			Timestamp: en.Timestamp.Format(time.RFC3339Nano),
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// parseTimestamp accepts RFC 3339 as written by this store plus the
// zone-less ISO form found in documents written by the bot's predecessor.
func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", raw)
}
