// Package memory is an in-process export sheet used by tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"whipbot/internal/sheets"
)

type Sheet struct {
	mu   sync.Mutex
	rows []sheets.ExportRow
}

func New() *Sheet {
	return &Sheet{}
}

// Append stores the row and returns a synthetic row reference.
func (s *Sheet) Append(_ context.Context, row sheets.ExportRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

func (s *Sheet) ListEntryIDs(_ context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make(map[string]struct{}, len(s.rows))
	for _, r := range s.rows {
		ids[r.EntryID] = struct{}{}
	}
	return ids, nil
}

// Rows returns a copy of everything appended so far. Test helper.
func (s *Sheet) Rows() []sheets.ExportRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.ExportRow(nil), s.rows...)
}
