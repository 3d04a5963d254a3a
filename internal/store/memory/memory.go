// Package memory is an in-process store used by tests and local development.
package memory

import (
	"context"
	"sync"

	"whipbot/internal/core"
)

type Store struct {
	mu sync.Mutex
	st core.State
}

func New() *Store {
	return &Store{st: core.NewState()}
}

// Seed replaces the held state, bypassing the Save contract. Test helper.
func (s *Store) Seed(st core.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = st.Clone()
}

func (s *Store) Load(_ context.Context) (core.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone(), nil
}

func (s *Store) Save(_ context.Context, st core.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = st.Clone()
	return nil
}
