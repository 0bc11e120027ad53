// Package memory is an in-process LedgerWriter used in tests and local
// development when no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"bukid/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.BudgetEntry
}

func New() *Store {
	return &Store{}
}

// Append stores the entry and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.BudgetEntry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Entries returns a copy of everything appended so far.
func (s *Store) Entries() []core.BudgetEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.BudgetEntry(nil), s.items...)
}
