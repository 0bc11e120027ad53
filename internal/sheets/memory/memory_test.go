package memory

import (
	"context"
	"testing"
	"time"

	"bukid/internal/core"
)

func TestAppend(t *testing.T) {
	s := New()
	ctx := context.Background()

	entry := core.BudgetEntry{
		ID:          "e1",
		Description: "seedling trays",
		Category:    "Seeds",
		Amount:      core.Money{Centavos: 35000},
		Type:        core.Expense,
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	ref, err := s.Append(ctx, entry)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("row ref = %q, want mem:1", ref)
	}

	// Invalid entries are rejected before storage.
	bad := entry
	bad.Amount.Centavos = 0
	if _, err := s.Append(ctx, bad); err == nil {
		t.Error("Append(invalid) should fail")
	}
	if got := len(s.Entries()); got != 1 {
		t.Errorf("stored entries = %d, want 1", got)
	}
}
