package core

import "fmt"

// BudgetSummary is the derived view of the community ledger. Remaining is
// measured against the admin-set total budget and ignores income; Balance is
// income minus spending and may legitimately be negative (a deficit).
type BudgetSummary struct {
	TotalSpent  Money
	TotalIncome Money
	Balance     Money
	Remaining   Money
	PerCategory map[string]Money
}

// SummarizeBudget folds the ledger into display-ready totals. Entries are
// grouped by their raw category string, so categories unknown at entry time
// still land in PerCategory. Any entry with a non-positive amount or an
// unknown type aborts the summary: a misleading total is worse than no total.
func SummarizeBudget(entries []BudgetEntry, totalBudget Money) (BudgetSummary, error) {
	s := BudgetSummary{PerCategory: make(map[string]Money, len(entries))}

	for i, e := range entries {
		if err := e.Amount.Validate(); err != nil {
			return BudgetSummary{}, fmt.Errorf("entry %d (%s): %w", i, e.ID, err)
		}
		switch e.Type {
		case Expense:
			s.TotalSpent.Centavos += e.Amount.Centavos
		case Income:
			s.TotalIncome.Centavos += e.Amount.Centavos
		default:
			return BudgetSummary{}, fmt.Errorf("entry %d (%s): %w", i, e.ID, ErrInvalidType)
		}
		cat := s.PerCategory[e.Category]
		cat.Centavos += e.Amount.Centavos
		s.PerCategory[e.Category] = cat
	}

	s.Balance = Money{Centavos: s.TotalIncome.Centavos - s.TotalSpent.Centavos}
	s.Remaining = Money{Centavos: totalBudget.Centavos - s.TotalSpent.Centavos}
	return s, nil
}
