// Package sheets defines the outbound port for the public transparency
// ledger. The barangay publishes every budget entry to a spreadsheet the
// residents can open without an account in this system.
package sheets

import (
	"context"

	"bukid/internal/core"
)

type LedgerWriter interface {
	Append(ctx context.Context, e core.BudgetEntry) (rowRef string, err error)
}
