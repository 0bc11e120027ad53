// Package worker copies budget entries from SQLite to the public
// transparency sheet. The queue is the fast path; the periodic sweep over
// unexported rows is the safety net for lost messages and downtime.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"bukid/internal/amqp"
	"bukid/internal/sheets"
	"bukid/internal/storage"
)

type ExportWorker struct {
	store     *storage.Store
	ledger    sheets.LedgerWriter
	batchSize int
}

func NewExportWorker(store *storage.Store, ledger sheets.LedgerWriter, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ExportWorker{
		store:     store,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single ledger export message from AMQP.
// The entry is reloaded from the database so the sheet always reflects the
// persisted row, not whatever the message happened to carry.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.LedgerExportMessage) error {
	slog.InfoContext(ctx, "Processing export message", "entry_id", msg.EntryID)

	entry, err := w.store.Budget.Get(ctx, msg.EntryID)
	if err != nil {
		return fmt.Errorf("load budget entry: %w", err)
	}

	ref, err := w.ledger.Append(ctx, entry)
	if err != nil {
		return fmt.Errorf("append to ledger sheet: %w", err)
	}

	if err := w.store.Budget.MarkExported(ctx, entry.ID); err != nil {
		// The row is already on the sheet; the sweep will retry the mark.
		slog.ErrorContext(ctx, "Failed to mark entry exported", "entry_id", entry.ID, "error", err)
	}

	slog.InfoContext(ctx, "Entry exported to transparency ledger",
		"entry_id", entry.ID,
		"sheets_ref", ref,
		"amount_centavos", entry.Amount.Centavos)
	return nil
}

// ProcessPendingEntries exports entries the queue missed. Errors on single
// entries are logged and skipped so one bad row cannot stall the sweep.
func (w *ExportWorker) ProcessPendingEntries(ctx context.Context) error {
	pending, err := w.store.Budget.ListPendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending entries: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending ledger exports", "count", len(pending))

	for _, entry := range pending {
		ref, err := w.ledger.Append(ctx, entry)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to export entry", "entry_id", entry.ID, "error", err)
			continue
		}
		if err := w.store.Budget.MarkExported(ctx, entry.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark entry exported", "entry_id", entry.ID, "error", err)
			continue
		}
		slog.InfoContext(ctx, "Pending entry exported", "entry_id", entry.ID, "sheets_ref", ref)
	}
	return nil
}

// StartupCheck drains a larger pending backlog once at worker startup to
// recover from downtime.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.store.Budget.ListPendingExport(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending entries for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending ledger exports on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending ledger exports on startup", "count", len(pending))

	exported := 0
	failed := 0
	for _, entry := range pending {
		ref, err := w.ledger.Append(ctx, entry)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to export entry during startup", "entry_id", entry.ID, "error", err)
			failed++
			continue
		}
		if err := w.store.Budget.MarkExported(ctx, entry.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark entry exported", "entry_id", entry.ID, "error", err)
			failed++
			continue
		}
		slog.DebugContext(ctx, "Startup export done", "entry_id", entry.ID, "sheets_ref", ref)
		exported++
	}

	slog.InfoContext(ctx, "Startup export check completed",
		"total", len(pending),
		"exported", exported,
		"errors", failed)
	return nil
}
