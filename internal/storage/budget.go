package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bukid/internal/core"
)

type BudgetRepository struct {
	db *sql.DB
}

func (r *BudgetRepository) List(ctx context.Context) ([]core.BudgetEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, category, amount_centavos, entry_type, entry_date, receipt
		FROM budget_entries
		ORDER BY entry_date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list budget entries: %w", err)
	}
	defer rows.Close()

	var entries []core.BudgetEntry
	for rows.Next() {
		var e core.BudgetEntry
		var typ, date string
		if err := rows.Scan(&e.ID, &e.Description, &e.Category, &e.Amount.Centavos, &typ, &date, &e.Receipt); err != nil {
			return nil, fmt.Errorf("scan budget entry: %w", err)
		}
		e.Type = core.EntryType(typ)
		e.Date = parseTime(date)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *BudgetRepository) Get(ctx context.Context, id string) (core.BudgetEntry, error) {
	var e core.BudgetEntry
	var typ, date string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, description, category, amount_centavos, entry_type, entry_date, receipt
		FROM budget_entries WHERE id = ?`, id).
		Scan(&e.ID, &e.Description, &e.Category, &e.Amount.Centavos, &typ, &date, &e.Receipt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetEntry{}, fmt.Errorf("budget entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.BudgetEntry{}, fmt.Errorf("get budget entry: %w", err)
	}
	e.Type = core.EntryType(typ)
	e.Date = parseTime(date)
	return e, nil
}

func (r *BudgetRepository) Create(ctx context.Context, e core.BudgetEntry) (core.BudgetEntry, error) {
	if err := e.Validate(); err != nil {
		return core.BudgetEntry{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budget_entries (id, description, category, amount_centavos, entry_type, entry_date, receipt, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Description, e.Category, e.Amount.Centavos, string(e.Type), fmtTime(e.Date), e.Receipt, fmtTime(time.Now()))
	if err != nil {
		return core.BudgetEntry{}, fmt.Errorf("create budget entry: %w", err)
	}

	slog.InfoContext(ctx, "Budget entry saved",
		"id", e.ID,
		"type", e.Type,
		"category", e.Category,
		"amount_centavos", e.Amount.Centavos)
	return e, nil
}

func (r *BudgetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budget_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("budget entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListPendingExport returns entries not yet written to the transparency
// ledger, oldest first.
func (r *BudgetRepository) ListPendingExport(ctx context.Context, limit int) ([]core.BudgetEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, category, amount_centavos, entry_type, entry_date, receipt
		FROM budget_entries
		WHERE exported = 0
		ORDER BY created_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending export: %w", err)
	}
	defer rows.Close()

	var entries []core.BudgetEntry
	for rows.Next() {
		var e core.BudgetEntry
		var typ, date string
		if err := rows.Scan(&e.ID, &e.Description, &e.Category, &e.Amount.Centavos, &typ, &date, &e.Receipt); err != nil {
			return nil, fmt.Errorf("scan pending entry: %w", err)
		}
		e.Type = core.EntryType(typ)
		e.Date = parseTime(date)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *BudgetRepository) MarkExported(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE budget_entries SET exported = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark entry exported: %w", err)
	}
	return nil
}
