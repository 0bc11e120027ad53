package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bukid/internal/core"
)

const budgetSummaryKey = "budget-summary"

type budgetEntryRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	Receipt     string `json:"receipt,omitempty"`
}

type budgetEntryResponse struct {
	ID             string  `json:"id"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	AmountCentavos int64   `json:"amount_centavos"`
	AmountPesos    float64 `json:"amount_pesos"`
	Type           string  `json:"type"`
	Date           string  `json:"date"`
	Receipt        string  `json:"receipt,omitempty"`
}

type budgetSummaryResponse struct {
	TotalSpentCentavos  int64              `json:"total_spent_centavos"`
	TotalIncomeCentavos int64              `json:"total_income_centavos"`
	BalanceCentavos     int64              `json:"balance_centavos"`
	RemainingCentavos   int64              `json:"remaining_centavos"`
	TotalBudgetCentavos int64              `json:"total_budget_centavos"`
	PerCategoryPesos    map[string]float64 `json:"per_category_pesos"`
}

func toBudgetEntryResponse(e core.BudgetEntry) budgetEntryResponse {
	return budgetEntryResponse{
		ID:             e.ID,
		Description:    e.Description,
		Category:       e.Category,
		AmountCentavos: e.Amount.Centavos,
		AmountPesos:    e.Amount.Pesos(),
		Type:           string(e.Type),
		Date:           fmtDate(e.Date),
		Receipt:        e.Receipt,
	}
}

func (s *Server) handleListBudget(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.Budget.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]budgetEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toBudgetEntryResponse(e))
	}
	respondOK(w, out)
}

func (s *Server) handleCreateBudgetEntry(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session(r); err != nil {
		respondError(w, r, err)
		return
	}

	var req budgetEntryRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	centavos, err := core.ParseDecimalToCentavos(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, r, err)
		return
	}

	entry, err := s.store.Budget.Create(r.Context(), core.BudgetEntry{
		Description: req.Description,
		Category:    req.Category,
		Amount:      core.Money{Centavos: centavos},
		Type:        core.EntryType(req.Type),
		Date:        date,
		Receipt:     req.Receipt,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.summaryCache.Delete(budgetSummaryKey)
	s.publishLedgerExport(r.Context(), entry.ID)

	respondCreated(w, toBudgetEntryResponse(entry))
}

// publishLedgerExport hands the entry id to the export queue. Export is
// best-effort: the entry is already persisted, and the worker's catch-up
// sweep picks up anything the broker missed.
func (s *Server) publishLedgerExport(ctx context.Context, entryID string) {
	if s.ledger == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.ledger.PublishLedgerExport(pubCtx, entryID); err != nil {
		slog.WarnContext(ctx, "Ledger export publish failed", "entry_id", entryID, "error", err)
	}
}

func (s *Server) handleDeleteBudgetEntry(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.adminSession(w, r); !ok {
		return
	}
	if err := s.store.Budget.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	s.summaryCache.Delete(budgetSummaryKey)
	respondOK(w, map[string]string{"deleted": r.PathValue("id")})
}

func (s *Server) handleBudgetSummary(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.summaryCache.Get(budgetSummaryKey)
	if !ok {
		entries, err := s.store.Budget.List(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}
		summary, err = core.SummarizeBudget(entries, s.totalBudget)
		if err != nil {
			respondError(w, r, err)
			return
		}
		s.summaryCache.Set(budgetSummaryKey, summary)
	}

	perCategory := make(map[string]float64, len(summary.PerCategory))
	for cat, amount := range summary.PerCategory {
		perCategory[cat] = amount.Pesos()
	}
	respondOK(w, budgetSummaryResponse{
		TotalSpentCentavos:  summary.TotalSpent.Centavos,
		TotalIncomeCentavos: summary.TotalIncome.Centavos,
		BalanceCentavos:     summary.Balance.Centavos,
		RemainingCentavos:   summary.Remaining.Centavos,
		TotalBudgetCentavos: s.totalBudget.Centavos,
		PerCategoryPesos:    perCategory,
	})
}
