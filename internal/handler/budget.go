package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
)

// CreateBudgetEntryRequest is the body of POST /trips/{tripID}/budget.
type CreateBudgetEntryRequest struct {
	ItemID   *uuid.UUID `json:"item_id,omitempty"`
	Category string     `json:"category"`
	Amount   Amount     `json:"amount"`
	Currency string     `json:"currency"`
}

// BudgetEntry is the response representation of a budget line.
type BudgetEntry struct {
	ID        uuid.UUID  `json:"id"`
	TripID    uuid.UUID  `json:"trip_id"`
	ItemID    *uuid.UUID `json:"item_id"`
	Category  string     `json:"category"`
	Amount    Amount     `json:"amount"`
	Currency  string     `json:"currency"`
	CreatedAt time.Time  `json:"created_at"`
}

// BudgetSummary is the response of GET /trips/{tripID}/budget. The two
// totals are independent and never reconciled.
type BudgetSummary struct {
	TripID         uuid.UUID         `json:"trip_id"`
	Lines          []BudgetEntry     `json:"lines"`
	EmbeddedTotals map[string]Amount `json:"embedded_totals"`
	ExplicitTotals map[string]Amount `json:"explicit_totals"`
}

// CreateBudgetEntry handles POST /trips/{tripID}/budget.
func (s *Server) CreateBudgetEntry(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathID(w, r, "tripID")
	if !ok {
		return
	}
	var body CreateBudgetEntryRequest
	if !s.decode(w, r, &body) {
		return
	}

	entry, err := s.budget.CreateEntry(r.Context(), owner, tripID, domain.BudgetEntry{
		ItemID:   body.ItemID,
		Category: body.Category,
		Amount:   body.Amount.Decimal,
		Currency: body.Currency,
	})
	if err != nil {
		s.fail(w, r, err, "trip or item")
		return
	}
	writeJSON(w, http.StatusCreated, budgetEntryToResponse(entry))
}

// GetBudget handles GET /trips/{tripID}/budget.
func (s *Server) GetBudget(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathID(w, r, "tripID")
	if !ok {
		return
	}

	sum, err := s.budget.Summary(r.Context(), owner, tripID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	lines := make([]BudgetEntry, len(sum.Lines))
	for i, l := range sum.Lines {
		lines[i] = budgetEntryToResponse(l)
	}
	writeJSON(w, http.StatusOK, BudgetSummary{
		TripID:         sum.TripID,
		Lines:          lines,
		EmbeddedTotals: totalsToResponse(sum.EmbeddedTotals),
		ExplicitTotals: totalsToResponse(sum.ExplicitTotals),
	})
}

func budgetEntryToResponse(e domain.BudgetEntry) BudgetEntry {
	return BudgetEntry{
		ID:        e.ID,
		TripID:    e.TripID,
		ItemID:    e.ItemID,
		Category:  e.Category,
		Amount:    Amount{e.Amount},
		Currency:  e.Currency,
		CreatedAt: e.CreatedAt,
	}
}
