package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetEntry is an explicit budget line recorded against a trip, optionally
// linked to one of the trip's items.
type BudgetEntry struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	ItemID    *uuid.UUID
	Category  string
	Amount    decimal.Decimal
	Currency  string
	CreatedAt time.Time
}

// Totals maps a currency code to a summed amount.
type Totals map[string]decimal.Decimal

// Add accumulates amount under currency.
func (t Totals) Add(currency string, amount decimal.Decimal) {
	t[currency] = t[currency].Add(amount)
}

// Currencies returns the currency codes in sorted order.
func (t Totals) Currencies() []string {
	out := make([]string, 0, len(t))
	for c := range t {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// BudgetSummary reports explicit budget lines next to the two independent
// per-currency rollups. The rollups are never merged: an explicit line may
// describe the same spend as an item's embedded cost.
type BudgetSummary struct {
	TripID         uuid.UUID
	Lines          []BudgetEntry
	EmbeddedTotals Totals
	ExplicitTotals Totals
}
