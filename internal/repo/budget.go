package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/store"
)

// BudgetRepo defines the persistence operations for explicit budget entries.
type BudgetRepo interface {
	Create(ctx context.Context, entry domain.BudgetEntry) (domain.BudgetEntry, error)

	// ListByTrip returns the trip's entries in creation order.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.BudgetEntry, error)
}

type storeBudgetRepo struct {
	base
}

// NewBudgetRepo constructs a BudgetRepo over the given store.
func NewBudgetRepo(s store.Store, tables store.Tables, opts ...Option) BudgetRepo {
	return &storeBudgetRepo{base: newBase(s, tables, opts)}
}

func (r *storeBudgetRepo) Create(ctx context.Context, entry domain.BudgetEntry) (domain.BudgetEntry, error) {
	if entry.TripID == uuid.Nil {
		return domain.BudgetEntry{}, fmt.Errorf("repo.BudgetRepo.Create: %w: trip_id is required", domain.ErrValidation)
	}
	if err := required("category", entry.Category, "currency", entry.Currency); err != nil {
		return domain.BudgetEntry{}, fmt.Errorf("repo.BudgetRepo.Create: %w", err)
	}

	row := store.Row{
		"id":         uuid.New(),
		"trip_id":    entry.TripID,
		"item_id":    entry.ItemID,
		"category":   entry.Category,
		"amount":     entry.Amount,
		"currency":   entry.Currency,
		"created_at": r.timestamp(),
	}

	rows, err := r.store.Insert(ctx, r.tables.BudgetEntry, row)
	if err != nil {
		return domain.BudgetEntry{}, fmt.Errorf("repo.BudgetRepo.Create: %w", err)
	}
	saved, err := single(rows)
	if err != nil {
		return domain.BudgetEntry{}, fmt.Errorf("repo.BudgetRepo.Create: %w", err)
	}
	result, err := scanBudgetEntry(saved)
	if err != nil {
		return domain.BudgetEntry{}, fmt.Errorf("repo.BudgetRepo.Create: %w", err)
	}
	return result, nil
}

func (r *storeBudgetRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.BudgetEntry, error) {
	rows, err := r.store.Select(ctx, r.tables.BudgetEntry, store.Query{
		Filters: []store.Filter{store.Eq("trip_id", tripID)},
		OrderBy: "created_at",
	})
	if err != nil {
		return nil, fmt.Errorf("repo.BudgetRepo.ListByTrip: %w", err)
	}

	entries := make([]domain.BudgetEntry, 0, len(rows))
	for _, row := range rows {
		e, err := scanBudgetEntry(row)
		if err != nil {
			return nil, fmt.Errorf("repo.BudgetRepo.ListByTrip: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func scanBudgetEntry(row store.Row) (domain.BudgetEntry, error) {
	rr := rowReader{row: row}
	e := domain.BudgetEntry{
		ID:        rr.uuid("id"),
		TripID:    rr.uuid("trip_id"),
		ItemID:    rr.uuidPtr("item_id"),
		Category:  rr.str("category"),
		Amount:    rr.decimal("amount"),
		Currency:  rr.str("currency"),
		CreatedAt: rr.time("created_at"),
	}
	if rr.err != nil {
		return domain.BudgetEntry{}, rr.err
	}
	return e, nil
}
