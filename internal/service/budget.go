package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/repo"
)

// BudgetService records explicit budget lines and rolls up trip spending.
type BudgetService struct {
	trips  repo.TripRepo
	items  repo.ItemRepo
	budget repo.BudgetRepo
}

// NewBudgetService constructs a BudgetService from the bundled repositories.
func NewBudgetService(r repo.Repos) *BudgetService {
	return &BudgetService{trips: r.Trips, items: r.Items, budget: r.Budget}
}

// CreateEntry validates and records a budget line on the owner's trip. A
// linked item must belong to the same trip.
func (s *BudgetService) CreateEntry(ctx context.Context, owner, tripID uuid.UUID, entry domain.BudgetEntry) (domain.BudgetEntry, error) {
	if _, err := s.trips.GetByID(ctx, owner, tripID); err != nil {
		return domain.BudgetEntry{}, fmt.Errorf("service.BudgetService.CreateEntry: %w", err)
	}

	entry.TripID = tripID
	entry.Category = strings.TrimSpace(entry.Category)
	if entry.Category == "" {
		return domain.BudgetEntry{}, fmt.Errorf("service.BudgetService.CreateEntry: %w", invalid("category is required"))
	}
	if err := checkAmount("amount", entry.Amount); err != nil {
		return domain.BudgetEntry{}, fmt.Errorf("service.BudgetService.CreateEntry: %w", err)
	}
	cur, err := normalizeCurrency("currency", entry.Currency)
	if err != nil {
		return domain.BudgetEntry{}, fmt.Errorf("service.BudgetService.CreateEntry: %w", err)
	}
	entry.Currency = cur

	if entry.ItemID != nil {
		item, err := s.items.GetByID(ctx, *entry.ItemID)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && item.TripID != tripID) {
			return domain.BudgetEntry{}, fmt.Errorf("service.BudgetService.CreateEntry: item %s: %w", *entry.ItemID, domain.ErrNotFound)
		}
		if err != nil {
			return domain.BudgetEntry{}, fmt.Errorf("service.BudgetService.CreateEntry: %w", err)
		}
	}

	created, err := s.budget.Create(ctx, entry)
	if err != nil {
		return domain.BudgetEntry{}, fmt.Errorf("service.BudgetService.CreateEntry: %w", err)
	}
	return created, nil
}

// Summary returns the trip's budget lines with two independent per-currency
// rollups: explicit_totals over the lines and embedded_totals over item
// costs. The two reads run concurrently and are not a single snapshot.
func (s *BudgetService) Summary(ctx context.Context, owner, tripID uuid.UUID) (domain.BudgetSummary, error) {
	if _, err := s.trips.GetByID(ctx, owner, tripID); err != nil {
		return domain.BudgetSummary{}, fmt.Errorf("service.BudgetService.Summary: %w", err)
	}
	sum, err := s.summarize(ctx, tripID)
	if err != nil {
		return domain.BudgetSummary{}, fmt.Errorf("service.BudgetService.Summary: %w", err)
	}
	return sum, nil
}

// summarize rolls up a trip whose ownership the caller has already checked.
func (s *BudgetService) summarize(ctx context.Context, tripID uuid.UUID) (domain.BudgetSummary, error) {
	var (
		lines []domain.BudgetEntry
		items []domain.Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lines, err = s.budget.ListByTrip(gctx, tripID)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.items.ListByTrip(gctx, tripID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.BudgetSummary{}, err
	}

	return Rollup(tripID, lines, items), nil
}

// Rollup sums explicit lines and embedded item costs per currency. The two
// totals are never merged.
func Rollup(tripID uuid.UUID, lines []domain.BudgetEntry, items []domain.Item) domain.BudgetSummary {
	sum := domain.BudgetSummary{
		TripID:         tripID,
		Lines:          lines,
		EmbeddedTotals: domain.Totals{},
		ExplicitTotals: domain.Totals{},
	}
	if sum.Lines == nil {
		sum.Lines = []domain.BudgetEntry{}
	}
	for _, l := range lines {
		sum.ExplicitTotals.Add(l.Currency, l.Amount)
	}
	for _, it := range items {
		if it.Cost != nil && it.Cost.Currency != "" {
			sum.EmbeddedTotals.Add(it.Cost.Currency, it.Cost.Amount)
		}
	}
	return sum
}
