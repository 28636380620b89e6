package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/store"
)

// TicketRepo defines the persistence operations for ticket links.
type TicketRepo interface {
	Create(ctx context.Context, link domain.TicketLink) (domain.TicketLink, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.TicketLink, error)
}

type storeTicketRepo struct {
	base
}

// NewTicketRepo constructs a TicketRepo over the given store.
func NewTicketRepo(s store.Store, tables store.Tables, opts ...Option) TicketRepo {
	return &storeTicketRepo{base: newBase(s, tables, opts)}
}

func (r *storeTicketRepo) Create(ctx context.Context, link domain.TicketLink) (domain.TicketLink, error) {
	if link.ItemID == uuid.Nil {
		return domain.TicketLink{}, fmt.Errorf("repo.TicketRepo.Create: %w: item_id is required", domain.ErrValidation)
	}
	if err := required("url", link.URL); err != nil {
		return domain.TicketLink{}, fmt.Errorf("repo.TicketRepo.Create: %w", err)
	}

	rows, err := r.store.Insert(ctx, r.tables.TicketLink, store.Row{
		"id":         uuid.New(),
		"item_id":    link.ItemID,
		"url":        link.URL,
		"type":       link.Type,
		"created_at": r.timestamp(),
	})
	if err != nil {
		return domain.TicketLink{}, fmt.Errorf("repo.TicketRepo.Create: %w", err)
	}
	saved, err := single(rows)
	if err != nil {
		return domain.TicketLink{}, fmt.Errorf("repo.TicketRepo.Create: %w", err)
	}
	result, err := scanTicketLink(saved)
	if err != nil {
		return domain.TicketLink{}, fmt.Errorf("repo.TicketRepo.Create: %w", err)
	}
	return result, nil
}

func (r *storeTicketRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.TicketLink, error) {
	rows, err := r.store.Select(ctx, r.tables.TicketLink, store.Query{
		Filters: []store.Filter{store.Eq("item_id", itemID)},
		OrderBy: "created_at",
	})
	if err != nil {
		return nil, fmt.Errorf("repo.TicketRepo.ListByItem: %w", err)
	}

	links := make([]domain.TicketLink, 0, len(rows))
	for _, row := range rows {
		l, err := scanTicketLink(row)
		if err != nil {
			return nil, fmt.Errorf("repo.TicketRepo.ListByItem: %w", err)
		}
		links = append(links, l)
	}
	return links, nil
}

func scanTicketLink(row store.Row) (domain.TicketLink, error) {
	rr := rowReader{row: row}
	l := domain.TicketLink{
		ID:        rr.uuid("id"),
		ItemID:    rr.uuid("item_id"),
		URL:       rr.str("url"),
		Type:      rr.str("type"),
		CreatedAt: rr.time("created_at"),
	}
	if rr.err != nil {
		return domain.TicketLink{}, rr.err
	}
	return l, nil
}
