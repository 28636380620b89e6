package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/store"
)

// ItemRepo defines the persistence operations for itinerary items.
// Ownership is checked by the service against the item's trip; writes are
// additionally filtered on trip_id so an item can only change under the trip
// the caller was authorised for.
type ItemRepo interface {
	Create(ctx context.Context, item domain.Item) (domain.Item, error)

	// GetByID returns domain.ErrNotFound when no item has that id.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Item, error)

	// ListByTrip returns the trip's items ascending by start_time, undated last.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Item, error)

	// Update applies patch to the item with id under tripID.
	Update(ctx context.Context, tripID, id uuid.UUID, patch domain.ItemPatch) (domain.Item, error)
}

type storeItemRepo struct {
	base
}

// NewItemRepo constructs an ItemRepo over the given store.
func NewItemRepo(s store.Store, tables store.Tables, opts ...Option) ItemRepo {
	return &storeItemRepo{base: newBase(s, tables, opts)}
}

func (r *storeItemRepo) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	if item.TripID == uuid.Nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: %w: trip_id is required", domain.ErrValidation)
	}
	if err := required("type", string(item.Type), "name", item.Name); err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: %w", err)
	}
	if item.Status == "" {
		item.Status = domain.StatusPlanned
	}

	now := r.timestamp()
	row := store.Row{
		"id":         uuid.New(),
		"trip_id":    item.TripID,
		"type":       string(item.Type),
		"name":       item.Name,
		"link":       item.Link,
		"start_time": item.StartTime,
		"end_time":   item.EndTime,
		"all_day":    item.AllDay,
		"status":     string(item.Status),
		"notes":      item.Notes,
		"created_at": now,
		"updated_at": now,
	}
	setCost(row, item.Cost)

	rows, err := r.store.Insert(ctx, r.tables.Item, row)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: %w", err)
	}
	result, err := firstItem(rows)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: %w", err)
	}
	return result, nil
}

func (r *storeItemRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	rows, err := r.store.Select(ctx, r.tables.Item, store.Query{Filters: []store.Filter{store.Eq("id", id)}})
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.GetByID: %w", err)
	}
	result, err := firstItem(rows)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *storeItemRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Item, error) {
	rows, err := r.store.Select(ctx, r.tables.Item, store.Query{
		Filters: []store.Filter{store.Eq("trip_id", tripID)},
		OrderBy: "start_time",
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByTrip: %w", err)
	}

	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		it, err := scanItem(row)
		if err != nil {
			return nil, fmt.Errorf("repo.ItemRepo.ListByTrip: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (r *storeItemRepo) Update(ctx context.Context, tripID, id uuid.UUID, patch domain.ItemPatch) (domain.Item, error) {
	if patch.IsEmpty() {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Update: %w: no data to update", domain.ErrInvalidRequest)
	}

	row := store.Row{"updated_at": r.timestamp()}
	setIf(row, "name", patch.Name)
	setIf(row, "link", patch.Link)
	setIf(row, "start_time", patch.StartTime)
	setIf(row, "end_time", patch.EndTime)
	setIf(row, "all_day", patch.AllDay)
	setIf(row, "notes", patch.Notes)
	if patch.Status != nil {
		row["status"] = string(*patch.Status)
	}
	setCost(row, patch.Cost)

	rows, err := r.store.Update(ctx, r.tables.Item, row, []store.Filter{
		store.Eq("id", id),
		store.Eq("trip_id", tripID),
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Update: %w", err)
	}
	result, err := firstItem(rows)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Update: %w", err)
	}
	return result, nil
}

func setCost(row store.Row, cost *domain.Money) {
	if cost == nil {
		return
	}
	row["cost_amount"] = cost.Amount
	row["cost_currency"] = cost.Currency
}

func firstItem(rows []store.Row) (domain.Item, error) {
	row, err := single(rows)
	if err != nil {
		return domain.Item{}, err
	}
	return scanItem(row)
}

// scanItem maps a store row into a domain.Item. A cost is present only when
// both amount and currency columns are set.
func scanItem(row store.Row) (domain.Item, error) {
	rr := rowReader{row: row}
	it := domain.Item{
		ID:        rr.uuid("id"),
		TripID:    rr.uuid("trip_id"),
		Type:      domain.ItemType(rr.str("type")),
		Name:      rr.str("name"),
		Link:      rr.str("link"),
		StartTime: rr.timePtr("start_time"),
		EndTime:   rr.timePtr("end_time"),
		AllDay:    rr.boolean("all_day"),
		Status:    domain.ItemStatus(rr.str("status")),
		Notes:     rr.str("notes"),
		CreatedAt: rr.time("created_at"),
		UpdatedAt: rr.time("updated_at"),
	}
	amount := rr.decimalPtr("cost_amount")
	currency := rr.str("cost_currency")
	if rr.err != nil {
		return domain.Item{}, rr.err
	}
	if amount != nil && currency != "" {
		it.Cost = &domain.Money{Amount: *amount, Currency: currency}
	}
	return it, nil
}
