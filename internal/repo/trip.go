package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/store"
)

// TripRepo defines the persistence operations for trips. Every read and
// write is scoped to the owning identity: a trip owned by someone else is
// indistinguishable from one that does not exist.
type TripRepo interface {
	// Create inserts a new trip and returns the stored record.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID returns the owner's trip. Returns domain.ErrNotFound otherwise.
	GetByID(ctx context.Context, owner, id uuid.UUID) (domain.Trip, error)

	// ListByOwner returns the owner's trips, oldest first.
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]domain.Trip, error)

	// Update applies patch to the owner's trip. An empty patch fails with
	// domain.ErrInvalidRequest; a missing trip with domain.ErrNotFound.
	Update(ctx context.Context, owner, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
}

type storeTripRepo struct {
	base
}

// NewTripRepo constructs a TripRepo over the given store.
func NewTripRepo(s store.Store, tables store.Tables, opts ...Option) TripRepo {
	return &storeTripRepo{base: newBase(s, tables, opts)}
}

func (r *storeTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.OwnerID == uuid.Nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w: owner is required", domain.ErrValidation)
	}
	if err := required("title", trip.Title); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	if trip.HomeCurrency == "" {
		trip.HomeCurrency = domain.DefaultCurrency
	}

	now := r.timestamp()
	row := store.Row{
		"id":            uuid.New(),
		"owner_user_id": trip.OwnerID,
		"title":         trip.Title,
		"description":   trip.Description,
		"start_date":    trip.StartDate,
		"end_date":      trip.EndDate,
		"home_currency": trip.HomeCurrency,
		"time_zone":     trip.TimeZone,
		"notes":         trip.Notes,
		"created_at":    now,
		"updated_at":    now,
	}

	rows, err := r.store.Insert(ctx, r.tables.Trip, row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	result, err := firstTrip(rows)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *storeTripRepo) GetByID(ctx context.Context, owner, id uuid.UUID) (domain.Trip, error) {
	rows, err := r.store.Select(ctx, r.tables.Trip, store.Query{Filters: []store.Filter{
		store.Eq("id", id),
		store.Eq("owner_user_id", owner),
	}})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	result, err := firstTrip(rows)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *storeTripRepo) ListByOwner(ctx context.Context, owner uuid.UUID) ([]domain.Trip, error) {
	rows, err := r.store.Select(ctx, r.tables.Trip, store.Query{
		Filters: []store.Filter{store.Eq("owner_user_id", owner)},
		OrderBy: "created_at",
	})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: %w", err)
	}

	trips := make([]domain.Trip, 0, len(rows))
	for _, row := range rows {
		t, err := scanTrip(row)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByOwner: %w", err)
		}
		trips = append(trips, t)
	}
	return trips, nil
}

func (r *storeTripRepo) Update(ctx context.Context, owner, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	if patch.IsEmpty() {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w: no data to update", domain.ErrInvalidRequest)
	}

	row := store.Row{"updated_at": r.timestamp()}
	setIf(row, "title", patch.Title)
	setIf(row, "description", patch.Description)
	setIf(row, "home_currency", patch.HomeCurrency)
	setIf(row, "time_zone", patch.TimeZone)
	setIf(row, "notes", patch.Notes)
	if patch.StartDate != nil {
		row["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		row["end_date"] = *patch.EndDate
	}

	rows, err := r.store.Update(ctx, r.tables.Trip, row, []store.Filter{
		store.Eq("id", id),
		store.Eq("owner_user_id", owner),
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	result, err := firstTrip(rows)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func firstTrip(rows []store.Row) (domain.Trip, error) {
	row, err := single(rows)
	if err != nil {
		return domain.Trip{}, err
	}
	return scanTrip(row)
}

// scanTrip maps a store row into a domain.Trip.
func scanTrip(row store.Row) (domain.Trip, error) {
	rr := rowReader{row: row}
	t := domain.Trip{
		ID:           rr.uuid("id"),
		OwnerID:      rr.uuid("owner_user_id"),
		Title:        rr.str("title"),
		Description:  rr.str("description"),
		StartDate:    rr.timePtr("start_date"),
		EndDate:      rr.timePtr("end_date"),
		HomeCurrency: rr.str("home_currency"),
		TimeZone:     rr.str("time_zone"),
		Notes:        rr.str("notes"),
		CreatedAt:    rr.time("created_at"),
		UpdatedAt:    rr.time("updated_at"),
	}
	if rr.err != nil {
		return domain.Trip{}, rr.err
	}
	return t, nil
}

// setIf copies *v into row[col] when v is set.
func setIf[T any](row store.Row, col string, v *T) {
	if v != nil {
		row[col] = *v
	}
}
