// Package service contains the business logic of the Atlas planner.
// Services validate input, enforce ownership and orchestrate repository
// calls; the itinerary and budget aggregators and the export pipeline also
// live here. No store access happens outside the repo interfaces.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/repo"
)

// TripService implements business logic for trips.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip owned by owner.
func (s *TripService) Create(ctx context.Context, owner uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	trip.OwnerID = owner
	trip.Title = strings.TrimSpace(trip.Title)
	trip.StartDate = dateOnly(trip.StartDate)
	trip.EndDate = dateOnly(trip.EndDate)
	if trip.HomeCurrency == "" {
		trip.HomeCurrency = domain.DefaultCurrency
	}

	if err := validateTrip(&trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// Get returns one of the owner's trips.
func (s *TripService) Get(ctx context.Context, owner, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, owner, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trip, nil
}

// List returns the owner's trips. The slice is never nil.
func (s *TripService) List(ctx context.Context, owner uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// Update validates patch against the stored trip and applies it. Only the
// fields named in the patch are checked, plus the date order of the merged
// record; untouched stored values are never re-validated.
func (s *TripService) Update(ctx context.Context, owner, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	if patch.IsEmpty() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w: no data to update", domain.ErrInvalidRequest)
	}

	patch.StartDate = dateOnly(patch.StartDate)
	patch.EndDate = dateOnly(patch.EndDate)
	if err := validateTripPatch(&patch); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	current, err := s.repo.GetByID(ctx, owner, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	if patch.StartDate != nil || patch.EndDate != nil {
		merged := patch.Apply(current)
		if err := checkOrder("start_date", merged.StartDate, "end_date", merged.EndDate); err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
		}
	}

	updated, err := s.repo.Update(ctx, owner, id, patch)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// validateTripPatch checks and normalises the fields a patch sets.
func validateTripPatch(p *domain.TripPatch) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return invalid("title is required")
		}
		p.Title = &title
	}
	if p.HomeCurrency != nil {
		cur, err := normalizeCurrency("home_currency", *p.HomeCurrency)
		if err != nil {
			return err
		}
		p.HomeCurrency = &cur
	}
	if p.TimeZone != nil {
		if err := checkTimeZone(*p.TimeZone); err != nil {
			return err
		}
	}
	return checkOrder("start_date", p.StartDate, "end_date", p.EndDate)
}

// validateTrip checks the trip's business rules and normalises its currency.
func validateTrip(t *domain.Trip) error {
	if t.Title == "" {
		return invalid("title is required")
	}
	if err := checkOrder("start_date", t.StartDate, "end_date", t.EndDate); err != nil {
		return err
	}
	cur, err := normalizeCurrency("home_currency", t.HomeCurrency)
	if err != nil {
		return err
	}
	t.HomeCurrency = cur
	return checkTimeZone(t.TimeZone)
}
