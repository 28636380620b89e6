// Package seed loads the demo trip used when the API runs on the in-memory
// store.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/service"
)

// Services are the services the demo data is written through, so it passes
// the same validation as API traffic.
type Services struct {
	Trips  *service.TripService
	Items  *service.ItemService
	Budget *service.BudgetService
}

// Result identifies what LAGetaway created.
type Result struct {
	Trip   domain.Trip
	Flight domain.ItineraryEntry
	Hotel  domain.ItineraryEntry
	Budget domain.BudgetEntry
}

// LAGetaway creates a five-day Los Angeles trip for owner starting on start:
// a flight from New York with its travel segment, a hotel stay with its
// lodging details and a budget line for the hotel.
func LAGetaway(ctx context.Context, svc Services, owner uuid.UUID, start time.Time) (Result, error) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		return Result{}, fmt.Errorf("seed.LAGetaway: %w", err)
	}
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		return Result{}, fmt.Errorf("seed.LAGetaway: %w", err)
	}
	y, m, d := start.Date()
	day := func(offset int) *time.Time {
		t := time.Date(y, m, d+offset, 0, 0, 0, 0, time.UTC)
		return &t
	}
	at := func(offset, hour, minute int, loc *time.Location) *time.Time {
		t := time.Date(y, m, d+offset, hour, minute, 0, 0, loc)
		return &t
	}
	usd := func(amount string) *domain.Money {
		return &domain.Money{Amount: decimal.RequireFromString(amount), Currency: "USD"}
	}

	var res Result
	res.Trip, err = svc.Trips.Create(ctx, owner, domain.Trip{
		Title:        "LA Getaway",
		StartDate:    day(0),
		EndDate:      day(5),
		HomeCurrency: "USD",
		TimeZone:     "America/Los_Angeles",
		Notes:        "Seed trip",
	})
	if err != nil {
		return Result{}, fmt.Errorf("seed.LAGetaway: trip: %w", err)
	}

	depart, arrive := at(0, 8, 30, ny), at(0, 11, 45, la)
	res.Flight, err = svc.Items.Create(ctx, owner, res.Trip.ID, domain.Item{
		Type:      domain.ItemTravel,
		Name:      "NYC → LAX",
		Link:      "https://airline.example/ABC123",
		Cost:      usd("328.50"),
		StartTime: depart,
		EndTime:   arrive,
		Status:    domain.StatusConfirmed,
		Notes:     "1 checked bag",
	}, domain.TravelSegment{
		Mode:       domain.ModeFlight,
		Operator:   "Delta",
		Number:     "DL123",
		DepartTime: depart,
		ArriveTime: arrive,
		Seat:       map[string]any{"row": 12, "seat": "A"},
	})
	if err != nil {
		return Result{}, fmt.Errorf("seed.LAGetaway: flight: %w", err)
	}

	guests := 2
	res.Hotel, err = svc.Items.Create(ctx, owner, res.Trip.ID, domain.Item{
		Type:      domain.ItemLodging,
		Name:      "Hotel Aurora",
		Link:      "https://hotel.example/booking/XYZ",
		Cost:      usd("612.00"),
		StartTime: at(0, 15, 0, la),
		EndTime:   at(4, 11, 0, la),
	}, domain.Lodging{
		CheckIn:    day(0),
		CheckOut:   day(4),
		Provider:   "Booking.com",
		BookingRef: "XYZ-999",
		RoomType:   "King",
		Guests:     &guests,
	})
	if err != nil {
		return Result{}, fmt.Errorf("seed.LAGetaway: hotel: %w", err)
	}

	hotelID := res.Hotel.Item.ID
	res.Budget, err = svc.Budget.CreateEntry(ctx, owner, res.Trip.ID, domain.BudgetEntry{
		ItemID:   &hotelID,
		Category: "lodging",
		Amount:   decimal.RequireFromString("612.00"),
		Currency: "USD",
	})
	if err != nil {
		return Result{}, fmt.Errorf("seed.LAGetaway: budget: %w", err)
	}
	return res, nil
}
