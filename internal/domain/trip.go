// Package domain contains the core data types for the Atlas travel planner.
// It depends only on uuid and decimal and is imported by every other
// internal package (store, repo, service, render, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is applied to trips created without a home currency.
const DefaultCurrency = "USD"

// Trip is the top-level planning aggregate. Items, budget entries and
// required documents all belong to a trip, and a trip belongs to exactly one
// owner identity. Trips are never hard-deleted.
type Trip struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Title        string
	Description  string
	StartDate    *time.Time // calendar date, nil when undecided
	EndDate      *time.Time
	HomeCurrency string
	TimeZone     string // IANA zone name, empty when unknown
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Location returns the trip's time zone. Trips without a zone, or with one
// the runtime does not know, use UTC so dates never depend on the offset a
// store hands back.
func (t Trip) Location() *time.Location {
	if t.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TripPatch lists the fields of a trip that may be changed after creation.
// A nil pointer means "leave unchanged"; patches never write nulls.
type TripPatch struct {
	Title        *string
	Description  *string
	StartDate    *time.Time
	EndDate      *time.Time
	HomeCurrency *string
	TimeZone     *string
	Notes        *string
}

// IsEmpty reports whether the patch would change nothing.
func (p TripPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.StartDate == nil &&
		p.EndDate == nil && p.HomeCurrency == nil && p.TimeZone == nil && p.Notes == nil
}

// Apply returns a copy of t with the patch's set fields written over it.
func (p TripPatch) Apply(t Trip) Trip {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.StartDate != nil {
		t.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = p.EndDate
	}
	if p.HomeCurrency != nil {
		t.HomeCurrency = *p.HomeCurrency
	}
	if p.TimeZone != nil {
		t.TimeZone = *p.TimeZone
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	return t
}
