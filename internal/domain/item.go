package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType names the kind of an itinerary item. The type also selects which
// side table holds the item's subtype payload.
type ItemType string

const (
	ItemLodging         ItemType = "lodging"
	ItemTravel          ItemType = "travel"
	ItemTransportRental ItemType = "transport_rental"
	ItemEvent           ItemType = "event"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemLodging, ItemTravel, ItemTransportRental, ItemEvent:
		return true
	}
	return false
}

// ItemStatus tracks where an item is in its booking lifecycle.
type ItemStatus string

const (
	StatusPlanned   ItemStatus = "planned"
	StatusConfirmed ItemStatus = "confirmed"
	StatusCanceled  ItemStatus = "canceled"
)

// Valid reports whether s is one of the known statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusConfirmed, StatusCanceled:
		return true
	}
	return false
}

// Money is an amount in a single currency. Amounts in different currencies
// are never added together.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// Item is one scheduled thing on a trip: a night's lodging, a flight, a car
// rental or an event.
type Item struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Type      ItemType
	Name      string
	Link      string
	Cost      *Money // nil when the item has no embedded cost
	StartTime *time.Time
	EndTime   *time.Time
	AllDay    bool
	Status    ItemStatus
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveTime is the instant used to place the item on the timeline:
// StartTime when set, otherwise EndTime. Nil means the item is undated.
func (i Item) EffectiveTime() *time.Time {
	if i.StartTime != nil {
		return i.StartTime
	}
	return i.EndTime
}

// ItemPatch lists the mutable fields of an item. Type and TripID are fixed
// at creation.
type ItemPatch struct {
	Name      *string
	Link      *string
	Cost      *Money
	StartTime *time.Time
	EndTime   *time.Time
	AllDay    *bool
	Status    *ItemStatus
	Notes     *string
}

// IsEmpty reports whether the patch would change nothing.
func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Link == nil && p.Cost == nil && p.StartTime == nil &&
		p.EndTime == nil && p.AllDay == nil && p.Status == nil && p.Notes == nil
}

// Apply returns a copy of it with the patch's set fields written over it.
func (p ItemPatch) Apply(it Item) Item {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Link != nil {
		it.Link = *p.Link
	}
	if p.Cost != nil {
		c := *p.Cost
		it.Cost = &c
	}
	if p.StartTime != nil {
		it.StartTime = p.StartTime
	}
	if p.EndTime != nil {
		it.EndTime = p.EndTime
	}
	if p.AllDay != nil {
		it.AllDay = *p.AllDay
	}
	if p.Status != nil {
		it.Status = *p.Status
	}
	if p.Notes != nil {
		it.Notes = *p.Notes
	}
	return it
}
