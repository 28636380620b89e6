package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subtype is the type-specific payload of an itinerary item. It is a closed
// set: Lodging, TravelSegment, TransportRental and EventActivity are the only
// implementations, each matching exactly one ItemType.
type Subtype interface {
	ItemType() ItemType
	isSubtype()
}

// TravelMode is the means of a travel segment.
type TravelMode string

const (
	ModeFlight TravelMode = "flight"
	ModeTrain  TravelMode = "train"
	ModeFerry  TravelMode = "ferry"
	ModeCar    TravelMode = "car"
	ModeBus    TravelMode = "bus"
	ModeWalk   TravelMode = "walk"
	ModeOther  TravelMode = "other"
)

// Valid reports whether m is a known travel mode.
func (m TravelMode) Valid() bool {
	switch m {
	case ModeFlight, ModeTrain, ModeFerry, ModeCar, ModeBus, ModeWalk, ModeOther:
		return true
	}
	return false
}

// VehicleKind is the vehicle of a transport rental.
type VehicleKind string

const (
	VehicleCar     VehicleKind = "car"
	VehicleBoat    VehicleKind = "boat"
	VehicleBicycle VehicleKind = "bicycle"
	VehicleScooter VehicleKind = "scooter"
	VehicleRV      VehicleKind = "rv"
	VehicleOther   VehicleKind = "other"
)

// Valid reports whether v is a known vehicle kind.
func (v VehicleKind) Valid() bool {
	switch v {
	case VehicleCar, VehicleBoat, VehicleBicycle, VehicleScooter, VehicleRV, VehicleOther:
		return true
	}
	return false
}

// Lodging holds the details of a lodging item.
type Lodging struct {
	PlaceID    *uuid.UUID
	CheckIn    *time.Time
	CheckOut   *time.Time
	Provider   string
	BookingRef string
	RoomType   string
	Guests     *int
}

// TravelSegment holds the details of a travel item.
type TravelSegment struct {
	Mode          TravelMode
	Operator      string
	Number        string
	OriginID      *uuid.UUID
	DestinationID *uuid.UUID
	DepartTime    *time.Time
	ArriveTime    *time.Time
	Seat          map[string]any
}

// TransportRental holds the details of a transport_rental item.
type TransportRental struct {
	Vehicle          VehicleKind
	Vendor           string
	ConfirmationCode string
	PickupPlaceID    *uuid.UUID
	DropoffPlaceID   *uuid.UUID
	PickupTime       *time.Time
	DropoffTime      *time.Time
}

// EventActivity holds the details of an event item.
type EventActivity struct {
	VenueID   *uuid.UUID
	Category  string
	Admission map[string]any
}

func (Lodging) ItemType() ItemType         { return ItemLodging }
func (TravelSegment) ItemType() ItemType   { return ItemTravel }
func (TransportRental) ItemType() ItemType { return ItemTransportRental }
func (EventActivity) ItemType() ItemType   { return ItemEvent }

func (Lodging) isSubtype()         {}
func (TravelSegment) isSubtype()   {}
func (TransportRental) isSubtype() {}
func (EventActivity) isSubtype()   {}
