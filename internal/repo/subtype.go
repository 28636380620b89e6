package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/store"
)

// SubtypeRepo stores the type-specific payload of an item. The side table is
// chosen from the payload's variant on write and from the item type on read,
// so a lookup is always exactly one Select.
type SubtypeRepo interface {
	// Save writes details for itemID, replacing any payload already stored.
	Save(ctx context.Context, itemID uuid.UUID, details domain.Subtype) (domain.Subtype, error)

	// Get returns the payload of an item of type t, or domain.ErrNotFound
	// when none was stored.
	Get(ctx context.Context, itemID uuid.UUID, t domain.ItemType) (domain.Subtype, error)
}

type storeSubtypeRepo struct {
	base
}

// NewSubtypeRepo constructs a SubtypeRepo over the given store.
func NewSubtypeRepo(s store.Store, tables store.Tables, opts ...Option) SubtypeRepo {
	return &storeSubtypeRepo{base: newBase(s, tables, opts)}
}

func (r *storeSubtypeRepo) Save(ctx context.Context, itemID uuid.UUID, details domain.Subtype) (domain.Subtype, error) {
	if details == nil {
		return nil, fmt.Errorf("repo.SubtypeRepo.Save: %w: details are required", domain.ErrValidation)
	}
	table, err := r.table(details.ItemType())
	if err != nil {
		return nil, fmt.Errorf("repo.SubtypeRepo.Save: %w", err)
	}

	row := subtypeRow(details)
	byItem := []store.Filter{store.Eq("item_id", itemID)}

	existing, err := r.store.Select(ctx, table, store.Query{Filters: byItem})
	if err != nil {
		return nil, fmt.Errorf("repo.SubtypeRepo.Save: %w", err)
	}

	var rows []store.Row
	if len(existing) > 0 {
		rows, err = r.store.Update(ctx, table, row, byItem)
	} else {
		row["id"] = uuid.New()
		row["item_id"] = itemID
		rows, err = r.store.Insert(ctx, table, row)
	}
	if err != nil {
		return nil, fmt.Errorf("repo.SubtypeRepo.Save: %w", err)
	}

	saved, err := single(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.SubtypeRepo.Save: %w", err)
	}
	result, err := scanSubtype(details.ItemType(), saved)
	if err != nil {
		return nil, fmt.Errorf("repo.SubtypeRepo.Save: %w", err)
	}
	return result, nil
}

func (r *storeSubtypeRepo) Get(ctx context.Context, itemID uuid.UUID, t domain.ItemType) (domain.Subtype, error) {
	table, err := r.table(t)
	if err != nil {
		return nil, fmt.Errorf("repo.SubtypeRepo.Get: %w", err)
	}

	rows, err := r.store.Select(ctx, table, store.Query{Filters: []store.Filter{store.Eq("item_id", itemID)}})
	if err != nil {
		return nil, fmt.Errorf("repo.SubtypeRepo.Get: %w", err)
	}
	row, err := single(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.SubtypeRepo.Get: %w", err)
	}
	result, err := scanSubtype(t, row)
	if err != nil {
		return nil, fmt.Errorf("repo.SubtypeRepo.Get: %w", err)
	}
	return result, nil
}

func (r *storeSubtypeRepo) table(t domain.ItemType) (string, error) {
	switch t {
	case domain.ItemLodging:
		return r.tables.Lodging, nil
	case domain.ItemTravel:
		return r.tables.TravelSegment, nil
	case domain.ItemTransportRental:
		return r.tables.TransportRental, nil
	case domain.ItemEvent:
		return r.tables.EventActivity, nil
	}
	return "", fmt.Errorf("%w: unknown item type %q", domain.ErrValidation, t)
}

// subtypeRow maps the writable columns of a payload. id and item_id are
// added by the caller on insert.
func subtypeRow(details domain.Subtype) store.Row {
	switch d := details.(type) {
	case domain.Lodging:
		return store.Row{
			"place_id":    d.PlaceID,
			"check_in":    d.CheckIn,
			"check_out":   d.CheckOut,
			"provider":    d.Provider,
			"booking_ref": d.BookingRef,
			"room_type":   d.RoomType,
			"guests":      d.Guests,
		}
	case domain.TravelSegment:
		return store.Row{
			"mode":           string(d.Mode),
			"operator":       d.Operator,
			"number":         d.Number,
			"origin_id":      d.OriginID,
			"destination_id": d.DestinationID,
			"depart_time":    d.DepartTime,
			"arrive_time":    d.ArriveTime,
			"seat":           jsonOrNil(d.Seat),
		}
	case domain.TransportRental:
		return store.Row{
			"vehicle":           string(d.Vehicle),
			"vendor":            d.Vendor,
			"confirmation_code": d.ConfirmationCode,
			"pickup_place_id":   d.PickupPlaceID,
			"dropoff_place_id":  d.DropoffPlaceID,
			"pickup_time":       d.PickupTime,
			"dropoff_time":      d.DropoffTime,
		}
	case domain.EventActivity:
		return store.Row{
			"venue_id":  d.VenueID,
			"category":  d.Category,
			"admission": jsonOrNil(d.Admission),
		}
	}
	return store.Row{}
}

// scanSubtype maps a side-table row into the variant for item type t.
func scanSubtype(t domain.ItemType, row store.Row) (domain.Subtype, error) {
	rr := rowReader{row: row}
	var out domain.Subtype
	switch t {
	case domain.ItemLodging:
		out = domain.Lodging{
			PlaceID:    rr.uuidPtr("place_id"),
			CheckIn:    rr.timePtr("check_in"),
			CheckOut:   rr.timePtr("check_out"),
			Provider:   rr.str("provider"),
			BookingRef: rr.str("booking_ref"),
			RoomType:   rr.str("room_type"),
			Guests:     rr.intPtr("guests"),
		}
	case domain.ItemTravel:
		out = domain.TravelSegment{
			Mode:          domain.TravelMode(rr.str("mode")),
			Operator:      rr.str("operator"),
			Number:        rr.str("number"),
			OriginID:      rr.uuidPtr("origin_id"),
			DestinationID: rr.uuidPtr("destination_id"),
			DepartTime:    rr.timePtr("depart_time"),
			ArriveTime:    rr.timePtr("arrive_time"),
			Seat:          rr.object("seat"),
		}
	case domain.ItemTransportRental:
		out = domain.TransportRental{
			Vehicle:          domain.VehicleKind(rr.str("vehicle")),
			Vendor:           rr.str("vendor"),
			ConfirmationCode: rr.str("confirmation_code"),
			PickupPlaceID:    rr.uuidPtr("pickup_place_id"),
			DropoffPlaceID:   rr.uuidPtr("dropoff_place_id"),
			PickupTime:       rr.timePtr("pickup_time"),
			DropoffTime:      rr.timePtr("dropoff_time"),
		}
	case domain.ItemEvent:
		out = domain.EventActivity{
			VenueID:   rr.uuidPtr("venue_id"),
			Category:  rr.str("category"),
			Admission: rr.object("admission"),
		}
	default:
		return nil, errors.New("unknown item type " + string(t))
	}
	if rr.err != nil {
		return nil, rr.err
	}
	return out, nil
}
