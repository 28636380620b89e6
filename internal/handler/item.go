package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
)

// CreateItemRequest is the body of POST /trips/{tripID}/items. Details is
// decoded according to Type.
type CreateItemRequest struct {
	Type         domain.ItemType   `json:"type"`
	Name         string            `json:"name"`
	Link         string            `json:"link,omitempty"`
	CostAmount   *Amount           `json:"cost_amount,omitempty"`
	CostCurrency *string           `json:"cost_currency,omitempty"`
	StartTime    *time.Time        `json:"start_time,omitempty"`
	EndTime      *time.Time        `json:"end_time,omitempty"`
	AllDay       bool              `json:"all_day,omitempty"`
	Status       domain.ItemStatus `json:"status,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	Details      json.RawMessage   `json:"details,omitempty"`
}

// UpdateItemRequest is the body of PATCH /items/{itemID}.
type UpdateItemRequest struct {
	Name         *string            `json:"name,omitempty"`
	Link         *string            `json:"link,omitempty"`
	CostAmount   *Amount            `json:"cost_amount,omitempty"`
	CostCurrency *string            `json:"cost_currency,omitempty"`
	StartTime    *time.Time         `json:"start_time,omitempty"`
	EndTime      *time.Time         `json:"end_time,omitempty"`
	AllDay       *bool              `json:"all_day,omitempty"`
	Status       *domain.ItemStatus `json:"status,omitempty"`
	Notes        *string            `json:"notes,omitempty"`
}

// LodgingDetails is the wire form of domain.Lodging.
type LodgingDetails struct {
	PlaceID    *uuid.UUID `json:"place_id,omitempty"`
	CheckIn    *time.Time `json:"check_in,omitempty"`
	CheckOut   *time.Time `json:"check_out,omitempty"`
	Provider   string     `json:"provider,omitempty"`
	BookingRef string     `json:"booking_ref,omitempty"`
	RoomType   string     `json:"room_type,omitempty"`
	Guests     *int       `json:"guests,omitempty"`
}

// TravelDetails is the wire form of domain.TravelSegment.
type TravelDetails struct {
	Mode          domain.TravelMode `json:"mode"`
	Operator      string            `json:"operator,omitempty"`
	Number        string            `json:"number,omitempty"`
	OriginID      *uuid.UUID        `json:"origin_id,omitempty"`
	DestinationID *uuid.UUID        `json:"destination_id,omitempty"`
	DepartTime    *time.Time        `json:"depart_time,omitempty"`
	ArriveTime    *time.Time        `json:"arrive_time,omitempty"`
	Seat          map[string]any    `json:"seat,omitempty"`
}

// RentalDetails is the wire form of domain.TransportRental.
type RentalDetails struct {
	Vehicle          domain.VehicleKind `json:"vehicle"`
	Vendor           string             `json:"vendor,omitempty"`
	ConfirmationCode string             `json:"confirmation_code,omitempty"`
	PickupPlaceID    *uuid.UUID         `json:"pickup_place_id,omitempty"`
	DropoffPlaceID   *uuid.UUID         `json:"dropoff_place_id,omitempty"`
	PickupTime       *time.Time         `json:"pickup_time,omitempty"`
	DropoffTime      *time.Time         `json:"dropoff_time,omitempty"`
}

// EventDetails is the wire form of domain.EventActivity.
type EventDetails struct {
	VenueID   *uuid.UUID     `json:"venue_id,omitempty"`
	Category  string         `json:"category,omitempty"`
	Admission map[string]any `json:"admission,omitempty"`
}

// Item is the response representation of an itinerary item.
type Item struct {
	ID           uuid.UUID         `json:"id"`
	TripID       uuid.UUID         `json:"trip_id"`
	Type         domain.ItemType   `json:"type"`
	Name         string            `json:"name"`
	Link         string            `json:"link"`
	CostAmount   *Amount           `json:"cost_amount"`
	CostCurrency *string           `json:"cost_currency"`
	StartTime    *time.Time        `json:"start_time"`
	EndTime      *time.Time        `json:"end_time"`
	AllDay       bool              `json:"all_day"`
	Status       domain.ItemStatus `json:"status"`
	Notes        string            `json:"notes"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ItineraryEntry is an item with its details and ticket links.
type ItineraryEntry struct {
	Item
	Details any          `json:"details"`
	Tickets []TicketLink `json:"tickets"`
}

// TicketLinkRequest is the body of POST /items/{itemID}/tickets.
type TicketLinkRequest struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// TicketLink is the response representation of a ticket link.
type TicketLink struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// AttachmentRequest is the body of POST /items/{itemID}/attachments.
type AttachmentRequest struct {
	FilePath string `json:"file_path"`
	MIME     string `json:"mime,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// Attachment is the response representation of attachment metadata.
type Attachment struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	ItemID    *uuid.UUID `json:"item_id"`
	FilePath  string     `json:"file_path"`
	MIME      string     `json:"mime"`
	Size      int64      `json:"size"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateItem handles POST /trips/{tripID}/items.
func (s *Server) CreateItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathID(w, r, "tripID")
	if !ok {
		return
	}
	var body CreateItemRequest
	if !s.decode(w, r, &body) {
		return
	}
	item, err := requestToItem(body)
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	details, err := decodeDetails(body.Type, body.Details)
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}

	entry, err := s.items.Create(r.Context(), owner, tripID, item, details)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, entryToResponse(entry))
}

// GetItem handles GET /items/{itemID}.
func (s *Server) GetItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "itemID")
	if !ok {
		return
	}

	entry, err := s.items.Get(r.Context(), owner, id)
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(entry))
}

// UpdateItem handles PATCH /items/{itemID}.
func (s *Server) UpdateItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "itemID")
	if !ok {
		return
	}
	var body UpdateItemRequest
	if !s.decode(w, r, &body) {
		return
	}

	cost, err := costToDomain(body.CostAmount, body.CostCurrency)
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}

	updated, err := s.items.Update(r.Context(), owner, id, domain.ItemPatch{
		Name:      body.Name,
		Link:      body.Link,
		Cost:      cost,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		AllDay:    body.AllDay,
		Status:    body.Status,
		Notes:     body.Notes,
	})
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(updated))
}

// SaveItemDetails handles PUT /items/{itemID}/details. The body is the
// details object for the item's type; it replaces any stored details.
func (s *Server) SaveItemDetails(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "itemID")
	if !ok {
		return
	}
	var raw json.RawMessage
	if !s.decode(w, r, &raw) {
		return
	}

	entry, err := s.items.Get(r.Context(), owner, id)
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	details, err := decodeDetails(entry.Item.Type, raw)
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	saved, err := s.items.SaveDetails(r.Context(), owner, id, details)
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	writeJSON(w, http.StatusOK, detailsToResponse(saved))
}

// AddTicket handles POST /items/{itemID}/tickets.
func (s *Server) AddTicket(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "itemID")
	if !ok {
		return
	}
	var body TicketLinkRequest
	if !s.decode(w, r, &body) {
		return
	}

	link, err := s.items.AddTicket(r.Context(), owner, id, domain.TicketLink{URL: body.URL, Type: body.Type})
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	writeJSON(w, http.StatusCreated, ticketToResponse(link))
}

// ListTickets handles GET /items/{itemID}/tickets.
func (s *Server) ListTickets(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "itemID")
	if !ok {
		return
	}

	links, err := s.items.ListTickets(r.Context(), owner, id)
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]TicketLink{"data": ticketsToResponse(links)})
}

// AddAttachment handles POST /items/{itemID}/attachments. Only metadata is
// recorded; the file itself lives in external storage.
func (s *Server) AddAttachment(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "itemID")
	if !ok {
		return
	}
	var body AttachmentRequest
	if !s.decode(w, r, &body) {
		return
	}

	a, err := s.items.AddAttachment(r.Context(), owner, id, domain.Attachment{FilePath: body.FilePath, MIME: body.MIME, Size: body.Size})
	if err != nil {
		s.fail(w, r, err, "item")
		return
	}
	writeJSON(w, http.StatusCreated, Attachment{
		ID:        a.ID,
		OwnerID:   a.OwnerID,
		ItemID:    a.ItemID,
		FilePath:  a.FilePath,
		MIME:      a.MIME,
		Size:      a.Size,
		CreatedAt: a.CreatedAt,
	})
}

// --- mapping helpers --------------------------------------------------------

// decodeDetails decodes raw into the details type matching t. An absent or
// null payload yields nil.
func decodeDetails(t domain.ItemType, raw json.RawMessage) (domain.Subtype, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	strict := func(dst any) error {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil {
			return fmt.Errorf("%w: details do not match item type %s: %v", domain.ErrValidation, t, err)
		}
		return nil
	}

	switch t {
	case domain.ItemLodging:
		var d LodgingDetails
		if err := strict(&d); err != nil {
			return nil, err
		}
		return domain.Lodging(d), nil
	case domain.ItemTravel:
		var d TravelDetails
		if err := strict(&d); err != nil {
			return nil, err
		}
		return domain.TravelSegment(d), nil
	case domain.ItemTransportRental:
		var d RentalDetails
		if err := strict(&d); err != nil {
			return nil, err
		}
		return domain.TransportRental(d), nil
	case domain.ItemEvent:
		var d EventDetails
		if err := strict(&d); err != nil {
			return nil, err
		}
		return domain.EventActivity(d), nil
	}
	return nil, fmt.Errorf("%w: type must be one of lodging, travel, transport_rental, event", domain.ErrValidation)
}

func detailsToResponse(d domain.Subtype) any {
	switch v := d.(type) {
	case domain.Lodging:
		return LodgingDetails(v)
	case domain.TravelSegment:
		return TravelDetails(v)
	case domain.TransportRental:
		return RentalDetails(v)
	case domain.EventActivity:
		return EventDetails(v)
	}
	return nil
}

func requestToItem(body CreateItemRequest) (domain.Item, error) {
	cost, err := costToDomain(body.CostAmount, body.CostCurrency)
	if err != nil {
		return domain.Item{}, err
	}
	return domain.Item{
		Type:      body.Type,
		Name:      body.Name,
		Link:      body.Link,
		Cost:      cost,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		AllDay:    body.AllDay,
		Status:    body.Status,
		Notes:     body.Notes,
	}, nil
}

func itemToResponse(it domain.Item) Item {
	amount, currency := costToResponse(it.Cost)
	return Item{
		ID:           it.ID,
		TripID:       it.TripID,
		Type:         it.Type,
		Name:         it.Name,
		Link:         it.Link,
		CostAmount:   amount,
		CostCurrency: currency,
		StartTime:    it.StartTime,
		EndTime:      it.EndTime,
		AllDay:       it.AllDay,
		Status:       it.Status,
		Notes:        it.Notes,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func entryToResponse(e domain.ItineraryEntry) ItineraryEntry {
	return ItineraryEntry{
		Item:    itemToResponse(e.Item),
		Details: detailsToResponse(e.Details),
		Tickets: ticketsToResponse(e.Tickets),
	}
}

func ticketToResponse(l domain.TicketLink) TicketLink {
	return TicketLink{ID: l.ID, ItemID: l.ItemID, URL: l.URL, Type: l.Type, CreatedAt: l.CreatedAt}
}

func ticketsToResponse(links []domain.TicketLink) []TicketLink {
	out := make([]TicketLink, len(links))
	for i, l := range links {
		out[i] = ticketToResponse(l)
	}
	return out
}
