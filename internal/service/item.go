package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/repo"
)

// ItemService implements business logic for itinerary items and the records
// hanging off them: subtype payloads, ticket links and attachments.
// An item is visible to a caller only through a trip the caller owns.
type ItemService struct {
	trips       repo.TripRepo
	items       repo.ItemRepo
	subtypes    repo.SubtypeRepo
	tickets     repo.TicketRepo
	attachments repo.AttachmentRepo
}

// NewItemService constructs an ItemService from the bundled repositories.
func NewItemService(r repo.Repos) *ItemService {
	return &ItemService{
		trips:       r.Trips,
		items:       r.Items,
		subtypes:    r.Subtypes,
		tickets:     r.Tickets,
		attachments: r.Attachments,
	}
}

// Create validates and persists an item on the owner's trip, then its subtype
// payload when one is given. The two writes are not atomic: when the payload
// write fails the item remains and a *domain.PartialWriteError is returned.
func (s *ItemService) Create(ctx context.Context, owner, tripID uuid.UUID, item domain.Item, details domain.Subtype) (domain.ItineraryEntry, error) {
	if _, err := s.trips.GetByID(ctx, owner, tripID); err != nil {
		return domain.ItineraryEntry{}, fmt.Errorf("service.ItemService.Create: %w", err)
	}

	item.TripID = tripID
	item.Name = strings.TrimSpace(item.Name)
	if item.Status == "" {
		item.Status = domain.StatusPlanned
	}
	if err := validateItem(&item); err != nil {
		return domain.ItineraryEntry{}, fmt.Errorf("service.ItemService.Create: %w", err)
	}
	if err := validateDetails(item.Type, details); err != nil {
		return domain.ItineraryEntry{}, fmt.Errorf("service.ItemService.Create: %w", err)
	}

	created, err := s.items.Create(ctx, item)
	if err != nil {
		return domain.ItineraryEntry{}, fmt.Errorf("service.ItemService.Create: %w", err)
	}
	entry := domain.ItineraryEntry{Item: created, Tickets: []domain.TicketLink{}}
	if details == nil {
		return entry, nil
	}

	saved, err := s.subtypes.Save(ctx, created.ID, details)
	if err != nil {
		return entry, fmt.Errorf("service.ItemService.Create: %w", &domain.PartialWriteError{ItemID: created.ID, Err: err})
	}
	entry.Details = saved
	return entry, nil
}

// Get returns the item enriched with its payload and ticket links.
func (s *ItemService) Get(ctx context.Context, owner, itemID uuid.UUID) (domain.ItineraryEntry, error) {
	item, err := s.owned(ctx, owner, itemID)
	if err != nil {
		return domain.ItineraryEntry{}, fmt.Errorf("service.ItemService.Get: %w", err)
	}
	entry, err := enrich(ctx, s.subtypes, s.tickets, item)
	if err != nil {
		return domain.ItineraryEntry{}, fmt.Errorf("service.ItemService.Get: %w", err)
	}
	return entry, nil
}

// Update validates patch against the stored item and applies it.
func (s *ItemService) Update(ctx context.Context, owner, itemID uuid.UUID, patch domain.ItemPatch) (domain.Item, error) {
	if patch.IsEmpty() {
		return domain.Item{}, fmt.Errorf("service.ItemService.Update: %w: no data to update", domain.ErrInvalidRequest)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}

	current, err := s.owned(ctx, owner, itemID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("service.ItemService.Update: %w", err)
	}

	merged := patch.Apply(current)
	if err := validateItem(&merged); err != nil {
		return domain.Item{}, fmt.Errorf("service.ItemService.Update: %w", err)
	}
	if patch.Cost != nil {
		patch.Cost = merged.Cost
	}

	updated, err := s.items.Update(ctx, current.TripID, itemID, patch)
	if err != nil {
		return domain.Item{}, fmt.Errorf("service.ItemService.Update: %w", err)
	}
	return updated, nil
}

// SaveDetails writes or replaces the item's subtype payload. It is also the
// retry path after a *domain.PartialWriteError.
func (s *ItemService) SaveDetails(ctx context.Context, owner, itemID uuid.UUID, details domain.Subtype) (domain.Subtype, error) {
	item, err := s.owned(ctx, owner, itemID)
	if err != nil {
		return nil, fmt.Errorf("service.ItemService.SaveDetails: %w", err)
	}
	if details == nil {
		return nil, fmt.Errorf("service.ItemService.SaveDetails: %w", invalid("details are required"))
	}
	if err := validateDetails(item.Type, details); err != nil {
		return nil, fmt.Errorf("service.ItemService.SaveDetails: %w", err)
	}

	saved, err := s.subtypes.Save(ctx, itemID, details)
	if err != nil {
		return nil, fmt.Errorf("service.ItemService.SaveDetails: %w", err)
	}
	return saved, nil
}

// AddTicket attaches a ticket link to the item.
func (s *ItemService) AddTicket(ctx context.Context, owner, itemID uuid.UUID, link domain.TicketLink) (domain.TicketLink, error) {
	if _, err := s.owned(ctx, owner, itemID); err != nil {
		return domain.TicketLink{}, fmt.Errorf("service.ItemService.AddTicket: %w", err)
	}
	link.ItemID = itemID
	link.URL = strings.TrimSpace(link.URL)
	if link.URL == "" {
		return domain.TicketLink{}, fmt.Errorf("service.ItemService.AddTicket: %w", invalid("url is required"))
	}

	created, err := s.tickets.Create(ctx, link)
	if err != nil {
		return domain.TicketLink{}, fmt.Errorf("service.ItemService.AddTicket: %w", err)
	}
	return created, nil
}

// ListTickets returns the item's ticket links.
func (s *ItemService) ListTickets(ctx context.Context, owner, itemID uuid.UUID) ([]domain.TicketLink, error) {
	if _, err := s.owned(ctx, owner, itemID); err != nil {
		return nil, fmt.Errorf("service.ItemService.ListTickets: %w", err)
	}
	links, err := s.tickets.ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("service.ItemService.ListTickets: %w", err)
	}
	return links, nil
}

// AddAttachment records metadata for a file linked to the item.
func (s *ItemService) AddAttachment(ctx context.Context, owner, itemID uuid.UUID, a domain.Attachment) (domain.Attachment, error) {
	if _, err := s.owned(ctx, owner, itemID); err != nil {
		return domain.Attachment{}, fmt.Errorf("service.ItemService.AddAttachment: %w", err)
	}
	a.OwnerID = owner
	a.ItemID = &itemID
	a.FilePath = strings.TrimSpace(a.FilePath)
	if a.FilePath == "" {
		return domain.Attachment{}, fmt.Errorf("service.ItemService.AddAttachment: %w", invalid("file_path is required"))
	}
	if a.Size < 0 {
		return domain.Attachment{}, fmt.Errorf("service.ItemService.AddAttachment: %w", invalid("size must not be negative"))
	}

	created, err := s.attachments.Create(ctx, a)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("service.ItemService.AddAttachment: %w", err)
	}
	return created, nil
}

// owned loads the item and proves its trip belongs to owner. An item on
// somebody else's trip is reported as not found.
func (s *ItemService) owned(ctx context.Context, owner, itemID uuid.UUID) (domain.Item, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return domain.Item{}, err
	}
	if _, err := s.trips.GetByID(ctx, owner, item.TripID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Item{}, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
		}
		return domain.Item{}, err
	}
	return item, nil
}

// enrich attaches the subtype payload and ticket links to an item. A missing
// payload is not an error.
func enrich(ctx context.Context, subtypes repo.SubtypeRepo, tickets repo.TicketRepo, item domain.Item) (domain.ItineraryEntry, error) {
	entry := domain.ItineraryEntry{Item: item}

	details, err := subtypes.Get(ctx, item.ID, item.Type)
	switch {
	case err == nil:
		entry.Details = details
	case !errors.Is(err, domain.ErrNotFound):
		return domain.ItineraryEntry{}, err
	}

	links, err := tickets.ListByItem(ctx, item.ID)
	if err != nil {
		return domain.ItineraryEntry{}, err
	}
	if links == nil {
		links = []domain.TicketLink{}
	}
	entry.Tickets = links
	return entry, nil
}

// validateItem checks the item's business rules and normalises its cost.
func validateItem(it *domain.Item) error {
	if !it.Type.Valid() {
		return invalid("type must be one of lodging, travel, transport_rental, event")
	}
	if it.Name == "" {
		return invalid("name is required")
	}
	if !it.Status.Valid() {
		return invalid("status must be one of planned, confirmed, canceled")
	}
	if err := checkOrder("start_time", it.StartTime, "end_time", it.EndTime); err != nil {
		return err
	}
	if it.Cost != nil {
		if err := checkAmount("cost_amount", it.Cost.Amount); err != nil {
			return err
		}
		cur, err := normalizeCurrency("cost_currency", it.Cost.Currency)
		if err != nil {
			return err
		}
		c := *it.Cost
		c.Currency = cur
		it.Cost = &c
	}
	return nil
}

// validateDetails checks that a payload matches the item type and that its
// enumerated fields hold known values. A nil payload is allowed.
func validateDetails(t domain.ItemType, details domain.Subtype) error {
	if details == nil {
		return nil
	}
	if details.ItemType() != t {
		return invalid("details of type %s do not match item type %s", details.ItemType(), t)
	}
	switch d := details.(type) {
	case domain.Lodging:
		if d.Guests != nil && *d.Guests <= 0 {
			return invalid("guests must be positive")
		}
		return checkOrder("check_in", d.CheckIn, "check_out", d.CheckOut)
	case domain.TravelSegment:
		if !d.Mode.Valid() {
			return invalid("mode must be one of flight, train, ferry, car, bus, walk, other")
		}
		return checkOrder("depart_time", d.DepartTime, "arrive_time", d.ArriveTime)
	case domain.TransportRental:
		if !d.Vehicle.Valid() {
			return invalid("vehicle must be one of car, boat, bicycle, scooter, rv, other")
		}
		return checkOrder("pickup_time", d.PickupTime, "dropoff_time", d.DropoffTime)
	}
	return nil
}
