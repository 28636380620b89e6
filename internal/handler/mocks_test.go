package handler_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/handler"
)

// Each mock is a hand-written test double with one function field per
// method. Set only the fields a test needs.

type mockTripServicer struct {
	create func(ctx context.Context, owner uuid.UUID, trip domain.Trip) (domain.Trip, error)
	get    func(ctx context.Context, owner, id uuid.UUID) (domain.Trip, error)
	list   func(ctx context.Context, owner uuid.UUID) ([]domain.Trip, error)
	update func(ctx context.Context, owner, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, owner uuid.UUID, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, owner, t)
}
func (m *mockTripServicer) Get(ctx context.Context, owner, id uuid.UUID) (domain.Trip, error) {
	return m.get(ctx, owner, id)
}
func (m *mockTripServicer) List(ctx context.Context, owner uuid.UUID) ([]domain.Trip, error) {
	return m.list(ctx, owner)
}
func (m *mockTripServicer) Update(ctx context.Context, owner, id uuid.UUID, p domain.TripPatch) (domain.Trip, error) {
	return m.update(ctx, owner, id, p)
}

type mockItemServicer struct {
	create        func(ctx context.Context, owner, tripID uuid.UUID, item domain.Item, details domain.Subtype) (domain.ItineraryEntry, error)
	get           func(ctx context.Context, owner, itemID uuid.UUID) (domain.ItineraryEntry, error)
	update        func(ctx context.Context, owner, itemID uuid.UUID, patch domain.ItemPatch) (domain.Item, error)
	saveDetails   func(ctx context.Context, owner, itemID uuid.UUID, details domain.Subtype) (domain.Subtype, error)
	addTicket     func(ctx context.Context, owner, itemID uuid.UUID, link domain.TicketLink) (domain.TicketLink, error)
	listTickets   func(ctx context.Context, owner, itemID uuid.UUID) ([]domain.TicketLink, error)
	addAttachment func(ctx context.Context, owner, itemID uuid.UUID, a domain.Attachment) (domain.Attachment, error)
}

func (m *mockItemServicer) Create(ctx context.Context, owner, tripID uuid.UUID, item domain.Item, details domain.Subtype) (domain.ItineraryEntry, error) {
	return m.create(ctx, owner, tripID, item, details)
}
func (m *mockItemServicer) Get(ctx context.Context, owner, itemID uuid.UUID) (domain.ItineraryEntry, error) {
	return m.get(ctx, owner, itemID)
}
func (m *mockItemServicer) Update(ctx context.Context, owner, itemID uuid.UUID, patch domain.ItemPatch) (domain.Item, error) {
	return m.update(ctx, owner, itemID, patch)
}
func (m *mockItemServicer) SaveDetails(ctx context.Context, owner, itemID uuid.UUID, details domain.Subtype) (domain.Subtype, error) {
	return m.saveDetails(ctx, owner, itemID, details)
}
func (m *mockItemServicer) AddTicket(ctx context.Context, owner, itemID uuid.UUID, link domain.TicketLink) (domain.TicketLink, error) {
	return m.addTicket(ctx, owner, itemID, link)
}
func (m *mockItemServicer) ListTickets(ctx context.Context, owner, itemID uuid.UUID) ([]domain.TicketLink, error) {
	return m.listTickets(ctx, owner, itemID)
}
func (m *mockItemServicer) AddAttachment(ctx context.Context, owner, itemID uuid.UUID, a domain.Attachment) (domain.Attachment, error) {
	return m.addAttachment(ctx, owner, itemID, a)
}

type mockItineraryServicer struct {
	getBucketed func(ctx context.Context, owner, tripID uuid.UUID, from, to *time.Time, g domain.Granularity) (domain.BucketedItinerary, error)
}

func (m *mockItineraryServicer) GetBucketed(ctx context.Context, owner, tripID uuid.UUID, from, to *time.Time, g domain.Granularity) (domain.BucketedItinerary, error) {
	return m.getBucketed(ctx, owner, tripID, from, to, g)
}

type mockBudgetServicer struct {
	createEntry func(ctx context.Context, owner, tripID uuid.UUID, entry domain.BudgetEntry) (domain.BudgetEntry, error)
	summary     func(ctx context.Context, owner, tripID uuid.UUID) (domain.BudgetSummary, error)
}

func (m *mockBudgetServicer) CreateEntry(ctx context.Context, owner, tripID uuid.UUID, e domain.BudgetEntry) (domain.BudgetEntry, error) {
	return m.createEntry(ctx, owner, tripID, e)
}
func (m *mockBudgetServicer) Summary(ctx context.Context, owner, tripID uuid.UUID) (domain.BudgetSummary, error) {
	return m.summary(ctx, owner, tripID)
}

type mockDocumentServicer struct {
	create func(ctx context.Context, owner, tripID uuid.UUID, doc domain.RequiredDocument) (domain.RequiredDocument, error)
	list   func(ctx context.Context, owner, tripID uuid.UUID) ([]domain.RequiredDocument, error)
	update func(ctx context.Context, owner, tripID, id uuid.UUID, patch domain.DocumentPatch) (domain.RequiredDocument, error)
}

func (m *mockDocumentServicer) Create(ctx context.Context, owner, tripID uuid.UUID, d domain.RequiredDocument) (domain.RequiredDocument, error) {
	return m.create(ctx, owner, tripID, d)
}
func (m *mockDocumentServicer) List(ctx context.Context, owner, tripID uuid.UUID) ([]domain.RequiredDocument, error) {
	return m.list(ctx, owner, tripID)
}
func (m *mockDocumentServicer) Update(ctx context.Context, owner, tripID, id uuid.UUID, p domain.DocumentPatch) (domain.RequiredDocument, error) {
	return m.update(ctx, owner, tripID, id, p)
}

type mockExporter struct {
	export func(ctx context.Context, owner, tripID uuid.UUID, format string) (domain.Document, error)
}

func (m *mockExporter) Export(ctx context.Context, owner, tripID uuid.UUID, format string) (domain.Document, error) {
	return m.export(ctx, owner, tripID, format)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.TripServicer      = (*mockTripServicer)(nil)
	_ handler.ItemServicer      = (*mockItemServicer)(nil)
	_ handler.ItineraryServicer = (*mockItineraryServicer)(nil)
	_ handler.BudgetServicer    = (*mockBudgetServicer)(nil)
	_ handler.DocumentServicer  = (*mockDocumentServicer)(nil)
	_ handler.Exporter          = (*mockExporter)(nil)
)
