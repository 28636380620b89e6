// Package handler implements the HTTP handlers for the Atlas API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, item.go, etc.) but all share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/metrics"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the store or service layer.
type TripServicer interface {
	Create(ctx context.Context, owner uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Get(ctx context.Context, owner, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, owner uuid.UUID) ([]domain.Trip, error)
	Update(ctx context.Context, owner, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
}

// ItemServicer defines the itinerary item operations.
type ItemServicer interface {
	Create(ctx context.Context, owner, tripID uuid.UUID, item domain.Item, details domain.Subtype) (domain.ItineraryEntry, error)
	Get(ctx context.Context, owner, itemID uuid.UUID) (domain.ItineraryEntry, error)
	Update(ctx context.Context, owner, itemID uuid.UUID, patch domain.ItemPatch) (domain.Item, error)
	SaveDetails(ctx context.Context, owner, itemID uuid.UUID, details domain.Subtype) (domain.Subtype, error)
	AddTicket(ctx context.Context, owner, itemID uuid.UUID, link domain.TicketLink) (domain.TicketLink, error)
	ListTickets(ctx context.Context, owner, itemID uuid.UUID) ([]domain.TicketLink, error)
	AddAttachment(ctx context.Context, owner, itemID uuid.UUID, a domain.Attachment) (domain.Attachment, error)
}

// ItineraryServicer builds the bucketed itinerary view.
type ItineraryServicer interface {
	GetBucketed(ctx context.Context, owner, tripID uuid.UUID, from, to *time.Time, g domain.Granularity) (domain.BucketedItinerary, error)
}

// BudgetServicer records budget lines and computes summaries.
type BudgetServicer interface {
	CreateEntry(ctx context.Context, owner, tripID uuid.UUID, entry domain.BudgetEntry) (domain.BudgetEntry, error)
	Summary(ctx context.Context, owner, tripID uuid.UUID) (domain.BudgetSummary, error)
}

// DocumentServicer manages required documents.
type DocumentServicer interface {
	Create(ctx context.Context, owner, tripID uuid.UUID, doc domain.RequiredDocument) (domain.RequiredDocument, error)
	List(ctx context.Context, owner, tripID uuid.UUID) ([]domain.RequiredDocument, error)
	Update(ctx context.Context, owner, tripID, id uuid.UUID, patch domain.DocumentPatch) (domain.RequiredDocument, error)
}

// Exporter renders a trip into a downloadable document.
type Exporter interface {
	Export(ctx context.Context, owner, tripID uuid.UUID, format string) (domain.Document, error)
}

// Services bundles every dependency of Server. Log defaults to slog.Default
// and Metrics may be nil.
type Services struct {
	Trips     TripServicer
	Items     ItemServicer
	Itinerary ItineraryServicer
	Budget    BudgetServicer
	Documents DocumentServicer
	Export    Exporter
	Log       *slog.Logger
	Metrics   *metrics.Metrics
}

// Server implements every /api/v1 endpoint.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	trips     TripServicer
	items     ItemServicer
	itinerary ItineraryServicer
	budget    BudgetServicer
	documents DocumentServicer
	export    Exporter
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// NewServer constructs the Server with all its dependencies.
func NewServer(s Services) *Server {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:     s.Trips,
		items:     s.Items,
		itinerary: s.Itinerary,
		budget:    s.Budget,
		documents: s.Documents,
		export:    s.Export,
		log:       log,
		metrics:   s.Metrics,
	}
}

// Routes registers the authenticated API on r. The caller mounts it under
// /api/v1 behind the auth middleware.
func (s *Server) Routes(r chi.Router) {
	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Patch("/", s.UpdateTrip)
			r.Get("/itinerary", s.GetItinerary)
			r.Post("/items", s.CreateItem)
			r.Get("/budget", s.GetBudget)
			r.Post("/budget", s.CreateBudgetEntry)
			r.Get("/documents", s.ListDocuments)
			r.Post("/documents", s.CreateDocument)
			r.Patch("/documents/{documentID}", s.UpdateDocument)
			r.Get("/export", s.ExportTrip)
			r.Post("/export", s.ExportTrip)
		})
	})
	r.Route("/items/{itemID}", func(r chi.Router) {
		r.Get("/", s.GetItem)
		r.Patch("/", s.UpdateItem)
		r.Put("/details", s.SaveItemDetails)
		r.Get("/tickets", s.ListTickets)
		r.Post("/tickets", s.AddTicket)
		r.Post("/attachments", s.AddAttachment)
	})
}
