package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/render"
	"github.com/AAWorks/atlas-infra/internal/repo"
)

// ExportService gathers a trip, its day-bucketed itinerary and its budget
// rollup, and hands them to a renderer.
type ExportService struct {
	trips     repo.TripRepo
	itinerary *ItineraryService
	budget    *BudgetService
}

// NewExportService constructs an ExportService.
func NewExportService(trips repo.TripRepo, itinerary *ItineraryService, budget *BudgetService) *ExportService {
	return &ExportService{trips: trips, itinerary: itinerary, budget: budget}
}

// Export renders the owner's trip in the named format. The format is
// checked before anything is read: an unknown name fails with
// domain.ErrUnsupportedFormat and pdf with domain.ErrFormatNotImplemented.
// The trip is read once; the itinerary and budget reuse it.
func (s *ExportService) Export(ctx context.Context, owner, tripID uuid.UUID, format string) (domain.Document, error) {
	f, err := domain.ParseExportFormat(format)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	trip, err := s.trips.GetByID(ctx, owner, tripID)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	itin, err := s.itinerary.bucket(ctx, trip, nil, nil, domain.GranularityDay)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	budget, err := s.budget.summarize(ctx, trip.ID)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	doc, err := render.Render(f, render.Input{Trip: trip, Itinerary: itin, Budget: budget})
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	return doc, nil
}
