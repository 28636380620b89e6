package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/repo"
)

// DocumentService manages the documents a trip requires.
type DocumentService struct {
	trips repo.TripRepo
	docs  repo.DocumentRepo
}

// NewDocumentService constructs a DocumentService from the bundled repositories.
func NewDocumentService(r repo.Repos) *DocumentService {
	return &DocumentService{trips: r.Trips, docs: r.Documents}
}

// Create records a required document on the owner's trip.
func (s *DocumentService) Create(ctx context.Context, owner, tripID uuid.UUID, doc domain.RequiredDocument) (domain.RequiredDocument, error) {
	if _, err := s.trips.GetByID(ctx, owner, tripID); err != nil {
		return domain.RequiredDocument{}, fmt.Errorf("service.DocumentService.Create: %w", err)
	}
	doc.TripID = tripID
	if doc.DocType == "" {
		return domain.RequiredDocument{}, fmt.Errorf("service.DocumentService.Create: %w", invalid("doc_type is required"))
	}
	if doc.Status == "" {
		doc.Status = domain.DocumentNeeded
	}
	if !doc.Status.Valid() {
		return domain.RequiredDocument{}, fmt.Errorf("service.DocumentService.Create: %w", invalid("status must be one of needed, uploaded, approved"))
	}
	doc.DueBy = dateOnly(doc.DueBy)

	created, err := s.docs.Create(ctx, doc)
	if err != nil {
		return domain.RequiredDocument{}, fmt.Errorf("service.DocumentService.Create: %w", err)
	}
	return created, nil
}

// List returns the trip's required documents, earliest due first.
func (s *DocumentService) List(ctx context.Context, owner, tripID uuid.UUID) ([]domain.RequiredDocument, error) {
	if _, err := s.trips.GetByID(ctx, owner, tripID); err != nil {
		return nil, fmt.Errorf("service.DocumentService.List: %w", err)
	}
	docs, err := s.docs.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.DocumentService.List: %w", err)
	}
	return docs, nil
}

// Update applies patch to one of the trip's documents.
func (s *DocumentService) Update(ctx context.Context, owner, tripID, id uuid.UUID, patch domain.DocumentPatch) (domain.RequiredDocument, error) {
	if patch.IsEmpty() {
		return domain.RequiredDocument{}, fmt.Errorf("service.DocumentService.Update: %w: no data to update", domain.ErrInvalidRequest)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return domain.RequiredDocument{}, fmt.Errorf("service.DocumentService.Update: %w", invalid("status must be one of needed, uploaded, approved"))
	}
	patch.DueBy = dateOnly(patch.DueBy)

	if _, err := s.trips.GetByID(ctx, owner, tripID); err != nil {
		return domain.RequiredDocument{}, fmt.Errorf("service.DocumentService.Update: %w", err)
	}
	updated, err := s.docs.Update(ctx, tripID, id, patch)
	if err != nil {
		return domain.RequiredDocument{}, fmt.Errorf("service.DocumentService.Update: %w", err)
	}
	return updated, nil
}

