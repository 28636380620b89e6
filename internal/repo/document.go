package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/store"
)

// DocumentRepo defines the persistence operations for required documents.
type DocumentRepo interface {
	Create(ctx context.Context, doc domain.RequiredDocument) (domain.RequiredDocument, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.RequiredDocument, error)

	// Update applies patch to the document with id under tripID.
	Update(ctx context.Context, tripID, id uuid.UUID, patch domain.DocumentPatch) (domain.RequiredDocument, error)
}

type storeDocumentRepo struct {
	base
}

// NewDocumentRepo constructs a DocumentRepo over the given store.
func NewDocumentRepo(s store.Store, tables store.Tables, opts ...Option) DocumentRepo {
	return &storeDocumentRepo{base: newBase(s, tables, opts)}
}

func (r *storeDocumentRepo) Create(ctx context.Context, doc domain.RequiredDocument) (domain.RequiredDocument, error) {
	if doc.TripID == uuid.Nil {
		return domain.RequiredDocument{}, fmt.Errorf("repo.DocumentRepo.Create: %w: trip_id is required", domain.ErrValidation)
	}
	if err := required("doc_type", doc.DocType); err != nil {
		return domain.RequiredDocument{}, fmt.Errorf("repo.DocumentRepo.Create: %w", err)
	}
	if doc.Status == "" {
		doc.Status = domain.DocumentNeeded
	}

	now := r.timestamp()
	rows, err := r.store.Insert(ctx, r.tables.RequiredDocument, store.Row{
		"id":         uuid.New(),
		"trip_id":    doc.TripID,
		"doc_type":   doc.DocType,
		"status":     string(doc.Status),
		"due_by":     doc.DueBy,
		"file_id":    doc.FileID,
		"created_at": now,
		"updated_at": now,
	})
	if err != nil {
		return domain.RequiredDocument{}, fmt.Errorf("repo.DocumentRepo.Create: %w", err)
	}
	result, err := firstDocument(rows)
	if err != nil {
		return domain.RequiredDocument{}, fmt.Errorf("repo.DocumentRepo.Create: %w", err)
	}
	return result, nil
}

func (r *storeDocumentRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.RequiredDocument, error) {
	rows, err := r.store.Select(ctx, r.tables.RequiredDocument, store.Query{
		Filters: []store.Filter{store.Eq("trip_id", tripID)},
		OrderBy: "due_by",
	})
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.ListByTrip: %w", err)
	}

	docs := make([]domain.RequiredDocument, 0, len(rows))
	for _, row := range rows {
		d, err := scanDocument(row)
		if err != nil {
			return nil, fmt.Errorf("repo.DocumentRepo.ListByTrip: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func (r *storeDocumentRepo) Update(ctx context.Context, tripID, id uuid.UUID, patch domain.DocumentPatch) (domain.RequiredDocument, error) {
	if patch.IsEmpty() {
		return domain.RequiredDocument{}, fmt.Errorf("repo.DocumentRepo.Update: %w: no data to update", domain.ErrInvalidRequest)
	}

	row := store.Row{"updated_at": r.timestamp()}
	if patch.Status != nil {
		row["status"] = string(*patch.Status)
	}
	setIf(row, "due_by", patch.DueBy)
	setIf(row, "file_id", patch.FileID)

	rows, err := r.store.Update(ctx, r.tables.RequiredDocument, row, []store.Filter{
		store.Eq("id", id),
		store.Eq("trip_id", tripID),
	})
	if err != nil {
		return domain.RequiredDocument{}, fmt.Errorf("repo.DocumentRepo.Update: %w", err)
	}
	result, err := firstDocument(rows)
	if err != nil {
		return domain.RequiredDocument{}, fmt.Errorf("repo.DocumentRepo.Update: %w", err)
	}
	return result, nil
}

func firstDocument(rows []store.Row) (domain.RequiredDocument, error) {
	row, err := single(rows)
	if err != nil {
		return domain.RequiredDocument{}, err
	}
	return scanDocument(row)
}

func scanDocument(row store.Row) (domain.RequiredDocument, error) {
	rr := rowReader{row: row}
	d := domain.RequiredDocument{
		ID:        rr.uuid("id"),
		TripID:    rr.uuid("trip_id"),
		DocType:   rr.str("doc_type"),
		Status:    domain.DocumentStatus(rr.str("status")),
		DueBy:     rr.timePtr("due_by"),
		FileID:    rr.uuidPtr("file_id"),
		CreatedAt: rr.time("created_at"),
		UpdatedAt: rr.time("updated_at"),
	}
	if rr.err != nil {
		return domain.RequiredDocument{}, rr.err
	}
	return d, nil
}
