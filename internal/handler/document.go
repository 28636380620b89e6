package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/AAWorks/atlas-infra/internal/domain"
)

// CreateDocumentRequest is the body of POST /trips/{tripID}/documents.
type CreateDocumentRequest struct {
	DocType string                `json:"doc_type"`
	Status  domain.DocumentStatus `json:"status,omitempty"`
	DueBy   *openapi_types.Date   `json:"due_by,omitempty"`
	FileID  *uuid.UUID            `json:"file_id,omitempty"`
}

// UpdateDocumentRequest is the body of PATCH /trips/{tripID}/documents/{documentID}.
type UpdateDocumentRequest struct {
	Status *domain.DocumentStatus `json:"status,omitempty"`
	DueBy  *openapi_types.Date    `json:"due_by,omitempty"`
	FileID *uuid.UUID             `json:"file_id,omitempty"`
}

// RequiredDocument is the response representation of a required document.
type RequiredDocument struct {
	ID        uuid.UUID             `json:"id"`
	TripID    uuid.UUID             `json:"trip_id"`
	DocType   string                `json:"doc_type"`
	Status    domain.DocumentStatus `json:"status"`
	DueBy     *openapi_types.Date   `json:"due_by"`
	FileID    *uuid.UUID            `json:"file_id"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// CreateDocument handles POST /trips/{tripID}/documents.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathID(w, r, "tripID")
	if !ok {
		return
	}
	var body CreateDocumentRequest
	if !s.decode(w, r, &body) {
		return
	}

	doc, err := s.documents.Create(r.Context(), owner, tripID, domain.RequiredDocument{
		DocType: body.DocType,
		Status:  body.Status,
		DueBy:   dateToDomain(body.DueBy),
		FileID:  body.FileID,
	})
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, documentToResponse(doc))
}

// ListDocuments handles GET /trips/{tripID}/documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathID(w, r, "tripID")
	if !ok {
		return
	}

	docs, err := s.documents.List(r.Context(), owner, tripID)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	data := make([]RequiredDocument, len(docs))
	for i, d := range docs {
		data[i] = documentToResponse(d)
	}
	writeJSON(w, http.StatusOK, map[string][]RequiredDocument{"data": data})
}

// UpdateDocument handles PATCH /trips/{tripID}/documents/{documentID}.
func (s *Server) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathID(w, r, "tripID")
	if !ok {
		return
	}
	docID, ok := s.pathID(w, r, "documentID")
	if !ok {
		return
	}
	var body UpdateDocumentRequest
	if !s.decode(w, r, &body) {
		return
	}

	doc, err := s.documents.Update(r.Context(), owner, tripID, docID, domain.DocumentPatch{
		Status: body.Status,
		DueBy:  dateToDomain(body.DueBy),
		FileID: body.FileID,
	})
	if err != nil {
		s.fail(w, r, err, "document")
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

func documentToResponse(d domain.RequiredDocument) RequiredDocument {
	return RequiredDocument{
		ID:        d.ID,
		TripID:    d.TripID,
		DocType:   d.DocType,
		Status:    d.Status,
		DueBy:     dateToResponse(d.DueBy),
		FileID:    d.FileID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
