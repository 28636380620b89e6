package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketLink points at an external ticket or booking page for an item.
type TicketLink struct {
	ID        uuid.UUID
	ItemID    uuid.UUID
	URL       string
	Type      string
	CreatedAt time.Time
}

// DocumentStatus tracks a required travel document.
type DocumentStatus string

const (
	DocumentNeeded   DocumentStatus = "needed"
	DocumentUploaded DocumentStatus = "uploaded"
	DocumentApproved DocumentStatus = "approved"
)

// Valid reports whether s is a known document status.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentNeeded, DocumentUploaded, DocumentApproved:
		return true
	}
	return false
}

// RequiredDocument is a document a trip needs (visa, insurance, permit).
type RequiredDocument struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	DocType   string
	Status    DocumentStatus
	DueBy     *time.Time
	FileID    *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentPatch lists the mutable fields of a required document.
type DocumentPatch struct {
	Status *DocumentStatus
	DueBy  *time.Time
	FileID *uuid.UUID
}

// IsEmpty reports whether the patch would change nothing.
func (p DocumentPatch) IsEmpty() bool {
	return p.Status == nil && p.DueBy == nil && p.FileID == nil
}

// Attachment is metadata for a file stored elsewhere and linked to an item.
type Attachment struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	ItemID    *uuid.UUID
	FilePath  string
	MIME      string
	Size      int64
	CreatedAt time.Time
}
