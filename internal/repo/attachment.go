package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/store"
)

// AttachmentRepo defines the persistence operations for attachment metadata.
type AttachmentRepo interface {
	Create(ctx context.Context, a domain.Attachment) (domain.Attachment, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Attachment, error)
}

type storeAttachmentRepo struct {
	base
}

// NewAttachmentRepo constructs an AttachmentRepo over the given store.
func NewAttachmentRepo(s store.Store, tables store.Tables, opts ...Option) AttachmentRepo {
	return &storeAttachmentRepo{base: newBase(s, tables, opts)}
}

func (r *storeAttachmentRepo) Create(ctx context.Context, a domain.Attachment) (domain.Attachment, error) {
	if a.OwnerID == uuid.Nil {
		return domain.Attachment{}, fmt.Errorf("repo.AttachmentRepo.Create: %w: owner is required", domain.ErrValidation)
	}
	if err := required("file_path", a.FilePath); err != nil {
		return domain.Attachment{}, fmt.Errorf("repo.AttachmentRepo.Create: %w", err)
	}

	rows, err := r.store.Insert(ctx, r.tables.Attachment, store.Row{
		"id":            uuid.New(),
		"owner_user_id": a.OwnerID,
		"item_id":       a.ItemID,
		"file_path":     a.FilePath,
		"mime":          a.MIME,
		"size":          a.Size,
		"created_at":    r.timestamp(),
	})
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("repo.AttachmentRepo.Create: %w", err)
	}
	saved, err := single(rows)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("repo.AttachmentRepo.Create: %w", err)
	}
	result, err := scanAttachment(saved)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("repo.AttachmentRepo.Create: %w", err)
	}
	return result, nil
}

func (r *storeAttachmentRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Attachment, error) {
	rows, err := r.store.Select(ctx, r.tables.Attachment, store.Query{
		Filters: []store.Filter{store.Eq("item_id", itemID)},
		OrderBy: "created_at",
	})
	if err != nil {
		return nil, fmt.Errorf("repo.AttachmentRepo.ListByItem: %w", err)
	}

	out := make([]domain.Attachment, 0, len(rows))
	for _, row := range rows {
		a, err := scanAttachment(row)
		if err != nil {
			return nil, fmt.Errorf("repo.AttachmentRepo.ListByItem: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

func scanAttachment(row store.Row) (domain.Attachment, error) {
	rr := rowReader{row: row}
	a := domain.Attachment{
		ID:        rr.uuid("id"),
		OwnerID:   rr.uuid("owner_user_id"),
		ItemID:    rr.uuidPtr("item_id"),
		FilePath:  rr.str("file_path"),
		MIME:      rr.str("mime"),
		Size:      rr.int64("size"),
		CreatedAt: rr.time("created_at"),
	}
	if rr.err != nil {
		return domain.Attachment{}, rr.err
	}
	return a, nil
}
