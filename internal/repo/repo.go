// Package repo maps domain entities onto rows of the record store.
// Each entity has its own file with an interface and a store-backed
// implementation. No business rules live here beyond required fields and
// ownership-scoped filters.
package repo

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/store"
)

// Repos bundles every repository over one store.
type Repos struct {
	Trips       TripRepo
	Items       ItemRepo
	Subtypes    SubtypeRepo
	Budget      BudgetRepo
	Tickets     TicketRepo
	Attachments AttachmentRepo
	Documents   DocumentRepo
}

// New builds every repository over s using the given table names.
func New(s store.Store, tables store.Tables, opts ...Option) Repos {
	return Repos{
		Trips:       NewTripRepo(s, tables, opts...),
		Items:       NewItemRepo(s, tables, opts...),
		Subtypes:    NewSubtypeRepo(s, tables, opts...),
		Budget:      NewBudgetRepo(s, tables, opts...),
		Tickets:     NewTicketRepo(s, tables, opts...),
		Attachments: NewAttachmentRepo(s, tables, opts...),
		Documents:   NewDocumentRepo(s, tables, opts...),
	}
}

// Option configures a repository.
type Option func(*base)

// WithClock replaces the clock used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// base is embedded by every store-backed repository.
type base struct {
	store  store.Store
	tables store.Tables
	now    func() time.Time
}

func newBase(s store.Store, tables store.Tables, opts []Option) base {
	b := base{store: s, tables: tables, now: time.Now}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// timestamp returns the current instant at the precision Postgres keeps.
func (b base) timestamp() time.Time {
	return b.now().UTC().Truncate(time.Microsecond)
}

// single returns the only row of rows, ErrNotFound when there is none.
func single(rows []store.Row) (store.Row, error) {
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return rows[0], nil
}

// required returns a validation error naming the first empty field.
func required(fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, fields[i])
		}
	}
	return nil
}

// rowReader decodes typed columns from a normalised store.Row. The first
// decoding failure is kept in err and later reads become no-ops.
type rowReader struct {
	row store.Row
	err error
}

func (r *rowReader) fail(col string, v any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: column %s: unexpected value %T", domain.ErrStore, col, v)
	}
}

func (r *rowReader) uuidPtr(col string) *uuid.UUID {
	switch v := r.row[col].(type) {
	case nil:
		return nil
	case uuid.UUID:
		return &v
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			r.fail(col, v)
			return nil
		}
		return &id
	default:
		r.fail(col, v)
		return nil
	}
}

func (r *rowReader) uuid(col string) uuid.UUID {
	if id := r.uuidPtr(col); id != nil {
		return *id
	}
	return uuid.Nil
}

func (r *rowReader) str(col string) string {
	switch v := r.row[col].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		r.fail(col, v)
		return ""
	}
}

func (r *rowReader) timePtr(col string) *time.Time {
	switch v := r.row[col].(type) {
	case nil:
		return nil
	case time.Time:
		return &v
	default:
		r.fail(col, v)
		return nil
	}
}

func (r *rowReader) time(col string) time.Time {
	if t := r.timePtr(col); t != nil {
		return *t
	}
	return time.Time{}
}

func (r *rowReader) decimalPtr(col string) *decimal.Decimal {
	switch v := r.row[col].(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return &v
	case float64:
		d := decimal.NewFromFloat(v)
		return &d
	case int64:
		d := decimal.NewFromInt(v)
		return &d
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			r.fail(col, v)
			return nil
		}
		return &d
	default:
		r.fail(col, v)
		return nil
	}
}

func (r *rowReader) decimal(col string) decimal.Decimal {
	if d := r.decimalPtr(col); d != nil {
		return *d
	}
	return decimal.Zero
}

func (r *rowReader) boolean(col string) bool {
	switch v := r.row[col].(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		r.fail(col, v)
		return false
	}
}

func (r *rowReader) int64(col string) int64 {
	switch v := r.row[col].(type) {
	case nil:
		return 0
	case int64:
		return v
	default:
		r.fail(col, v)
		return 0
	}
}

func (r *rowReader) intPtr(col string) *int {
	if r.row[col] == nil {
		return nil
	}
	n := int(r.int64(col))
	return &n
}

func (r *rowReader) object(col string) map[string]any {
	switch v := r.row[col].(type) {
	case nil:
		return nil
	case map[string]any:
		return v
	default:
		r.fail(col, v)
		return nil
	}
}

// jsonOrNil keeps nil maps out of JSON columns so they are stored as NULL.
func jsonOrNil(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}
