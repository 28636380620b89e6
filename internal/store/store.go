// Package store is the narrow record-store contract the rest of the
// application persists through: select, insert and update on named tables
// with equality filters. Two implementations exist, Postgres for the hosted
// database and Memory for tests and the local mock mode.
package store

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Row is one record keyed by column name. Values are normalised on the way
// out of a store: nil for NULL, uuid.UUID, decimal.Decimal, time.Time,
// string, bool, int64, float64 or map[string]any for JSON columns.
type Row map[string]any

// Filter is a single equality predicate. A nil Value matches NULL.
type Filter struct {
	Column string
	Value  any
}

// Eq builds a Filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Query selects rows matching every filter, ascending by OrderBy with NULLs
// last. An empty OrderBy leaves the order to the store.
type Query struct {
	Filters []Filter
	OrderBy string
}

// Store is the record store contract consumed by the repositories.
type Store interface {
	// Select returns every row in table matching q.
	Select(ctx context.Context, table string, q Query) ([]Row, error)

	// Insert writes row and returns the stored record. It fails when a
	// required column is missing.
	Insert(ctx context.Context, table string, row Row) ([]Row, error)

	// Update writes patch to every row matching all filters and returns the
	// updated records, or an empty slice when nothing matched. At least one
	// filter is required.
	Update(ctx context.Context, table string, patch Row, filters []Filter) ([]Row, error)
}

// Tables maps each entity to its table name. Deployments whose schema uses
// different names override them from a YAML file.
type Tables struct {
	Trip             string `yaml:"trip"`
	Item             string `yaml:"itinerary_item"`
	Lodging          string `yaml:"lodging"`
	TravelSegment    string `yaml:"travel_segment"`
	TransportRental  string `yaml:"transport_rental"`
	EventActivity    string `yaml:"event_activity"`
	BudgetEntry      string `yaml:"budget_entry"`
	TicketLink       string `yaml:"ticket_link"`
	RequiredDocument string `yaml:"required_document"`
	Attachment       string `yaml:"attachment"`
}

// DefaultTables returns the table names created by the bundled migrations.
func DefaultTables() Tables {
	return Tables{
		Trip:             "trip",
		Item:             "itinerary_item",
		Lodging:          "lodging",
		TravelSegment:    "travel_segment",
		TransportRental:  "transport_rental",
		EventActivity:    "event_activity",
		BudgetEntry:      "budget_entry",
		TicketLink:       "ticket_link",
		RequiredDocument: "required_document",
		Attachment:       "attachment",
	}
}

// Merge returns t with every empty name filled from fallback.
func (t Tables) Merge(fallback Tables) Tables {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return Tables{
		Trip:             pick(t.Trip, fallback.Trip),
		Item:             pick(t.Item, fallback.Item),
		Lodging:          pick(t.Lodging, fallback.Lodging),
		TravelSegment:    pick(t.TravelSegment, fallback.TravelSegment),
		TransportRental:  pick(t.TransportRental, fallback.TransportRental),
		EventActivity:    pick(t.EventActivity, fallback.EventActivity),
		BudgetEntry:      pick(t.BudgetEntry, fallback.BudgetEntry),
		TicketLink:       pick(t.TicketLink, fallback.TicketLink),
		RequiredDocument: pick(t.RequiredDocument, fallback.RequiredDocument),
		Attachment:       pick(t.Attachment, fallback.Attachment),
	}
}

// normalize converts a driver or caller value into the canonical Row value
// set. Pointers are dereferenced and nil pointers become nil.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case uuid.UUID, decimal.Decimal, string, bool, int64, float64:
		return x
	case [16]byte:
		return uuid.UUID(x)
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int16:
		return int64(x)
	case float32:
		return float64(x)
	case pgtype.Numeric:
		if !x.Valid {
			return nil
		}
		val, err := x.Value()
		if err != nil {
			return x
		}
		s, ok := val.(string)
		if !ok {
			return x
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return x
		}
		return d
	case map[string]any:
		if x == nil {
			return nil
		}
		return cloneJSON(x)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}
	return v
}

// cloneJSON deep-copies decoded JSON so stored rows never alias caller maps.
func cloneJSON(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneJSON(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneJSON(e)
		}
		return out
	}
	return v
}

// normalizeRow returns a normalised copy of r.
func normalizeRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = normalize(v)
	}
	return out
}
