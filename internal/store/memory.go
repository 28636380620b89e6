package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AAWorks/atlas-infra/internal/domain"
)

// Memory is an in-process Store. It backs the mock API mode and the unit
// tests of every layer above the store. Rows are copied on the way in and
// out, so callers never share state with the store.
type Memory struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

// NewMemory returns an empty Memory store. Tables are created on first insert.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][]Row)}
}

// Select implements Store.
func (m *Memory) Select(_ context.Context, table string, q Query) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Row
	for _, r := range m.tables[table] {
		if matches(r, q.Filters) {
			out = append(out, normalizeRow(r))
		}
	}

	if q.OrderBy != "" {
		col := q.OrderBy
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i][col], out[j][col])
		})
	}
	return out, nil
}

// Insert implements Store. The row must carry a non-nil, unique "id".
func (m *Memory) Insert(_ context.Context, table string, row Row) ([]Row, error) {
	stored := normalizeRow(row)
	id, ok := stored["id"]
	if !ok || id == nil {
		return nil, fmt.Errorf("store.Memory.Insert %s: %w: id is required", table, domain.ErrStore)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.tables[table] {
		if equal(r["id"], id) {
			return nil, fmt.Errorf("store.Memory.Insert %s: %w: duplicate id %v", table, domain.ErrStore, id)
		}
	}
	m.tables[table] = append(m.tables[table], stored)
	return []Row{normalizeRow(stored)}, nil
}

// Update implements Store.
func (m *Memory) Update(_ context.Context, table string, patch Row, filters []Filter) ([]Row, error) {
	if len(filters) == 0 {
		return nil, fmt.Errorf("store.Memory.Update %s: %w: refusing unfiltered update", table, domain.ErrStore)
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("store.Memory.Update %s: %w: empty patch", table, domain.ErrStore)
	}
	p := normalizeRow(patch)

	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Row{}
	for _, r := range m.tables[table] {
		if !matches(r, filters) {
			continue
		}
		for k, v := range p {
			r[k] = cloneJSON(v)
		}
		out = append(out, normalizeRow(r))
	}
	return out, nil
}

func matches(r Row, filters []Filter) bool {
	for _, f := range filters {
		if !equal(r[f.Column], normalize(f.Value)) {
			return false
		}
	}
	return true
}

// equal compares two normalised values the way an SQL equality would,
// except that nil equals nil so filters can select NULL columns.
func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case uuid.UUID:
		switch y := b.(type) {
		case uuid.UUID:
			return x == y
		case string:
			return x.String() == y
		}
		return false
	case decimal.Decimal:
		y, ok := b.(decimal.Decimal)
		return ok && x.Equal(y)
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case string:
		if y, ok := b.(uuid.UUID); ok {
			return x == y.String()
		}
	}
	return reflect.DeepEqual(a, b)
}

// less orders normalised values ascending with nil after everything.
func less(a, b any) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	switch x := a.(type) {
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Before(y)
		}
	case decimal.Decimal:
		if y, ok := b.(decimal.Decimal); ok {
			return x.LessThan(y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return x < y
		}
	case float64:
		if y, ok := b.(float64); ok {
			return x < y
		}
	case bool:
		if y, ok := b.(bool); ok {
			return !x && y
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}
