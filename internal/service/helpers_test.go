package service_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/repo"
	"github.com/AAWorks/atlas-infra/internal/store"
)

// countingStore wraps a store and counts reads and writes, so tests can
// assert that a request failed before touching persistence.
type countingStore struct {
	store.Store
	calls atomic.Int32
}

func (c *countingStore) Select(ctx context.Context, table string, q store.Query) ([]store.Row, error) {
	c.calls.Add(1)
	return c.Store.Select(ctx, table, q)
}

func (c *countingStore) Insert(ctx context.Context, table string, row store.Row) ([]store.Row, error) {
	c.calls.Add(1)
	return c.Store.Insert(ctx, table, row)
}

func (c *countingStore) Update(ctx context.Context, table string, patch store.Row, f []store.Filter) ([]store.Row, error) {
	c.calls.Add(1)
	return c.Store.Update(ctx, table, patch, f)
}

func newCountingRepos() (repo.Repos, *countingStore) {
	cs := &countingStore{Store: store.NewMemory()}
	return repo.New(cs, store.DefaultTables()), cs
}

func newRepos() repo.Repos {
	return repo.New(store.NewMemory(), store.DefaultTables())
}

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func usd(amount string) *domain.Money {
	return &domain.Money{Amount: decimal.RequireFromString(amount), Currency: "USD"}
}

func seedTrip(t *testing.T, repos repo.Repos, owner uuid.UUID, tz string) domain.Trip {
	t.Helper()
	trip, err := repos.Trips.Create(context.Background(), domain.Trip{
		OwnerID:   owner,
		Title:     "LA Getaway",
		StartDate: date(2025, 6, 1),
		EndDate:   date(2025, 6, 3),
		TimeZone:  tz,
	})
	require.NoError(t, err)
	return trip
}

func seedItem(t *testing.T, repos repo.Repos, item domain.Item) domain.Item {
	t.Helper()
	if item.Status == "" {
		item.Status = domain.StatusPlanned
	}
	created, err := repos.Items.Create(context.Background(), item)
	require.NoError(t, err)
	return created
}
