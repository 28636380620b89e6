package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/service"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBudgetService_CreateEntry(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	hotel := seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemLodging, Name: "Hotel Aurora"})
	svc := service.NewBudgetService(repos)

	got, err := svc.CreateEntry(context.Background(), owner, trip.ID, domain.BudgetEntry{
		ItemID: &hotel.ID, Category: " lodging ", Amount: dec("612.00"), Currency: "usd",
	})

	require.NoError(t, err)
	assert.Equal(t, "lodging", got.Category)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, trip.ID, got.TripID)
}

func TestBudgetService_CreateEntry_Validation(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	svc := service.NewBudgetService(repos)

	cases := map[string]domain.BudgetEntry{
		"no category":     {Amount: dec("1"), Currency: "USD"},
		"negative amount": {Category: "food", Amount: dec("-0.01"), Currency: "USD"},
		"bad currency":    {Category: "food", Amount: dec("1"), Currency: "USDX"},
	}
	for name, e := range cases {
		_, err := svc.CreateEntry(context.Background(), owner, trip.ID, e)
		assert.ErrorIs(t, err, domain.ErrValidation, name)
	}
}

func TestBudgetService_CreateEntry_ZeroAmount(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	svc := service.NewBudgetService(repos)

	_, err := svc.CreateEntry(context.Background(), owner, trip.ID, domain.BudgetEntry{Category: "museum", Amount: dec("0"), Currency: "USD"})

	assert.NoError(t, err)
}

func TestBudgetService_CreateEntry_ItemOnAnotherTrip(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	other := seedTrip(t, repos, owner, "")
	foreign := seedItem(t, repos, domain.Item{TripID: other.ID, Type: domain.ItemEvent, Name: "Elsewhere"})
	svc := service.NewBudgetService(repos)

	_, err := svc.CreateEntry(context.Background(), owner, trip.ID, domain.BudgetEntry{
		ItemID: &foreign.ID, Category: "event", Amount: dec("5"), Currency: "USD",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	missing := uuid.New()
	_, err = svc.CreateEntry(context.Background(), owner, trip.ID, domain.BudgetEntry{
		ItemID: &missing, Category: "event", Amount: dec("5"), Currency: "USD",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBudgetService_CreateEntry_OtherOwner(t *testing.T) {
	repos := newRepos()
	trip := seedTrip(t, repos, uuid.New(), "")
	svc := service.NewBudgetService(repos)

	_, err := svc.CreateEntry(context.Background(), uuid.New(), trip.ID, domain.BudgetEntry{Category: "food", Amount: dec("1"), Currency: "USD"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBudgetService_Summary(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemTravel, Name: "NYC to LAX", Cost: usd("328.50")})
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemLodging, Name: "Hotel Aurora", Cost: usd("612.00")})
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Louvre", Cost: &domain.Money{Amount: dec("22"), Currency: "EUR"}})
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Free walk"})
	svc := service.NewBudgetService(repos)
	_, err := svc.CreateEntry(context.Background(), owner, trip.ID, domain.BudgetEntry{Category: "lodging", Amount: dec("612.00"), Currency: "USD"})
	require.NoError(t, err)

	got, err := svc.Summary(context.Background(), owner, trip.ID)

	require.NoError(t, err)
	assert.Len(t, got.Lines, 1)
	assert.Equal(t, []string{"EUR", "USD"}, got.EmbeddedTotals.Currencies())
	assert.True(t, dec("940.50").Equal(got.EmbeddedTotals["USD"]), got.EmbeddedTotals["USD"].String())
	assert.True(t, dec("22").Equal(got.EmbeddedTotals["EUR"]))
	assert.True(t, dec("612").Equal(got.ExplicitTotals["USD"]))
	assert.Equal(t, []string{"USD"}, got.ExplicitTotals.Currencies())
}

func TestBudgetService_Summary_EmptyTrip(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	svc := service.NewBudgetService(repos)

	got, err := svc.Summary(context.Background(), owner, trip.ID)

	require.NoError(t, err)
	assert.NotNil(t, got.Lines)
	assert.Empty(t, got.EmbeddedTotals)
	assert.Empty(t, got.ExplicitTotals)
}

func TestRollup_ZeroAmountsKeepCurrency(t *testing.T) {
	id := uuid.New()
	got := service.Rollup(id, []domain.BudgetEntry{{Category: "free", Amount: dec("0"), Currency: "JPY"}}, nil)

	assert.Equal(t, []string{"JPY"}, got.ExplicitTotals.Currencies())
	assert.True(t, got.ExplicitTotals["JPY"].IsZero())
	assert.Equal(t, id, got.TripID)
}
