package service_test

import (
	"context"
	"sort"
	"testing"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/service"
)

func names(entries []domain.ItineraryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Item.Name
	}
	return out
}

func TestItineraryService_DayBuckets(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemLodging, Name: "Hotel Aurora", StartTime: at("2025-06-01T15:00:00Z")})
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemTravel, Name: "NYC to LAX", StartTime: at("2025-06-01T08:00:00Z")})
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Getty", StartTime: at("2025-06-02T10:00:00Z")})
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Someday"})
	svc := service.NewItineraryService(repos)

	got, err := svc.GetBucketed(context.Background(), owner, trip.ID, nil, nil, "")

	require.NoError(t, err)
	assert.Equal(t, domain.GranularityDay, got.Granularity)
	assert.Equal(t, []string{"2025-06-01", "2025-06-02", domain.UnknownBucket}, got.Keys())
	assert.Equal(t, []string{"NYC to LAX", "Hotel Aurora"}, names(got.Buckets["2025-06-01"]))
	assert.Equal(t, []string{"Someday"}, names(got.Buckets[domain.UnknownBucket]))
	for _, e := range got.Buckets["2025-06-01"] {
		assert.NotNil(t, e.Tickets)
	}
}

func TestItineraryService_WeekBuckets(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	// 2025-06-01 is a Sunday, the last day of ISO week 22.
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Sunday", StartTime: at("2025-06-01T12:00:00Z")})
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Monday", StartTime: at("2025-06-02T12:00:00Z")})
	svc := service.NewItineraryService(repos)

	got, err := svc.GetBucketed(context.Background(), owner, trip.ID, nil, nil, domain.GranularityWeek)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-W22", "2025-W23"}, got.Keys())
}

func TestItineraryService_TripTimeZone(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "America/Los_Angeles")
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Late dinner", StartTime: at("2025-06-02T04:30:00Z")})
	svc := service.NewItineraryService(repos)

	got, err := svc.GetBucketed(context.Background(), owner, trip.ID, nil, nil, domain.GranularityDay)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-01"}, got.Keys())
}

func TestItineraryService_NoTripZoneBucketsInUTC(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Late show", StartTime: at("2025-06-01T20:00:00-07:00")})
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Same instant", StartTime: at("2025-06-02T03:00:00Z")})
	svc := service.NewItineraryService(repos)

	got, err := svc.GetBucketed(context.Background(), owner, trip.ID, nil, nil, domain.GranularityDay)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-02"}, got.Keys())
	assert.Len(t, got.Buckets["2025-06-02"], 2)
}

func TestItineraryService_EndTimeFallback(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemTransportRental, Name: "Car return", EndTime: at("2025-06-03T09:00:00Z")})
	svc := service.NewItineraryService(repos)

	got, err := svc.GetBucketed(context.Background(), owner, trip.ID, nil, nil, domain.GranularityDay)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-03"}, got.Keys())
}

func TestItineraryService_Window(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Day one", StartTime: at("2025-06-01T12:00:00Z")})
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Day two", StartTime: at("2025-06-02T23:59:00Z")})
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Day three", StartTime: at("2025-06-03T00:00:00Z")})
	seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Undated"})
	svc := service.NewItineraryService(repos)

	got, err := svc.GetBucketed(context.Background(), owner, trip.ID, date(2025, 6, 2), date(2025, 6, 2), domain.GranularityDay)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-02", domain.UnknownBucket}, got.Keys())
	assert.Equal(t, []string{"Day two"}, names(got.Buckets["2025-06-02"]))
}

func TestItineraryService_TiesOrderedByID(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		it := seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: name, StartTime: at("2025-06-01T12:00:00Z")})
		ids = append(ids, it.ID.String())
	}
	sort.Strings(ids)
	svc := service.NewItineraryService(repos)

	got, err := svc.GetBucketed(context.Background(), owner, trip.ID, nil, nil, domain.GranularityDay)

	require.NoError(t, err)
	bucket := got.Buckets["2025-06-01"]
	require.Len(t, bucket, 3)
	for i, e := range bucket {
		assert.Equal(t, ids[i], e.Item.ID.String())
	}
}

func TestItineraryService_IncludesDetails(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	item := seedItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemTravel, Name: "NYC to LAX", StartTime: at("2025-06-01T08:00:00Z")})
	_, err := repos.Subtypes.Save(context.Background(), item.ID, domain.TravelSegment{Mode: domain.ModeFlight, Operator: "Delta", Number: "DL123"})
	require.NoError(t, err)
	svc := service.NewItineraryService(repos)

	got, err := svc.GetBucketed(context.Background(), owner, trip.ID, nil, nil, domain.GranularityDay)

	require.NoError(t, err)
	seg, ok := got.Buckets["2025-06-01"][0].Details.(domain.TravelSegment)
	require.True(t, ok)
	assert.Equal(t, "DL123", seg.Number)
}

func TestItineraryService_BadRequests(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	svc := service.NewItineraryService(repos)

	_, err := svc.GetBucketed(context.Background(), owner, trip.ID, nil, nil, "month")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.GetBucketed(context.Background(), owner, trip.ID, date(2025, 6, 3), date(2025, 6, 1), domain.GranularityDay)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.GetBucketed(context.Background(), uuid.New(), trip.ID, nil, nil, domain.GranularityDay)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItineraryService_EmptyTrip(t *testing.T) {
	repos := newRepos()
	owner := uuid.New()
	trip := seedTrip(t, repos, owner, "")
	svc := service.NewItineraryService(repos)

	got, err := svc.GetBucketed(context.Background(), owner, trip.ID, nil, nil, domain.GranularityDay)

	require.NoError(t, err)
	assert.NotNil(t, got.Buckets)
	assert.Empty(t, got.Keys())
}
