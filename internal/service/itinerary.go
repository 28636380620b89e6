package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/repo"
)

// enrichConcurrency caps the per-item lookups in flight for one request.
const enrichConcurrency = 8

// ItineraryService builds the bucketed view of a trip's items.
type ItineraryService struct {
	trips    repo.TripRepo
	items    repo.ItemRepo
	subtypes repo.SubtypeRepo
	tickets  repo.TicketRepo
}

// NewItineraryService constructs an ItineraryService from the bundled repositories.
func NewItineraryService(r repo.Repos) *ItineraryService {
	return &ItineraryService{trips: r.Trips, items: r.Items, subtypes: r.Subtypes, tickets: r.Tickets}
}

// GetBucketed returns the owner's trip items grouped by day or ISO week.
//
// from and to are inclusive calendar dates; either may be nil. An item's
// date is taken from its start time, or its end time when it has no start,
// in the trip's time zone, or UTC when the trip has none. Undated items are
// never filtered out and land in the "unknown" bucket. Within a bucket items
// are ordered by time, then by id.
func (s *ItineraryService) GetBucketed(ctx context.Context, owner, tripID uuid.UUID, from, to *time.Time, g domain.Granularity) (domain.BucketedItinerary, error) {
	if g == "" {
		g = domain.GranularityDay
	}
	if !g.Valid() {
		return domain.BucketedItinerary{}, fmt.Errorf("service.ItineraryService.GetBucketed: %w: bucket must be day or week", domain.ErrInvalidRequest)
	}
	if from != nil && to != nil && to.Before(*from) {
		return domain.BucketedItinerary{}, fmt.Errorf("service.ItineraryService.GetBucketed: %w: from must not be after to", domain.ErrInvalidRequest)
	}

	trip, err := s.trips.GetByID(ctx, owner, tripID)
	if err != nil {
		return domain.BucketedItinerary{}, fmt.Errorf("service.ItineraryService.GetBucketed: %w", err)
	}
	out, err := s.bucket(ctx, trip, from, to, g)
	if err != nil {
		return domain.BucketedItinerary{}, fmt.Errorf("service.ItineraryService.GetBucketed: %w", err)
	}
	return out, nil
}

// bucket groups the items of an already loaded, owner-checked trip.
func (s *ItineraryService) bucket(ctx context.Context, trip domain.Trip, from, to *time.Time, g domain.Granularity) (domain.BucketedItinerary, error) {
	items, err := s.items.ListByTrip(ctx, trip.ID)
	if err != nil {
		return domain.BucketedItinerary{}, err
	}

	loc := trip.Location()
	kept := filterWindow(items, loc, dateKey(from), dateKey(to))
	sortItems(kept)

	entries, err := s.enrichAll(ctx, kept)
	if err != nil {
		return domain.BucketedItinerary{}, err
	}

	out := domain.BucketedItinerary{
		TripID:      trip.ID,
		Granularity: g,
		Buckets:     make(map[string][]domain.ItineraryEntry),
	}
	for _, e := range entries {
		key := bucketKey(e.Item.EffectiveTime(), loc, g)
		out.Buckets[key] = append(out.Buckets[key], e)
	}
	return out, nil
}

// enrichAll looks up payloads and ticket links for every item concurrently,
// keeping the input order.
func (s *ItineraryService) enrichAll(ctx context.Context, items []domain.Item) ([]domain.ItineraryEntry, error) {
	entries := make([]domain.ItineraryEntry, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			e, err := enrich(gctx, s.subtypes, s.tickets, it)
			if err != nil {
				return err
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// filterWindow keeps undated items and dated items whose local date falls in
// [from, to]. Empty bounds are open.
func filterWindow(items []domain.Item, loc *time.Location, from, to string) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		eff := it.EffectiveTime()
		if eff == nil {
			out = append(out, it)
			continue
		}
		day := localDate(*eff, loc)
		if from != "" && day < from {
			continue
		}
		if to != "" && day > to {
			continue
		}
		out = append(out, it)
	}
	return out
}

// sortItems orders by effective time, then id, with undated items last.
func sortItems(items []domain.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].EffectiveTime(), items[j].EffectiveTime()
		switch {
		case a == nil && b == nil:
			return items[i].ID.String() < items[j].ID.String()
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
}

// bucketKey returns "YYYY-MM-DD" or "YYYY-Www" for t, or the unknown key.
func bucketKey(t *time.Time, loc *time.Location, g domain.Granularity) string {
	if t == nil {
		return domain.UnknownBucket
	}
	local := t.In(loc)
	if g == domain.GranularityWeek {
		year, week := local.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
	return local.Format(time.DateOnly)
}

func localDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}

// dateKey formats a calendar-date bound, "" when absent.
func dateKey(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(time.DateOnly)
}
