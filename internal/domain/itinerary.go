package domain

import (
	"sort"

	"github.com/google/uuid"
)

// Granularity selects how itinerary items are grouped.
type Granularity string

const (
	GranularityDay  Granularity = "day"
	GranularityWeek Granularity = "week"
)

// Valid reports whether g is a known granularity.
func (g Granularity) Valid() bool {
	return g == GranularityDay || g == GranularityWeek
}

// UnknownBucket is the key that collects items with neither start nor end time.
const UnknownBucket = "unknown"

// ItineraryEntry is an item enriched with its subtype payload and ticket links.
// Details is nil when no payload was ever stored for the item.
type ItineraryEntry struct {
	Item    Item
	Details Subtype
	Tickets []TicketLink
}

// BucketedItinerary groups a trip's items by calendar day or ISO week.
// Keys are "YYYY-MM-DD", "YYYY-Www" or UnknownBucket.
type BucketedItinerary struct {
	TripID      uuid.UUID
	Granularity Granularity
	Buckets     map[string][]ItineraryEntry
}

// Keys returns the bucket keys in lexicographic order. Date keys sort
// chronologically and "unknown" sorts after every date.
func (b BucketedItinerary) Keys() []string {
	keys := make([]string, 0, len(b.Buckets))
	for k := range b.Buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
