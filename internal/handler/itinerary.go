package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
)

// Itinerary is the response of GET /trips/{tripID}/itinerary. Bucket keys
// are calendar dates, ISO weeks or "unknown".
type Itinerary struct {
	TripID      uuid.UUID                   `json:"trip_id"`
	Granularity domain.Granularity          `json:"bucket"`
	Buckets     map[string][]ItineraryEntry `json:"buckets"`
}

// GetItinerary handles GET /trips/{tripID}/itinerary?from=&to=&bucket=.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathID(w, r, "tripID")
	if !ok {
		return
	}
	from, err := parseDateParam(r, "from")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	g := domain.Granularity(r.URL.Query().Get("bucket"))

	itin, err := s.itinerary.GetBucketed(r.Context(), owner, tripID, from, to, g)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	out := Itinerary{
		TripID:      itin.TripID,
		Granularity: itin.Granularity,
		Buckets:     make(map[string][]ItineraryEntry, len(itin.Buckets)),
	}
	for key, entries := range itin.Buckets {
		list := make([]ItineraryEntry, len(entries))
		for i, e := range entries {
			list[i] = entryToResponse(e)
		}
		out.Buckets[key] = list
	}
	writeJSON(w, http.StatusOK, out)
}
