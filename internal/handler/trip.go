package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/AAWorks/atlas-infra/internal/domain"
)

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	StartDate    *openapi_types.Date `json:"start_date,omitempty"`
	EndDate      *openapi_types.Date `json:"end_date,omitempty"`
	HomeCurrency string              `json:"home_currency,omitempty"`
	TimeZone     string              `json:"time_zone,omitempty"`
	Notes        string              `json:"notes,omitempty"`
}

// UpdateTripRequest is the body of PATCH /trips/{tripID}. Absent fields are
// left unchanged.
type UpdateTripRequest struct {
	Title        *string             `json:"title,omitempty"`
	Description  *string             `json:"description,omitempty"`
	StartDate    *openapi_types.Date `json:"start_date,omitempty"`
	EndDate      *openapi_types.Date `json:"end_date,omitempty"`
	HomeCurrency *string             `json:"home_currency,omitempty"`
	TimeZone     *string             `json:"time_zone,omitempty"`
	Notes        *string             `json:"notes,omitempty"`
}

// Trip is the response representation of a trip.
type Trip struct {
	ID           uuid.UUID           `json:"id"`
	OwnerID      uuid.UUID           `json:"owner_id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	StartDate    *openapi_types.Date `json:"start_date"`
	EndDate      *openapi_types.Date `json:"end_date"`
	HomeCurrency string              `json:"home_currency"`
	TimeZone     string              `json:"time_zone"`
	Notes        string              `json:"notes"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	var body CreateTripRequest
	if !s.decode(w, r, &body) {
		return
	}

	created, err := s.trips.Create(r.Context(), owner, requestToTrip(body))
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	trips, err := s.trips.List(r.Context(), owner)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, map[string][]Trip{"data": data})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "tripID")
	if !ok {
		return
	}

	trip, err := s.trips.Get(r.Context(), owner, id)
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PATCH /trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "tripID")
	if !ok {
		return
	}
	var body UpdateTripRequest
	if !s.decode(w, r, &body) {
		return
	}

	updated, err := s.trips.Update(r.Context(), owner, id, requestToTripPatch(body))
	if err != nil {
		s.fail(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// --- mapping helpers --------------------------------------------------------

func requestToTrip(body CreateTripRequest) domain.Trip {
	return domain.Trip{
		Title:        body.Title,
		Description:  body.Description,
		StartDate:    dateToDomain(body.StartDate),
		EndDate:      dateToDomain(body.EndDate),
		HomeCurrency: body.HomeCurrency,
		TimeZone:     body.TimeZone,
		Notes:        body.Notes,
	}
}

func requestToTripPatch(body UpdateTripRequest) domain.TripPatch {
	return domain.TripPatch{
		Title:        body.Title,
		Description:  body.Description,
		StartDate:    dateToDomain(body.StartDate),
		EndDate:      dateToDomain(body.EndDate),
		HomeCurrency: body.HomeCurrency,
		TimeZone:     body.TimeZone,
		Notes:        body.Notes,
	}
}

func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:           t.ID,
		OwnerID:      t.OwnerID,
		Title:        t.Title,
		Description:  t.Description,
		StartDate:    dateToResponse(t.StartDate),
		EndDate:      dateToResponse(t.EndDate),
		HomeCurrency: t.HomeCurrency,
		TimeZone:     t.TimeZone,
		Notes:        t.Notes,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
