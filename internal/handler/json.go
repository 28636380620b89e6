package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/AAWorks/atlas-infra/internal/auth"
	"github.com/AAWorks/atlas-infra/internal/domain"
)

// errBodyTooLarge is reported when http.MaxBytesReader cuts a body short.
var errBodyTooLarge = errors.New("request body too large")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into dst, rejecting unknown fields and
// trailing data. Failures wrap domain.ErrInvalidRequest, except a body over
// the size limit which returns errBodyTooLarge.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return errBodyTooLarge
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is required", domain.ErrInvalidRequest)
		}
		return fmt.Errorf("%w: malformed request body: %s", domain.ErrInvalidRequest, strings.TrimPrefix(err.Error(), "json: "))
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must contain a single JSON object", domain.ErrInvalidRequest)
	}
	return nil
}

// decode is decodeJSON plus the error response. It reports whether the
// handler may continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := decodeJSON(r, dst)
	if err == nil {
		return true
	}
	if errors.Is(err, errBodyTooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("payload_too_large", err.Error()))
		return false
	}
	s.fail(w, r, err, "")
	return false
}

// owner returns the caller resolved by the auth middleware. A request that
// reaches a handler without one is answered with 401.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		s.fail(w, r, fmt.Errorf("%w: no identity on request", domain.ErrAuth), "")
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses the named chi URL parameter as a UUID.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %s must be a uuid", domain.ErrInvalidRequest, name), "")
		return uuid.Nil, false
	}
	return id, true
}

// Amount is a decimal that encodes as a bare JSON number and accepts either
// a number or a numeric string.
type Amount struct {
	decimal.Decimal
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// costToDomain pairs the flat cost_amount/cost_currency fields into a
// domain.Money. A currency without an amount means no cost; an amount
// without a currency is rejected.
func costToDomain(amount *Amount, currency *string) (*domain.Money, error) {
	if amount == nil {
		return nil, nil
	}
	if currency == nil || strings.TrimSpace(*currency) == "" {
		return nil, fmt.Errorf("%w: cost_currency is required when cost_amount is set", domain.ErrValidation)
	}
	return &domain.Money{Amount: amount.Decimal, Currency: *currency}, nil
}

func costToResponse(m *domain.Money) (*Amount, *string) {
	if m == nil {
		return nil, nil
	}
	cur := m.Currency
	return &Amount{m.Amount}, &cur
}

func totalsToResponse(t domain.Totals) map[string]Amount {
	out := make(map[string]Amount, len(t))
	for cur, v := range t {
		out[cur] = Amount{v}
	}
	return out
}

func dateToDomain(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func dateToResponse(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

// parseDateParam reads an optional YYYY-MM-DD query parameter.
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD)", domain.ErrInvalidRequest, name)
	}
	return &t, nil
}
