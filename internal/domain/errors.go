package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist or is not visible to the calling identity.
// Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business rule
// (missing required field, end before start, subtype/type mismatch).
// Handlers map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidRequest marks a request that is well-formed JSON but cannot be
// acted on: an empty patch, an unknown bucket granularity, a from/to window
// that is inverted. Handlers map this to HTTP 400.
var ErrInvalidRequest = errors.New("invalid request")

// ErrUnsupportedFormat is an ErrInvalidRequest raised for an export format
// name that is not recognised at all.
var ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", ErrInvalidRequest)

// ErrFormatNotImplemented is returned for a recognised export format that has
// no renderer yet. Handlers map this to HTTP 501.
var ErrFormatNotImplemented = errors.New("format not implemented")

// ErrAuth is returned when the caller's identity cannot be resolved.
// Handlers map this to HTTP 401.
var ErrAuth = errors.New("unauthenticated")

// ErrStore wraps every failure reported by the record store itself.
// Handlers map this to HTTP 500 without leaking the underlying message.
var ErrStore = errors.New("store failure")

// PartialWriteError reports that an itinerary item row was written but the
// write of its subtype payload failed. The item exists without its details;
// callers can retry the payload write against ItemID.
type PartialWriteError struct {
	ItemID uuid.UUID
	Err    error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("item %s created without details: %v", e.ItemID, e.Err)
}

// Unwrap exposes both ErrStore and the underlying cause to errors.Is.
func (e *PartialWriteError) Unwrap() []error {
	return []error{ErrStore, e.Err}
}
