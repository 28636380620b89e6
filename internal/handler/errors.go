package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/AAWorks/atlas-infra/internal/domain"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string     `json:"code"`
	Message string     `json:"message"`
	ItemID  *uuid.UUID `json:"item_id,omitempty"`
}

// ErrorResponse wraps ErrorDetail as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// fail maps err onto a status code and writes the error envelope. what names
// the resource the handler was looking up, for not-found messages.
// Store failures and anything unrecognised are logged and reported as 500
// without their message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, what string) {
	var partial *domain.PartialWriteError
	switch {
	case errors.As(err, &partial):
		s.log.ErrorContext(r.Context(), "item details not written", "item_id", partial.ItemID, "error", err)
		id := partial.ItemID
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code:    "partial_write",
			Message: "item created but its details could not be saved; retry PUT /items/{itemID}/details",
			ItemID:  &id,
		}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", unwrapMessage(err, domain.ErrValidation)))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", what+" not found"))
	case errors.Is(err, domain.ErrUnsupportedFormat):
		writeJSON(w, http.StatusBadRequest, errorBody("unsupported_format", "unsupported format "+unwrapMessage(err, domain.ErrUnsupportedFormat)))
	case errors.Is(err, domain.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid_request", unwrapMessage(err, domain.ErrInvalidRequest)))
	case errors.Is(err, domain.ErrFormatNotImplemented):
		writeJSON(w, http.StatusNotImplemented, errorBody("not_implemented", "format "+unwrapMessage(err, domain.ErrFormatNotImplemented)+" is not implemented"))
	case errors.Is(err, domain.ErrAuth):
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized", unwrapMessage(err, domain.ErrAuth)))
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// unwrapMessage extracts the human-readable part that follows sentinel in a
// wrapped error.
// e.g. "service.TripService.Create: validation error: title is required" → "title is required"
func unwrapMessage(err, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	if i := strings.LastIndex(msg, sentinel.Error()); i >= 0 {
		return msg[i:]
	}
	return msg
}
