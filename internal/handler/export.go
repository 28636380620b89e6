package handler

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/AAWorks/atlas-infra/internal/domain"
)

// ExportTrip handles GET and POST /trips/{tripID}/export?format=.
// The body is the rendered document, offered as an attachment named after
// the trip. Unknown formats fail with 400 and pdf with 501, before any trip
// data is read.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathID(w, r, "tripID")
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")

	doc, err := s.export.Export(r.Context(), owner, tripID, format)
	if err != nil {
		s.countExport(format, err)
		s.fail(w, r, err, "trip")
		return
	}
	s.countExport(format, nil)

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}

// countExport records the attempt. Unrecognised format names share the
// "other" label so clients cannot grow the metric without bound.
func (s *Server) countExport(format string, err error) {
	if s.metrics == nil {
		return
	}
	label := "other"
	if f, perr := domain.ParseExportFormat(format); perr == nil || errors.Is(perr, domain.ErrFormatNotImplemented) {
		label = string(f)
	}

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUnsupportedFormat):
		outcome = "unsupported_format"
	case errors.Is(err, domain.ErrFormatNotImplemented):
		outcome = "not_implemented"
	case errors.Is(err, domain.ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	s.metrics.IncExport(label, outcome)
}
