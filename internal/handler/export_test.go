package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/handler"
	"github.com/AAWorks/atlas-infra/internal/metrics"
)

// exporterFor returns an Exporter that mimics ExportService's format
// handling around a fixed markdown document.
func exporterFor(calls *int) *mockExporter {
	return &mockExporter{
		export: func(_ context.Context, _, _ uuid.UUID, format string) (domain.Document, error) {
			*calls++
			f, err := domain.ParseExportFormat(format)
			if err != nil {
				return domain.Document{}, fmt.Errorf("service.ExportService.Export: %w", err)
			}
			return domain.Document{
				Format:      f,
				ContentType: "text/markdown; charset=utf-8",
				Filename:    "la-getaway.md",
				Body:        []byte("# LA Getaway\n"),
			}, nil
		},
	}
}

func TestExportTrip_Markdown(t *testing.T) {
	var calls int
	h := newHTTPHandler(handler.Services{Export: exporterFor(&calls)})

	rec := call(t, h, uuid.New(), http.MethodGet, "/api/v1/trips/"+uuid.NewString()+"/export?format=markdown", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=la-getaway.md", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "13", rec.Header().Get("Content-Length"))
	assert.Equal(t, "# LA Getaway\n", rec.Body.String())
}

func TestExportTrip_PostIsAccepted(t *testing.T) {
	var calls int
	h := newHTTPHandler(handler.Services{Export: exporterFor(&calls)})

	rec := call(t, h, uuid.New(), http.MethodPost, "/api/v1/trips/"+uuid.NewString()+"/export?format=md", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestExportTrip_UnknownFormat_Returns400(t *testing.T) {
	var calls int
	h := newHTTPHandler(handler.Services{Export: exporterFor(&calls)})

	rec := call(t, h, uuid.New(), http.MethodGet, "/api/v1/trips/"+uuid.NewString()+"/export?format=xml", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "unsupported_format", e.Code)
	assert.Contains(t, e.Message, "xml")
}

func TestExportTrip_MissingFormat_Returns400(t *testing.T) {
	var calls int
	h := newHTTPHandler(handler.Services{Export: exporterFor(&calls)})

	rec := call(t, h, uuid.New(), http.MethodGet, "/api/v1/trips/"+uuid.NewString()+"/export", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unsupported_format", decodeError(t, rec).Code)
}

func TestExportTrip_PDF_Returns501(t *testing.T) {
	var calls int
	h := newHTTPHandler(handler.Services{Export: exporterFor(&calls)})

	rec := call(t, h, uuid.New(), http.MethodGet, "/api/v1/trips/"+uuid.NewString()+"/export?format=pdf", nil)

	require.Equal(t, http.StatusNotImplemented, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "not_implemented", e.Code)
	assert.Equal(t, "format pdf is not implemented", e.Message)
}

func TestExportTrip_TripNotFound_Returns404(t *testing.T) {
	h := newHTTPHandler(handler.Services{Export: &mockExporter{
		export: func(context.Context, uuid.UUID, uuid.UUID, string) (domain.Document, error) {
			return domain.Document{}, fmt.Errorf("service.ExportService.Export: %w", domain.ErrNotFound)
		},
	}})

	rec := call(t, h, uuid.New(), http.MethodGet, "/api/v1/trips/"+uuid.NewString()+"/export?format=html", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "trip not found", decodeError(t, rec).Message)
}

func TestExportTrip_CountsOutcomes(t *testing.T) {
	var calls int
	m := metrics.New()
	h := newHTTPHandler(handler.Services{Export: exporterFor(&calls), Metrics: m})
	owner, trip := uuid.New(), uuid.NewString()

	for _, format := range []string{"markdown", "md", "xml", "pdf", "html"} {
		call(t, h, owner, http.MethodGet, "/api/v1/trips/"+trip+"/export?format="+format, nil)
	}

	rec := call(t, h, uuid.Nil, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `atlas_exports_total{format="markdown",outcome="ok"} 2`)
	assert.Contains(t, body, `atlas_exports_total{format="html",outcome="ok"} 1`)
	assert.Contains(t, body, `atlas_exports_total{format="other",outcome="unsupported_format"} 1`)
	assert.Contains(t, body, `atlas_exports_total{format="pdf",outcome="not_implemented"} 1`)
	assert.Contains(t, body, `route="/api/v1/trips/{tripID}/export"`)
}
