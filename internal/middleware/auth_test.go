package middleware_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AAWorks/atlas-infra/internal/auth"
	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/middleware"
)

// stubResolver resolves every request to id, or fails with err when set.
type stubResolver struct {
	id  uuid.UUID
	err error
}

func (s *stubResolver) Resolve(*http.Request) (uuid.UUID, error) {
	return s.id, s.err
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestAuth_StoresIdentity(t *testing.T) {
	id := uuid.New()
	var seen uuid.UUID
	h := middleware.NewAuth(&stubResolver{id: id}, discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, seen)
}

func TestAuth_Rejects(t *testing.T) {
	called := false
	h := middleware.NewAuth(&stubResolver{err: fmt.Errorf("%w: token expired", domain.ErrAuth)}, discard)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"unauthorized","message":"token expired"}}`, rec.Body.String())
}

func TestAuth_WithHeaderResolver(t *testing.T) {
	h := middleware.NewAuth(auth.HeaderResolver{}, discard)(trivialHandler)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
	req.Header.Set(auth.HeaderUserID, id.String())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
