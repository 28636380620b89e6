package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AAWorks/atlas-infra/internal/auth"
	"github.com/AAWorks/atlas-infra/internal/metrics"
	"github.com/AAWorks/atlas-infra/internal/middleware"
	"github.com/AAWorks/atlas-infra/internal/ratelimit"
)

// mockLimiter records the keys it is asked about.
type mockLimiter struct {
	allow func(key string) (bool, error)
	keys  []string
}

func (m *mockLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.keys = append(m.keys, key)
	return m.allow(key)
}

func TestRateLimit_RejectsOverQuota(t *testing.T) {
	m := metrics.New()
	h := middleware.NewRateLimit(ratelimit.NewMemory(0.001, 1), m, discard)(trivialHandler)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send().Code)
	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"rate_limited"`)

	metricsRec := httptest.NewRecorder()
	m.Handler().ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, metricsRec.Body.String(), "atlas_rate_limited_total 1")
}

func TestRateLimit_KeysByIdentityThenIP(t *testing.T) {
	l := &mockLimiter{allow: func(string) (bool, error) { return true, nil }}
	h := middleware.NewRateLimit(l, nil, discard)(trivialHandler)
	id := uuid.New()

	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	anon.RemoteAddr = "198.51.100.1:4000"
	h.ServeHTTP(httptest.NewRecorder(), anon)

	known := httptest.NewRequest(http.MethodGet, "/", nil)
	known = known.WithContext(auth.WithIdentity(known.Context(), id))
	h.ServeHTTP(httptest.NewRecorder(), known)

	assert.Equal(t, []string{"ip:198.51.100.1", "user:" + id.String()}, l.keys)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	l := &mockLimiter{allow: func(string) (bool, error) { return false, errors.New("redis down") }}
	h := middleware.NewRateLimit(l, nil, discard)(trivialHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", strings.NewReader("")))

	assert.Equal(t, http.StatusOK, rec.Code)
}
