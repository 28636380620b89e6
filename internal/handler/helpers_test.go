package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AAWorks/atlas-infra/internal/auth"
	"github.com/AAWorks/atlas-infra/internal/handler"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

// newHTTPHandler wires a Server with the given mocks into the full router,
// trusting X-User-ID for identity. This mirrors how main.go wires it in
// demo mode.
func newHTTPHandler(s handler.Services) http.Handler {
	s.Log = quietLog
	return handler.NewRouter(handler.RouterConfig{
		Server:       handler.NewServer(s),
		Resolver:     auth.HeaderResolver{},
		Metrics:      s.Metrics,
		Log:          quietLog,
		MaxBodyBytes: 1 << 20,
	})
}

// call sends a request as owner. body may be nil, a string sent verbatim, or
// any value encoded as JSON.
func call(t *testing.T, h http.Handler, owner uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if owner != uuid.Nil {
		req.Header.Set(auth.HeaderUserID, owner.String())
	}
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

// mustField returns the raw JSON of one top-level field of body.
func mustField(t *testing.T, body []byte, name string) string {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &fields))
	raw, ok := fields[name]
	require.True(t, ok, "field %q missing", name)
	return string(raw)
}
