package middleware

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/AAWorks/atlas-infra/internal/auth"
	"github.com/AAWorks/atlas-infra/internal/metrics"
	"github.com/AAWorks/atlas-infra/internal/ratelimit"
)

// NewRateLimit rejects requests over the caller's quota with 429. The key is
// the resolved user id, or the client IP before authentication. When the
// limiter itself fails the request is let through and the failure logged.
// m may be nil.
func NewRateLimit(l ratelimit.Limiter, m *metrics.Metrics, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := l.Allow(r.Context(), limitKey(r))
			if err != nil {
				log.WarnContext(r.Context(), "rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				if m != nil {
					m.IncRateLimited()
				}
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func limitKey(r *http.Request) string {
	if id, ok := auth.IdentityFrom(r.Context()); ok {
		return "user:" + id.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
