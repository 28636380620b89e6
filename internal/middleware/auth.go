package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/AAWorks/atlas-infra/internal/auth"
	"github.com/AAWorks/atlas-infra/internal/domain"
)

// NewAuth resolves the caller with resolver and stores the id in the request
// context. Unresolved requests get 401 and never reach next.
func NewAuth(resolver auth.Resolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolver.Resolve(r)
			if err != nil {
				log.DebugContext(r.Context(), "unauthenticated request", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusUnauthorized, "unauthorized", authMessage(err))
				return
			}
			if info := infoFrom(r.Context()); info != nil {
				info.userID = id
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

func authMessage(err error) string {
	return strings.TrimPrefix(err.Error(), domain.ErrAuth.Error()+": ")
}
