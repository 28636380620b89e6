package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/AAWorks/atlas-infra/internal/auth"
	"github.com/AAWorks/atlas-infra/internal/metrics"
	"github.com/AAWorks/atlas-infra/internal/middleware"
	"github.com/AAWorks/atlas-infra/internal/ratelimit"
	"github.com/AAWorks/atlas-infra/spec"
)

// RouterConfig carries everything NewRouter wires together. Limiter and
// Metrics are optional.
type RouterConfig struct {
	Server       *Server
	Resolver     auth.Resolver
	Limiter      ratelimit.Limiter
	Metrics      *metrics.Metrics
	Log          *slog.Logger
	CORSOrigins  []string
	MaxBodyBytes int64
	Ping         func(ctx context.Context) error
}

// NewRouter builds the complete HTTP handler.
//
// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer →
// CORS → Metrics → MaxBodySize. The /api/v1 group adds Auth and then the
// rate limiter, so quotas are per user. Health, metrics and the API
// description are served without authentication.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetrics(cfg.Metrics))
	}
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	}

	r.Get("/healthz", NewHealthHandler(cfg.Ping))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	r.Get("/openapi.yaml", serveOpenAPI)
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NewAuth(cfg.Resolver, log))
		if cfg.Limiter != nil {
			r.Use(middleware.NewRateLimit(cfg.Limiter, cfg.Metrics, log))
		}
		cfg.Server.Routes(r)
	})
	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
