// Package main is the entry point for the Atlas API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // trip time zones must resolve on minimal images

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/AAWorks/atlas-infra/internal/auth"
	"github.com/AAWorks/atlas-infra/internal/config"
	"github.com/AAWorks/atlas-infra/internal/handler"
	"github.com/AAWorks/atlas-infra/internal/metrics"
	"github.com/AAWorks/atlas-infra/internal/ratelimit"
	"github.com/AAWorks/atlas-infra/internal/repo"
	"github.com/AAWorks/atlas-infra/internal/seed"
	"github.com/AAWorks/atlas-infra/internal/service"
	"github.com/AAWorks/atlas-infra/internal/store"
	"github.com/AAWorks/atlas-infra/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Record store -----------------------------------------------------
	var (
		recordStore store.Store
		ping        func(context.Context) error
	)
	switch cfg.StoreBackend {
	case config.BackendMemory:
		recordStore = store.NewMemory()
		slog.Warn("using in-memory store; data is lost on exit")
	default:
		// New() does not open connections immediately; the first query does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		// Verify the DB is reachable before accepting traffic.
		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		slog.Info("database connection established")

		if cfg.MigrateOnStart {
			if err := migrate(ctx, pool); err != nil {
				slog.Error("failed to apply migrations", "error", err)
				os.Exit(1)
			}
		}
		recordStore = store.NewPostgres(pool)
		ping = pool.Ping
	}

	// --- Services ---------------------------------------------------------
	repos := repo.New(recordStore, cfg.Tables)
	trips := service.NewTripService(repos.Trips)
	items := service.NewItemService(repos)
	itinerary := service.NewItineraryService(repos)
	budget := service.NewBudgetService(repos)
	documents := service.NewDocumentService(repos)
	exporter := service.NewExportService(repos.Trips, itinerary, budget)

	if cfg.SeedDemo {
		if cfg.StoreBackend != config.BackendMemory {
			slog.Warn("SEED_DEMO ignored: demo data is only loaded into the memory store")
		} else {
			owner := cfg.DemoUserID
			if owner == uuid.Nil {
				owner = uuid.New()
			}
			res, err := seed.LAGetaway(ctx, seed.Services{Trips: trips, Items: items, Budget: budget}, owner, time.Now().AddDate(0, 0, 45))
			if err != nil {
				slog.Error("failed to seed demo data", "error", err)
				os.Exit(1)
			}
			slog.Info("demo trip seeded", "owner", owner, "trip_id", res.Trip.ID)
		}
	}

	// --- Identity ---------------------------------------------------------
	var resolver auth.Resolver
	switch cfg.AuthMode {
	case config.AuthHeader:
		resolver = auth.HeaderResolver{}
		slog.Warn("trusting " + auth.HeaderUserID + " for identity; do not expose this instance")
	default:
		resolver = auth.NewJWTResolver(cfg.JWTSecret)
	}

	// --- Rate limiting ----------------------------------------------------
	var limiter ratelimit.Limiter
	switch {
	case cfg.RateLimitRPS <= 0:
		slog.Info("rate limiting disabled")
	case cfg.RedisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := ratelimit.Ping(ctx, client); err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		// A window that refills a full burst at the configured rate.
		window := time.Duration(float64(cfg.RateLimitBurst) / cfg.RateLimitRPS * float64(time.Second))
		limiter = ratelimit.NewRedis(client, cfg.RateLimitBurst, window)
		slog.Info("rate limiting via redis", "addr", cfg.RedisAddr, "limit", cfg.RateLimitBurst, "window", window)
	default:
		limiter = ratelimit.NewMemory(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	// --- Router -----------------------------------------------------------
	m := metrics.New()
	router := handler.NewRouter(handler.RouterConfig{
		Server: handler.NewServer(handler.Services{
			Trips:     trips,
			Items:     items,
			Itinerary: itinerary,
			Budget:    budget,
			Documents: documents,
			Export:    exporter,
			Log:       logger,
			Metrics:   m,
		}),
		Resolver:     resolver,
		Limiter:      limiter,
		Metrics:      m,
		Log:          logger,
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Ping:         ping,
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "store", cfg.StoreBackend, "auth", cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies the embedded goose migrations through a database/sql
// handle borrowed from the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, r := range results {
		slog.Info("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}
