// Package main is the entry point for the visitor-registration API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/robfig/cron/v3"

	"github.com/ganbold/flaming-cliffs/backend/internal/cache"
	"github.com/ganbold/flaming-cliffs/backend/internal/config"
	"github.com/ganbold/flaming-cliffs/backend/internal/handler"
	"github.com/ganbold/flaming-cliffs/backend/internal/middleware"
	"github.com/ganbold/flaming-cliffs/backend/internal/repo"
	"github.com/ganbold/flaming-cliffs/backend/internal/service"
	"github.com/ganbold/flaming-cliffs/backend/migrations"
)

// maxBodySize caps request bodies at 1 MiB. Registration payloads are small;
// anything larger is a client bug or abuse.
const maxBodySize = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Reporting timezone ----------------------------------------------
	loc, err := cfg.Location()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Migrations -------------------------------------------------------
	// Run pending migrations before opening the pool so the schema is in
	// place before the first query. goose needs database/sql, so a short-
	// lived stdlib connection is used just for this step.
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations up to date")

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Cache ------------------------------------------------------------
	var statsCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(context.Background(), cfg.RedisAddr)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		statsCache = redisCache
		slog.Info("redis connection established", "addr", cfg.RedisAddr)
	}

	// --- Services ---------------------------------------------------------
	regRepo := repo.NewRegistrationRepo(pool)
	statsRepo := repo.NewVisitorStatsRepo(pool)

	regService := service.NewRegistrationService(regRepo, statsRepo, loc)
	statsService := service.NewStatsService(regRepo, statsRepo, statsCache, cfg.StatsCacheTTL, loc)
	rollupService := service.NewRollupService(regRepo, statsRepo, loc)

	// --- Rollup job -------------------------------------------------------
	// Nightly reconciliation rebuilds the visitor_stats cache rows from the
	// registrations table, repairing any drift from lost concurrent updates.
	if cfg.RollupSchedule != "" {
		scheduler := cron.New(cron.WithLocation(loc))
		_, err := scheduler.AddFunc(cfg.RollupSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := rollupService.Reconcile(ctx, cfg.RollupLookbackDays); err != nil {
				slog.Error("visitor stats rollup failed", "error", err)
				return
			}
			slog.Info("visitor stats rollup complete", "lookback_days", cfg.RollupLookbackDays)
		})
		if err != nil {
			slog.Error("invalid rollup schedule", "schedule", cfg.RollupSchedule, "error", err)
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
		slog.Info("rollup job scheduled", "schedule", cfg.RollupSchedule)
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodySize))

	server := handler.NewServer(regService, statsService)
	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies all pending goose migrations from the embedded FS.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	if _, err := provider.Up(context.Background()); err != nil {
		return err
	}
	return nil
}
