// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Laureate nomination API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Open the backup directory, file storage and event publisher.
//  7. Wire the nomination domain and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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
	_ "time/tzdata"

	"github.com/taibuivan/laureate/internal/api"
	"github.com/taibuivan/laureate/internal/media"
	"github.com/taibuivan/laureate/internal/nomination"
	"github.com/taibuivan/laureate/internal/platform/config"
	"github.com/taibuivan/laureate/internal/platform/constants"
	"github.com/taibuivan/laureate/internal/platform/events"
	"github.com/taibuivan/laureate/internal/platform/metrics"
	"github.com/taibuivan/laureate/internal/platform/migration"
	pgstore "github.com/taibuivan/laureate/internal/platform/postgres"
	redisstore "github.com/taibuivan/laureate/internal/platform/redis"
	"github.com/taibuivan/laureate/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "laureate"))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "laureate"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("object_storage", cfg.UsesObjectStorage()),
		slog.Bool("events", cfg.PublishesEvents()),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Reviewer token verification ────────────────────────────────────
	verifier, err := sec.LoadVerifier(cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "load jwt public key")

	// ── 7. Storage, files and events ──────────────────────────────────────
	backup, err := nomination.NewFileBackupStore(cfg.BackupDir)
	must(log, err, "open backup directory")

	var files media.Storage
	if cfg.UsesObjectStorage() {
		files, err = media.NewS3Storage(startupCtx, cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
		must(log, err, "configure object storage")
	} else {
		files, err = media.NewDiskStorage(cfg.UploadDir)
		must(log, err, "open upload directory")
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.PublishesEvents() {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			log.Error("event_publisher_close_error", slog.Any("error", cerr))
		}
	}()

	registry := metrics.New()

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers([]api.HealthCheck{
		{Name: "postgres", Check: func() error { return pgstore.Ping(context.Background(), pool) }},
		{Name: "redis", Check: func() error { return redisstore.Ping(context.Background(), rdb) }},
		{Name: "backup_dir", Check: backup.Writable},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	repository := nomination.NewPostgresRepository(pool)
	statusCache := nomination.NewRedisStatusCache(rdb, cfg.StatusCacheTTL)
	gateway := nomination.NewGateway(repository, backup, files, registry)
	awardLocation, err := cfg.AwardLocation()
	must(log, err, "load award timezone")

	nominationService := nomination.NewService(gateway, repository, backup, statusCache, publisher, registry).
		WithLocation(awardLocation)
	nominationHandler := nomination.NewHandler(nominationService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, api.Options{
		Port:     cfg.ServerPort,
		Origins:  cfg,
		Verifier: verifier,
		Observer: registry.ObserveRequest,
	}, log, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Metrics:    registry.Handler(),
		Nomination: nominationHandler,
	})

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight submissions enough time to finish their dual write.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
