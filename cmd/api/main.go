// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the FilmArchive HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the catalog store (PostgreSQL, SQLite or MySQL).
//  4. Run database migrations (idempotent).
//  5. Select the flash store (Redis or in-memory).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/filmarchive/internal/api"
	"github.com/taibuivan/filmarchive/internal/core/catalog"
	"github.com/taibuivan/filmarchive/internal/platform/config"
	"github.com/taibuivan/filmarchive/internal/platform/constants"
	"github.com/taibuivan/filmarchive/internal/platform/flash"
	"github.com/taibuivan/filmarchive/internal/platform/middleware"
	"github.com/taibuivan/filmarchive/internal/platform/migration"
	pgstore "github.com/taibuivan/filmarchive/internal/platform/postgres"
	redisstore "github.com/taibuivan/filmarchive/internal/platform/redis"
	"github.com/taibuivan/filmarchive/internal/platform/sec"
	"github.com/taibuivan/filmarchive/internal/platform/sqldb"
	"github.com/taibuivan/filmarchive/internal/platform/upload"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "filmarchive"))
	slog.SetDefault(log)

	log.Info("[FilmArchive] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "filmarchive"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("database_driver", cfg.DatabaseDriver),
	)

	// Root context for the process. Cancelled on shutdown so background
	// workers (rate limiter sweeper) stop with the server.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Catalog Store ──────────────────────────────────────────────────
	repository, closeStore, err := openCatalogStore(startupCtx, cfg, log)
	must(log, err, "open catalog store")
	defer closeStore()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.DialectMigrationPath(), log), "run migrations")

	// ── 5. Flash Store ────────────────────────────────────────────────────
	var flashes flash.Store = flash.NewMemoryStore(constants.FlashTTL)
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
		flashes = flash.NewRedisStore(rdb, constants.FlashTTL)
	} else {
		log.Info("flash_store_in_memory")
	}

	// ── 6. Auth (optional) ────────────────────────────────────────────────
	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled() {
		jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
		must(log, err, "initialize jwt service")
		verifier = jwtSvc
		log.Info("auth_enabled_for_mutations")
	}

	// ── 7. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers([]api.HealthCheck{
		{Name: "database", Check: repository.Ping},
		{Name: "flash", Check: flashes.Ping},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	images, err := upload.NewStore(cfg.UploadPath(), "/"+cfg.UploadDir, log)
	must(log, err, "prepare upload directory")

	catalogService := catalog.NewService(repository, images, flashes, log)
	catalogHandler := catalog.NewHandler(catalogService, cfg.MaxUploadBytes, cfg.AuthEnabled())

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Catalog:   catalogHandler,
		Flash:     api.NewFlashHandler(flashes),
	}

	server := api.NewServer(rootCtx, cfg, log, verifier, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// openCatalogStore connects the repository selected by DATABASE_DRIVER and
// returns a func releasing its connections.
func openCatalogStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (catalog.EntryRepository, func(), error) {
	if cfg.DatabaseDriver == config.DriverPostgres {
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, err
		}
		return catalog.NewPostgresStore(pool), func() {
			log.Info("closing postgres pool")
			pool.Close()
		}, nil
	}

	db, err := sqldb.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewSQLStore(db), func() {
		log.Info("closing database", slog.String("driver", cfg.DatabaseDriver))
		if cerr := db.Close(); cerr != nil {
			log.Error("database close error", slog.Any("error", cerr))
		}
	}, nil
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
