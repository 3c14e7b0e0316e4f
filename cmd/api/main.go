// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Cadenza HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Run database migrations (idempotent).
//  4. Connect to PostgreSQL (pgxpool) and Redis.
//  5. Load token keys and build the upload policy registry.
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

	"github.com/taibuivan/cadenza/internal/api"
	"github.com/taibuivan/cadenza/internal/learning/material"
	"github.com/taibuivan/cadenza/internal/music"
	"github.com/taibuivan/cadenza/internal/platform/config"
	"github.com/taibuivan/cadenza/internal/platform/constants"
	"github.com/taibuivan/cadenza/internal/platform/middleware"
	"github.com/taibuivan/cadenza/internal/platform/migration"
	pgstore "github.com/taibuivan/cadenza/internal/platform/postgres"
	redisstore "github.com/taibuivan/cadenza/internal/platform/redis"
	"github.com/taibuivan/cadenza/internal/platform/sec"
	"github.com/taibuivan/cadenza/internal/platform/storage"
	"github.com/taibuivan/cadenza/internal/platform/upload"
	"github.com/taibuivan/cadenza/internal/support/contact"
	"github.com/taibuivan/cadenza/internal/users/account"
	"github.com/taibuivan/cadenza/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.Port()),
		slog.Any("jwt_algorithms", cfg.JWTAlgorithms),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 4. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("redis_client_closing")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Security & Uploads ─────────────────────────────────────────────
	publicKey, err := sec.LoadPublicKey(cfg.JWTPubKeyPath)
	must(log, err, "load jwt public key")
	privateKey, err := sec.LoadRSAPrivateKey(cfg.JWTPrivKeyPath)
	must(log, err, "load jwt private key")

	verifier, err := sec.NewTokenVerifier(publicKey, cfg.JWTAlgorithms, sec.WithIssuer(cfg.JWTIssuer))
	must(log, err, "initialize token verifier")
	issuer := sec.NewTokenIssuer(privateKey, cfg.JWTIssuer)

	registry, err := upload.NewRegistry(upload.Config{
		MaxFileBytes:   cfg.UploadMaxFileBytes,
		MaxFiles:       cfg.UploadMaxFiles,
		AudioMaxBytes:  cfg.UploadAudioMaxBytes,
		LyricsMaxBytes: cfg.UploadLyricsMaxBytes,
	})
	must(log, err, "build upload policy registry")

	var guardOptions []upload.GuardOption
	if cfg.UploadTempDir != "" {
		guardOptions = append(guardOptions, upload.WithTempDir(cfg.UploadTempDir))
	}
	guard := upload.NewGuard(registry, guardOptions...)

	files, err := storage.New(cfg.UploadDir, cfg.MediaBaseURL)
	must(log, err, "open upload storage")

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	resolver := sec.NewIdentityResolver(userRepository)
	limiter := auth.NewAttemptLimiter(rdb, constants.LoginFailureWindow)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		Database: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		Cache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Protect:   middleware.Protect(verifier, resolver),
		Auth:      auth.NewHandler(auth.NewService(userRepository, limiter, issuer, cfg.AccessTokenTTL)),
		Account:   account.NewHandler(account.NewService(account.NewAccountRepository(pool), files), guard),
		Music:     music.NewHandler(music.NewService(music.NewTrackRepository(pool), files), guard),
		Material:  material.NewHandler(material.NewService(material.NewMaterialRepository(pool), files), guard),
		Contact:   contact.NewHandler(contact.NewService(contact.NewMessageRepository(pool))),
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, handlers)

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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
