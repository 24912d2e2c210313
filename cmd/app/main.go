// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

// Command app is the entry point for the Pharmora client shell.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open durable device storage (sqlite or redis).
//  4. Restore the persisted session and cart.
//  5. Wire the navigation shell.
//  6. Start the shell server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pharmora/client/internal/app"
	"github.com/pharmora/client/internal/cart"
	"github.com/pharmora/client/internal/guard"
	"github.com/pharmora/client/internal/platform/api"
	"github.com/pharmora/client/internal/platform/config"
	"github.com/pharmora/client/internal/platform/constants"
	"github.com/pharmora/client/internal/platform/notify"
	"github.com/pharmora/client/internal/platform/sec"
	"github.com/pharmora/client/internal/platform/storage"
	"github.com/pharmora/client/internal/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Pharmora] client_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A .env file is a development convenience; its absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ShellPort),
		slog.String("storage_driver", cfg.StorageDriver),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Device Storage ─────────────────────────────────────────────────
	device, err := openStorage(startupCtx, cfg, log)
	must(log, err, "open device storage")
	defer func() {
		log.Info("closing device storage")
		if cerr := device.Close(); cerr != nil {
			log.Error("storage close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Credential Vault ───────────────────────────────────────────────
	sealer, err := sec.NewSealer(cfg.DeviceSecret)
	must(log, err, "initialize credential sealer")
	vault := session.NewVault(device, sealer)

	// ── 5. Platform Backend ───────────────────────────────────────────────
	// The token source closes over the session store, which itself needs the
	// client as its backend. Bind the variable first, fill it in below.
	var sessions *session.Store
	client := api.NewClient(cfg.APIBaseURL, func() string {
		if sessions == nil {
			return ""
		}
		return sessions.Snapshot().Token
	}, log)

	// ── 6. Stores ─────────────────────────────────────────────────────────
	feed := notify.NewFeed(log)
	sessions = session.NewStore(client, vault, feed, log)
	must(log, sessions.Boot(startupCtx), "restore session")

	cartStore := cart.NewPersistentStore(device, log)
	cartStore.Rehydrate(startupCtx)

	routeGuard := guard.New(sessions)

	// ── 7. Shell Server ───────────────────────────────────────────────────
	handler := app.NewHandler(sessions, cartStore, routeGuard, feed, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.ShellPort),
		Handler:      app.NewRouter(handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("shell_listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()

	log.Info("shutting down shell", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("shell stopped cleanly")
}

// openStorage picks the configured durable storage driver.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverRedis:
		return storage.NewRedisStore(ctx, cfg.RedisURL, log)
	case config.StorageDriverSQLite:
		return storage.NewSQLiteStore(cfg.StoragePath, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
