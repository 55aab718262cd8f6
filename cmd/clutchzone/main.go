// Package main is the entry point for the ClutchZone API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clutchzone/internal/cache"
	"clutchzone/internal/config"
	"clutchzone/internal/database"
	"clutchzone/internal/handlers"
	"clutchzone/internal/router"
	"clutchzone/internal/session"
	"clutchzone/internal/storage"
	"clutchzone/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Bootstrap the back-office account (no-op when unset or present).
	if err := database.EnsureDefaultAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("failed to ensure default admin", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	carStore := store.NewCarStore(db)
	propertyStore := store.NewPropertyStore(db)
	categoryStore := store.NewCategoryStore(db)
	orderStore := store.NewOrderStore(db)
	adminStore := store.NewAdminStore(db)
	settingStore := store.NewSiteSettingStore(db)

	// Backfill slugs for rows created before slugs existed. Runs before
	// serving so every listing is reachable by its slug URL.
	if n, err := carStore.BackfillSlugs(); err != nil {
		slog.Error("car slug backfill failed", "error", err)
		os.Exit(1)
	} else if n > 0 {
		slog.Info("car slugs backfilled", "count", n)
	}
	if n, err := propertyStore.BackfillSlugs(); err != nil {
		slog.Error("property slug backfill failed", "error", err)
		os.Exit(1)
	} else if n > 0 {
		slog.Info("property slugs backfilled", "count", n)
	}

	// Connect to Valkey (session store + settings cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	sessionStore := session.NewStore(valkeyClient)
	settingsCache := cache.NewSettingsCache(valkeyClient, cache.DefaultSettingsTTL)

	// Connect to S3-compatible object storage (optional — app works without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"bucket", cfg.S3Bucket,
		)
	} else {
		slog.Warn("s3 storage not configured — image uploads disabled")
	}

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(carStore, propertyStore, categoryStore,
		orderStore, settingStore, storageClient, settingsCache)
	authHandlers := handlers.NewAuth(sessionStore, adminStore)
	publicHandlers := handlers.NewPublic(carStore, propertyStore, categoryStore,
		orderStore, settingStore, settingsCache)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, adminHandlers, authHandlers, publicHandlers)

	// Create the HTTP server with sensible timeouts. ReadTimeout must
	// accommodate multi-megabyte image uploads on slow links.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
