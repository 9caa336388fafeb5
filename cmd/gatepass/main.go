// Package main is the entry point for the gatepass ticketing server.
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

	"gatepass/internal/auth"
	"gatepass/internal/cache"
	"gatepass/internal/config"
	"gatepass/internal/database"
	"gatepass/internal/handlers"
	"gatepass/internal/router"
	"gatepass/internal/storage"
	"gatepass/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
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

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + token store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Access grants (admin sessions, box office and gate codes) live in Valkey.
	grants := auth.NewGrantStore(valkeyClient)

	// Rendered ticket JPEGs are cached in Valkey too.
	renderCache := cache.NewRenderCache(valkeyClient, cache.DefaultRenderTTL)

	// Initialize data stores.
	eventStore := store.NewEventStore(db)
	ticketTypeStore := store.NewTicketTypeStore(db)
	participantStore := store.NewParticipantStore(db)
	ticketStore := store.NewTicketStore(db)
	operatorStore := store.NewOperatorStore(db)
	leadStore := store.NewLeadStore(db)

	// Connect to S3-compatible object storage (optional — app works without it).
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(
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
		}
	} else {
		slog.Warn("s3 storage not configured — logos stored in postgres only")
	}

	// Create handler groups with their dependencies.
	ticketHandlers := handlers.NewTickets(eventStore, ticketTypeStore, participantStore, ticketStore, renderCache, storageClient, cfg.AssetRoot, cfg.DefaultDPI)
	boxOfficeHandlers := handlers.NewBoxOffice(eventStore, ticketTypeStore, participantStore, ticketStore)
	gateHandlers := handlers.NewGate(eventStore, participantStore, ticketStore)
	registrationHandlers := handlers.NewRegistration(eventStore, ticketTypeStore, participantStore, ticketStore)
	leadHandlers := handlers.NewLeads(eventStore, participantStore, ticketStore, leadStore)
	templateHandlers := handlers.NewTemplates()
	adminHandlers := handlers.NewAdmin(eventStore, ticketTypeStore, participantStore, ticketStore, operatorStore, grants, renderCache, storageClient, cfg.AssetRoot)

	// Set up the Chi router with all middleware and routes.
	r := router.New(grants, ticketHandlers, boxOfficeHandlers, gateHandlers, registrationHandlers, leadHandlers, templateHandlers, adminHandlers)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate rendering a 300 DPI ticket under load.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
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
