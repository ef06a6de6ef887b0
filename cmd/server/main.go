package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parchitalabs/mintgate/service/catalog"
	"github.com/parchitalabs/mintgate/service/config"
	"github.com/parchitalabs/mintgate/service/ledger"
	"github.com/parchitalabs/mintgate/service/metrics"
	"github.com/parchitalabs/mintgate/service/mint"
	"github.com/parchitalabs/mintgate/service/nats"
	"github.com/parchitalabs/mintgate/service/server"
	"github.com/parchitalabs/mintgate/service/webhook"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load and validate configuration from environment
	// This fails fast if any required config is missing or invalid
	cfg := config.MustLoad()

	// Setup structured logging
	logger := setupLogger(cfg.LogLevel)
	logger.Info("starting mint gateway",
		"addr", cfg.ServerAddr,
		"log_level", cfg.LogLevel,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the transaction ledger. Postgres when configured,
	// otherwise the JSON file store.
	var store ledger.Store
	if cfg.DatabaseURL != "" {
		dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if err := dbPool.Ping(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}

		pgStore := ledger.NewPGStore(dbPool)
		if err := pgStore.Migrate(ctx); err != nil {
			logger.Error("failed to migrate ledger schema", "error", err)
			os.Exit(1)
		}
		store = pgStore
		logger.Info("using postgres ledger store")
	} else {
		store = ledger.NewFileStore(cfg.LedgerPath, logger)
		logger.Info("using file ledger store", "path", cfg.LedgerPath)
	}

	// Load the NFT catalog
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load NFT catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded NFT catalog", "entries", len(cat.List()))

	// Initialize the minting provider client and dispatcher
	mintClient := mint.NewClient(cfg.ProviderBaseURL(), cfg.CrossmintAPIKey, cfg.MintTimeout, logger)
	dispatcher := mint.NewDispatcher(cat, mintClient, cfg.DefaultCollectionID, logger)

	// Initialize NATS publisher for mint outcome events (optional)
	var publisher nats.Publisher
	if cfg.NATSURL != "" {
		p, err := nats.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.Error("failed to connect to NATS", "url", cfg.NATSURL, "error", err)
			os.Exit(1)
		}
		defer p.Close()
		publisher = p
		logger.Info("connected to NATS", "url", cfg.NATSURL)
	} else {
		logger.Warn("NATS_URL not set, mint outcome events will not be published")
	}

	// Initialize metrics
	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	// Build the ingestion pipelines. Both webhook endpoints share the same
	// pipeline semantics; they differ only in which contracts they watch.
	webhookPipeline := webhook.NewPipeline("helius",
		webhook.NewFilter(cfg.WatchedContracts),
		store, dispatcher, publisher, cfg.TargetWallet, m, logger)
	raydiumPipeline := webhook.NewPipeline("raydium",
		webhook.NewFilter([]string{
			config.DefaultAMMContract,
			config.DefaultCLMMContract,
			config.DefaultCPMMContract,
		}),
		store, dispatcher, publisher, cfg.TargetWallet, m, logger)

	httpServer := server.New(cfg.ServerAddr, store, dispatcher, mintClient, webhookPipeline, raydiumPipeline, m, logger)

	logger.Info("gateway initialized, all dependencies ready",
		"provider", cfg.ProviderBaseURL(),
		"target_wallet", cfg.TargetWallet,
		"watched_contracts", len(cfg.WatchedContracts),
	)

	// Start HTTP server in background
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.Start()
	}()

	// Wait for shutdown signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())

		// Graceful shutdown with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown server gracefully", "error", err)
			os.Exit(1)
		}

		logger.Info("server shutdown complete")
	}
}

// setupLogger creates a structured logger with the given log level.
func setupLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
