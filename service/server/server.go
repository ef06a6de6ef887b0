// Package server exposes the HTTP surface of the mint gateway: provider
// passthrough endpoints for collections and mints, and the webhook endpoints
// feeding the ingestion pipelines.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/parchitalabs/mintgate/service/ledger"
	"github.com/parchitalabs/mintgate/service/metrics"
	"github.com/parchitalabs/mintgate/service/webhook"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server for the mint gateway.
type Server struct {
	addr            string
	store           ledger.Store
	minter          MintService
	provider        Provider
	webhookPipeline *webhook.Pipeline
	raydiumPipeline *webhook.Pipeline
	metrics         *metrics.Metrics
	logger          *slog.Logger
	server          *http.Server
}

// New creates a new HTTP server with the given dependencies.
// The raydiumPipeline may be nil; the /api/raydium-webhook endpoint is then
// not registered. The metrics is optional - if nil, the metrics endpoint
// won't be available.
func New(addr string, store ledger.Store, minter MintService, provider Provider, webhookPipeline, raydiumPipeline *webhook.Pipeline, m *metrics.Metrics, logger *slog.Logger) *Server {
	return &Server{
		addr:            addr,
		store:           store,
		minter:          minter,
		provider:        provider,
		webhookPipeline: webhookPipeline,
		raydiumPipeline: raydiumPipeline,
		metrics:         m,
		logger:          logger,
	}
}

// routes builds the request mux. Split out from Start so tests can exercise
// the full routing table, including method rejections.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Provider passthrough routes
	mux.Handle("POST /api/create-collection", s.instrument("/api/create-collection",
		handleCreateCollection(s.provider, s.logger)))
	mux.Handle("POST /api/mint", s.instrument("/api/mint",
		handleMint(s.minter, s.logger)))
	mux.Handle("POST /api/mint-by-id", s.instrument("/api/mint-by-id",
		handleMintByID(s.minter, s.logger)))
	mux.Handle("POST /api/mint-status", s.instrument("/api/mint-status",
		handleMintStatus(s.provider, s.logger)))

	// Webhook ingestion routes
	mux.Handle("POST /api/webhook", s.instrument("/api/webhook",
		handleWebhook(s.webhookPipeline, s.logger)))
	if s.raydiumPipeline != nil {
		mux.Handle("POST /api/raydium-webhook", s.instrument("/api/raydium-webhook",
			handleWebhook(s.raydiumPipeline, s.logger)))
	}

	// Ledger inspection routes
	mux.Handle("GET /api/transactions", s.instrument("/api/transactions",
		handleListTransactions(s.store, s.logger)))
	mux.Handle("GET /api/transactions/{signature}", s.instrument("/api/transactions/{signature}",
		handleGetTransaction(s.store, s.logger)))

	// Root routes
	mux.HandleFunc("GET /", handleRoot())
	mux.Handle("GET /api", handleHeartbeat())

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint (if metrics collector is configured)
	if s.metrics != nil {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	return corsMiddleware(mux)
}

// instrument wraps a handler with HTTP metrics collection when configured.
func (s *Server) instrument(name string, h http.Handler) http.Handler {
	if s.metrics == nil {
		return h
	}
	return metrics.HTTPMetricsMiddleware(s.metrics, name)(h)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting HTTP server", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// corsMiddleware adds CORS headers to all responses and handles OPTIONS preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		// Handle preflight OPTIONS requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
