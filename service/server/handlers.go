package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/parchitalabs/mintgate/service/ledger"
	"github.com/parchitalabs/mintgate/service/mint"
	"github.com/parchitalabs/mintgate/service/webhook"
)

const (
	maxRequestBodySize = 4 << 20 // webhook batches can carry many transactions
	defaultListLimit   = 50
	maxListLimit       = 500
)

// MintService is the dispatch surface consumed by the mint handlers.
// Satisfied by *mint.Dispatcher.
type MintService interface {
	Mint(ctx context.Context, nftID, recipientAddress, collectionID string) mint.Result
	Dispatch(ctx context.Context, nftID, recipientAddress string) mint.Result
}

// Provider is the raw provider surface consumed by the passthrough handlers.
// Satisfied by *mint.Client.
type Provider interface {
	CreateCollection(ctx context.Context, req mint.CollectionRequest) mint.Result
	CheckStatus(ctx context.Context, actionID string) mint.Result
}

// webhookResponse is the envelope returned by the webhook endpoints.
type webhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleWebhook returns a handler that feeds a transaction-event batch into
// the given ingestion pipeline.
// POST /api/webhook, POST /api/raydium-webhook
func handleWebhook(pipeline *webhook.Pipeline, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var events []webhook.TransactionEvent
		if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
			logger.Debug("malformed webhook payload", "error", err)
			writeJSON(w, webhookResponse{
				Success: false,
				Message: "Invalid request body",
			}, http.StatusBadRequest)
			return
		}

		summary := pipeline.ProcessBatch(r.Context(), events)

		writeJSON(w, webhookResponse{
			Success: true,
			Message: "Transfer transactions processed successfully",
			Data:    summary,
		}, http.StatusOK)
	})
}

// mintRequest is the body of POST /api/mint. walletAddress is preferred;
// recipientAddress is accepted for backwards compatibility.
type mintRequest struct {
	NFTID            string `json:"nftId"`
	WalletAddress    string `json:"walletAddress"`
	RecipientAddress string `json:"recipientAddress"`
	CollectionID     string `json:"collectionId"`
}

// handleMint returns a handler that mints a catalog NFT to a wallet.
// POST /api/mint
func handleMint(minter MintService, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req mintRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.NFTID == "" {
			writeError(w, "NFT ID is required", http.StatusBadRequest)
			return
		}
		recipient := req.WalletAddress
		if recipient == "" {
			recipient = req.RecipientAddress
		}
		if recipient == "" {
			writeError(w, "Wallet address is required", http.StatusBadRequest)
			return
		}

		result := minter.Mint(r.Context(), req.NFTID, recipient, req.CollectionID)
		writeResult(w, result)
	})
}

// mintByIDRequest is the body of POST /api/mint-by-id.
type mintByIDRequest struct {
	NFTID            string `json:"nftId"`
	RecipientAddress string `json:"recipientAddress"`
}

// handleMintByID returns a handler that mints a catalog NFT into the default
// collection.
// POST /api/mint-by-id
func handleMintByID(minter MintService, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req mintByIDRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.NFTID == "" {
			writeError(w, "NFT ID is required", http.StatusBadRequest)
			return
		}
		if req.RecipientAddress == "" {
			writeError(w, "Recipient address is required", http.StatusBadRequest)
			return
		}

		result := minter.Dispatch(r.Context(), req.NFTID, req.RecipientAddress)
		writeResult(w, result)
	})
}

// handleCreateCollection returns a handler that creates a provider collection.
// POST /api/create-collection
func handleCreateCollection(provider Provider, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req mint.CollectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.Chain == "" {
			writeError(w, "Chain is required", http.StatusBadRequest)
			return
		}
		if req.Fungibility == "" {
			writeError(w, "Fungibility is required", http.StatusBadRequest)
			return
		}
		if req.Metadata.Name == "" {
			writeError(w, "Collection name is required", http.StatusBadRequest)
			return
		}

		result := provider.CreateCollection(r.Context(), req)
		if result.Success {
			logger.Info("collection created", "name", req.Metadata.Name, "chain", req.Chain)
		}
		writeResult(w, result)
	})
}

// mintStatusRequest is the body of POST /api/mint-status.
type mintStatusRequest struct {
	ActionID string `json:"actionId"`
}

// handleMintStatus returns a handler that checks the status of a mint action.
// POST /api/mint-status
func handleMintStatus(provider Provider, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req mintStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.ActionID == "" {
			writeError(w, "Action ID is required", http.StatusBadRequest)
			return
		}

		writeResult(w, provider.CheckStatus(r.Context(), req.ActionID))
	})
}

// handleListTransactions returns a handler that lists recent ledger entries.
// GET /api/transactions?limit={n}&offset={n}
func handleListTransactions(store ledger.Store, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := parseInt32Param(r, "limit", defaultListLimit)
		if limit < 1 || limit > maxListLimit {
			writeError(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		offset := parseInt32Param(r, "offset", 0)
		if offset < 0 {
			writeError(w, "offset must be non-negative", http.StatusBadRequest)
			return
		}

		entries, err := store.List(r.Context(), limit, offset)
		if err != nil {
			logger.Error("failed to list ledger entries", "error", err)
			writeError(w, "internal server error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, map[string]any{
			"transactions": entries,
			"count":        len(entries),
		}, http.StatusOK)
	})
}

// handleGetTransaction returns a handler that fetches one ledger entry.
// GET /api/transactions/{signature}
func handleGetTransaction(store ledger.Store, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature := r.PathValue("signature")

		entry, err := store.Get(r.Context(), signature)
		if err != nil {
			logger.Error("failed to get ledger entry", "signature", signature, "error", err)
			writeError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if entry == nil {
			writeError(w, "transaction not found", http.StatusNotFound)
			return
		}

		writeJSON(w, entry, http.StatusOK)
	})
}

// handleRoot serves the welcome banner.
// GET /
func handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Welcome to the NFT mint gateway!"))
	}
}

// handleHeartbeat serves a JSON liveness probe.
// GET /api
func handleHeartbeat() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}, http.StatusOK)
	})
}

// writeResult writes a provider result, mapping failures to 400 per the
// provider passthrough convention.
func writeResult(w http.ResponseWriter, result mint.Result) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, result, status)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

// parseInt32Param parses an int32 query parameter with a default. Returns -1
// for unparseable values so callers reject them.
func parseInt32Param(r *http.Request, name string, def int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return -1
	}
	return int32(v)
}
