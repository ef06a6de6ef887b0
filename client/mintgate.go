// Package client provides a Go client for the mint gateway HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/parchitalabs/mintgate/service/ledger"
	"github.com/parchitalabs/mintgate/service/mint"
	"github.com/parchitalabs/mintgate/service/webhook"
)

// Client is the HTTP client for the mint gateway service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new mint gateway client.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Mint mints a catalog NFT to a wallet. An empty collectionID selects the
// server's default collection.
func (c *Client) Mint(ctx context.Context, nftID, walletAddress, collectionID string) (mint.Result, error) {
	return c.postResult(ctx, "/api/mint", map[string]any{
		"nftId":         nftID,
		"walletAddress": walletAddress,
		"collectionId":  collectionID,
	})
}

// MintByID mints a catalog NFT into the server's default collection.
func (c *Client) MintByID(ctx context.Context, nftID, recipientAddress string) (mint.Result, error) {
	return c.postResult(ctx, "/api/mint-by-id", map[string]any{
		"nftId":            nftID,
		"recipientAddress": recipientAddress,
	})
}

// MintStatus checks the status of a mint action.
func (c *Client) MintStatus(ctx context.Context, actionID string) (mint.Result, error) {
	return c.postResult(ctx, "/api/mint-status", map[string]any{
		"actionId": actionID,
	})
}

// CreateCollection creates a new provider collection.
func (c *Client) CreateCollection(ctx context.Context, req mint.CollectionRequest) (mint.Result, error) {
	return c.postResult(ctx, "/api/create-collection", req)
}

// WebhookResponse is the envelope returned by the webhook endpoints.
type WebhookResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    *webhook.Summary `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// PostWebhook submits a transaction-event batch to the webhook endpoint.
// Used for integration smoke tests against a running gateway.
func (c *Client) PostWebhook(ctx context.Context, events []webhook.TransactionEvent) (*WebhookResponse, error) {
	body, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/webhook", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var wr WebhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &wr, fmt.Errorf("webhook request failed with status %d: %s", resp.StatusCode, wr.Message)
	}

	c.logger.Debug("webhook batch submitted", "events", len(events))
	return &wr, nil
}

// ListTransactions retrieves recent ledger entries, most recent first.
func (c *Client) ListTransactions(ctx context.Context, limit, offset int32) ([]*ledger.Entry, error) {
	u := fmt.Sprintf("%s/api/transactions?limit=%d&offset=%d", c.baseURL, limit, offset)
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var body struct {
		Transactions []*ledger.Entry `json:"transactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return body.Transactions, nil
}

// GetTransaction retrieves one ledger entry by signature.
func (c *Client) GetTransaction(ctx context.Context, signature string) (*ledger.Entry, error) {
	u := fmt.Sprintf("%s/api/transactions/%s", c.baseURL, url.PathEscape(signature))
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var entry ledger.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &entry, nil
}

// Health probes the gateway's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}
	return nil
}

// postResult posts a JSON body to a provider passthrough endpoint and decodes
// the normalized result. 400 responses still carry a result body; only
// transport and decode failures return an error.
func (c *Client) postResult(ctx context.Context, path string, body any) (mint.Result, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return mint.Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return mint.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mint.Result{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var result mint.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return mint.Result{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return result, nil
}

// parseErrorResponse extracts a server error message from a failed response.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	var errResp struct {
		Error string `json:"error"`
	}

	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return fmt.Errorf("request failed: %s", errResp.Error)
}
