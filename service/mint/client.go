// Package mint wraps the external NFT-minting provider. All provider calls
// return a normalized Result; network failures, validation problems and
// upstream 4xx/5xx responses are captured, never propagated as errors.
package mint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Result is the normalized outcome of a provider call.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Attribute is a single metadata attribute on a minted NFT.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Metadata is the on-chain metadata of a minted NFT.
type Metadata struct {
	Name        string      `json:"name"`
	Image       string      `json:"image"`
	Description string      `json:"description"`
	Attributes  []Attribute `json:"attributes"`
}

// Payload is the provider request body for minting a single NFT.
type Payload struct {
	Recipient           string   `json:"recipient"`
	Metadata            Metadata `json:"metadata"`
	Compressed          bool     `json:"compressed"`
	ReuploadLinkedFiles bool     `json:"reuploadLinkedFiles"`
}

// CollectionMetadata is the metadata block of a collection-creation request.
type CollectionMetadata struct {
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
	Symbol      string `json:"symbol,omitempty"`
}

// CollectionPayments configures revenue routing for a collection.
type CollectionPayments struct {
	Price            string `json:"price,omitempty"`
	RecipientAddress string `json:"recipientAddress,omitempty"`
}

// CollectionRequest is the provider request body for creating a collection.
type CollectionRequest struct {
	Chain               string              `json:"chain"`
	Fungibility         string              `json:"fungibility"`
	SupplyLimit         int                 `json:"supplyLimit,omitempty"`
	Payments            *CollectionPayments `json:"payments,omitempty"`
	ReuploadLinkedFiles bool                `json:"reuploadLinkedFiles,omitempty"`
	Metadata            CollectionMetadata  `json:"metadata"`
}

// Minter is the provider-facing mint operation consumed by the Dispatcher.
type Minter interface {
	MintNFT(ctx context.Context, collectionID string, payload Payload) Result
}

// Client is an HTTP client for the minting provider API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a provider client. baseURL is the versioned API root,
// e.g. https://www.crossmint.com/api/2022-06-09. The timeout bounds every
// provider call so a slow mint records a failure instead of hanging.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// MintNFT mints a single NFT into the given collection.
// POST {base}/collections/{collectionID}/nfts
func (c *Client) MintNFT(ctx context.Context, collectionID string, payload Payload) Result {
	url := fmt.Sprintf("%s/collections/%s/nfts", c.baseURL, collectionID)
	return c.post(ctx, url, payload, "Failed to mint NFT")
}

// CreateCollection creates a new collection with the provider.
// POST {base}/collections
func (c *Client) CreateCollection(ctx context.Context, req CollectionRequest) Result {
	url := fmt.Sprintf("%s/collections/", c.baseURL)
	return c.post(ctx, url, req, "Failed to create collection")
}

// CheckStatus checks the status of a mint action.
// GET {base}/actions/{actionID}
func (c *Client) CheckStatus(ctx context.Context, actionID string) Result {
	url := fmt.Sprintf("%s/actions/%s", c.baseURL, actionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	req.Header.Set("X-API-KEY", c.apiKey)

	return c.do(req, "Failed to check mint status")
}

// post sends a JSON body and normalizes the response.
func (c *Client) post(ctx context.Context, url string, body any, fallbackMsg string) Result {
	data, err := json.Marshal(body)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	return c.do(req, fallbackMsg)
}

// do executes the request and folds status code, provider message and
// transport errors into a Result.
func (c *Client) do(req *http.Request, fallbackMsg string) Result {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("provider call failed", "url", req.URL.String(), "error", err)
		return Result{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The provider reports errors as {"message": "..."}; pass that
		// through when present.
		errMsg := fallbackMsg
		var providerErr struct {
			Message string `json:"message"`
		}
		if jsonErr := json.Unmarshal(body, &providerErr); jsonErr == nil && providerErr.Message != "" {
			errMsg = providerErr.Message
		}
		c.logger.Debug("provider returned error",
			"url", req.URL.String(),
			"status", resp.StatusCode,
			"message", errMsg,
		)
		return Result{Success: false, Error: errMsg, Data: rawIfJSON(body)}
	}

	return Result{Success: true, Data: rawIfJSON(body)}
}

// rawIfJSON keeps the provider body only when it is valid JSON, so a
// Result always marshals cleanly.
func rawIfJSON(body []byte) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return nil
}
