package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parchitalabs/mintgate/service/ledger"
	"github.com/parchitalabs/mintgate/service/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Mint(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"id":"action-1"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	result, err := c.Mint(context.Background(), "parchita-mermaid", "some-wallet", "")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "/api/mint", gotPath)
	assert.Equal(t, "parchita-mermaid", gotBody["nftId"])
	assert.Equal(t, "some-wallet", gotBody["walletAddress"])
}

func TestClient_Mint_ValidationFailureStillDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":"NFT ID is required"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	result, err := c.Mint(context.Background(), "", "some-wallet", "")

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "NFT ID is required", result.Error)
}

func TestClient_PostWebhook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/webhook", r.URL.Path)
		var events []webhook.TransactionEvent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&events))
		assert.Len(t, events, 1)

		resp := WebhookResponse{
			Success: true,
			Message: "Transfer transactions processed successfully",
			Data:    &webhook.Summary{Received: 1, Relevant: 1, Dispatched: 1},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	resp, err := c.PostWebhook(context.Background(), []webhook.TransactionEvent{
		{Signature: "sig-1"},
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 1, resp.Data.Dispatched)
}

func TestClient_ListTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transactions", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"transactions":[{"signature":"sig-1","status":"completed"}],"count":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	entries, err := c.ListTransactions(context.Background(), 10, 0)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sig-1", entries[0].Signature)
	assert.Equal(t, ledger.StatusCompleted, entries[0].Status)
}

func TestClient_GetTransaction_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"transaction not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	_, err := c.GetTransaction(context.Background(), "sig-missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction not found")
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	assert.NoError(t, c.Health(context.Background()))
}
