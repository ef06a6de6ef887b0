package mint

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestClient_MintNFT_Success(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotPayload Payload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("X-API-KEY")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"action-123","onChain":{"status":"pending"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_key", 5*time.Second, testLogger())
	result := client.MintNFT(context.Background(), "col-1", Payload{
		Recipient: "solana:6rAKkowi3d6BUtFV1DxyDxNQE75nkZdfJhhPswdXAJL6",
		Metadata: Metadata{
			Name: "Parchita Mermaid",
		},
		Compressed:          true,
		ReuploadLinkedFiles: true,
	})

	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Contains(t, string(result.Data), "action-123")
	assert.Equal(t, "/collections/col-1/nfts", gotPath)
	assert.Equal(t, "sk_test_key", gotAPIKey)
	assert.Equal(t, "solana:6rAKkowi3d6BUtFV1DxyDxNQE75nkZdfJhhPswdXAJL6", gotPayload.Recipient)
	assert.True(t, gotPayload.Compressed)
}

func TestClient_MintNFT_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Invalid recipient address"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_key", 5*time.Second, testLogger())
	result := client.MintNFT(context.Background(), "col-1", Payload{})

	assert.False(t, result.Success)
	assert.Equal(t, "Invalid recipient address", result.Error)
	assert.NotNil(t, result.Data, "provider body is preserved for callers")
}

func TestClient_MintNFT_ProviderErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("gateway exploded"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_key", 5*time.Second, testLogger())
	result := client.MintNFT(context.Background(), "col-1", Payload{})

	assert.False(t, result.Success)
	assert.Equal(t, "Failed to mint NFT", result.Error)
	assert.Nil(t, result.Data, "non-JSON bodies are dropped")
}

func TestClient_MintNFT_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_key", 50*time.Millisecond, testLogger())
	result := client.MintNFT(context.Background(), "col-1", Payload{})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestClient_MintNFT_NetworkFailure(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, "sk_test_key", time.Second, testLogger())
	result := client.MintNFT(context.Background(), "col-1", Payload{})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestClient_CreateCollection(t *testing.T) {
	var gotPath string
	var gotReq CollectionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"col-new"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_key", 5*time.Second, testLogger())
	result := client.CreateCollection(context.Background(), CollectionRequest{
		Chain:       "solana",
		Fungibility: "non-fungible",
		Metadata: CollectionMetadata{
			Name:        "Parchita Friends",
			ImageURL:    "https://assets.parchita.io/collection.png",
			Description: "The parchita collection",
		},
	})

	assert.True(t, result.Success)
	assert.Equal(t, "/collections/", gotPath)
	assert.Equal(t, "solana", gotReq.Chain)
	assert.Equal(t, "Parchita Friends", gotReq.Metadata.Name)
}

func TestClient_CheckStatus(t *testing.T) {
	var gotPath, gotMethod, gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotAPIKey = r.Header.Get("X-API-KEY")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"succeeded"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_key", 5*time.Second, testLogger())
	result := client.CheckStatus(context.Background(), "action-123")

	assert.True(t, result.Success)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/actions/action-123", gotPath)
	assert.Equal(t, "sk_test_key", gotAPIKey)
}
