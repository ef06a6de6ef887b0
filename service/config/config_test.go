package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("CROSSMINT_API_KEY", "sk_test_abc123")
	os.Setenv("DEFAULT_COLLECTION_ID", "a0a30de7-b755-4025-8c25-3a2bfa29e03d")
	defer cleanupEnv()

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "sk_test_abc123", cfg.CrossmintAPIKey)
	assert.Equal(t, "a0a30de7-b755-4025-8c25-3a2bfa29e03d", cfg.DefaultCollectionID)
	assert.Equal(t, ":8080", cfg.ServerAddr) // Default
	assert.Equal(t, "info", cfg.LogLevel)    // Default
	assert.Equal(t, "www", cfg.CrossmintSubdomain)
	assert.Equal(t, DefaultTargetWallet, cfg.TargetWallet)
	assert.Equal(t, []string{DefaultAMMContract, DefaultCLMMContract, DefaultCPMMContract}, cfg.WatchedContracts)
	assert.Equal(t, "transaction-log.json", cfg.LedgerPath)
	assert.Equal(t, 30*time.Second, cfg.MintTimeout)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	os.Setenv("DEFAULT_COLLECTION_ID", "a0a30de7-b755-4025-8c25-3a2bfa29e03d")
	defer cleanupEnv()

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "CROSSMINT_API_KEY is required")
}

func TestLoad_MissingCollectionID(t *testing.T) {
	os.Setenv("CROSSMINT_API_KEY", "sk_test_abc123")
	defer cleanupEnv()

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DEFAULT_COLLECTION_ID is required")
}

func TestLoad_InvalidTargetWallet(t *testing.T) {
	os.Setenv("CROSSMINT_API_KEY", "sk_test_abc123")
	os.Setenv("DEFAULT_COLLECTION_ID", "a0a30de7-b755-4025-8c25-3a2bfa29e03d")
	os.Setenv("TARGET_WALLET", "not-a-base58-address-0OIl")
	defer cleanupEnv()

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "TARGET_WALLET")
}

func TestLoad_InvalidWatchedContract(t *testing.T) {
	os.Setenv("CROSSMINT_API_KEY", "sk_test_abc123")
	os.Setenv("DEFAULT_COLLECTION_ID", "a0a30de7-b755-4025-8c25-3a2bfa29e03d")
	os.Setenv("WATCHED_CONTRACTS", "0x0000000000000000000000000000000000000000")
	defer cleanupEnv()

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "WATCHED_CONTRACTS")
}

func TestLoad_InvalidMintTimeout(t *testing.T) {
	os.Setenv("CROSSMINT_API_KEY", "sk_test_abc123")
	os.Setenv("DEFAULT_COLLECTION_ID", "a0a30de7-b755-4025-8c25-3a2bfa29e03d")
	os.Setenv("MINT_TIMEOUT", "invalid")
	defer cleanupEnv()

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("CROSSMINT_API_KEY", "sk_test_abc123")
	os.Setenv("DEFAULT_COLLECTION_ID", "a0a30de7-b755-4025-8c25-3a2bfa29e03d")
	os.Setenv("SERVER_ADDR", ":9090")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SUB_DOMAIN", "staging")
	os.Setenv("NATS_URL", "nats://nats.example.com:4222")
	os.Setenv("DATABASE_URL", "postgres://localhost/mintgate")
	os.Setenv("WATCHED_CONTRACTS", DefaultAMMContract+", "+DefaultCPMMContract)
	os.Setenv("MINT_TIMEOUT", "10s")
	defer cleanupEnv()

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "staging", cfg.CrossmintSubdomain)
	assert.Equal(t, "https://staging.crossmint.com/api/2022-06-09", cfg.ProviderBaseURL())
	assert.Equal(t, "nats://nats.example.com:4222", cfg.NATSURL)
	assert.Equal(t, "postgres://localhost/mintgate", cfg.DatabaseURL)
	assert.Equal(t, []string{DefaultAMMContract, DefaultCPMMContract}, cfg.WatchedContracts)
	assert.Equal(t, 10*time.Second, cfg.MintTimeout)
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		CrossmintAPIKey:     "sk_test_abc123",
		DefaultCollectionID: "collection-1",
		TargetWallet:        DefaultTargetWallet,
		WatchedContracts:    []string{DefaultAMMContract},
		LedgerPath:          "transaction-log.json",
		MintTimeout:         30 * time.Second,
	}

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := &Config{
		DefaultCollectionID: "collection-1",
		TargetWallet:        DefaultTargetWallet,
		WatchedContracts:    []string{DefaultAMMContract},
		LedgerPath:          "transaction-log.json",
		MintTimeout:         30 * time.Second,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CrossmintAPIKey is required")
}

func TestValidate_NoLedgerBackend(t *testing.T) {
	cfg := &Config{
		CrossmintAPIKey:     "sk_test_abc123",
		DefaultCollectionID: "collection-1",
		TargetWallet:        DefaultTargetWallet,
		WatchedContracts:    []string{DefaultAMMContract},
		MintTimeout:         30 * time.Second,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one of DatabaseURL or LedgerPath is required")
}

func TestValidate_TooShortMintTimeout(t *testing.T) {
	cfg := &Config{
		CrossmintAPIKey:     "sk_test_abc123",
		DefaultCollectionID: "collection-1",
		TargetWallet:        DefaultTargetWallet,
		WatchedContracts:    []string{DefaultAMMContract},
		LedgerPath:          "transaction-log.json",
		MintTimeout:         500 * time.Millisecond,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be at least 1 second")
}

func TestMustLoad_Panics(t *testing.T) {
	// Don't set required env vars
	defer cleanupEnv()

	assert.Panics(t, func() {
		MustLoad()
	})
}

func TestMustLoad_Success(t *testing.T) {
	os.Setenv("CROSSMINT_API_KEY", "sk_test_abc123")
	os.Setenv("DEFAULT_COLLECTION_ID", "a0a30de7-b755-4025-8c25-3a2bfa29e03d")
	defer cleanupEnv()

	assert.NotPanics(t, func() {
		cfg := MustLoad()
		assert.NotNil(t, cfg)
	})
}

// cleanupEnv clears all environment variables used in tests
func cleanupEnv() {
	os.Unsetenv("CROSSMINT_API_KEY")
	os.Unsetenv("DEFAULT_COLLECTION_ID")
	os.Unsetenv("SUB_DOMAIN")
	os.Unsetenv("SERVER_ADDR")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("NATS_URL")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("LEDGER_PATH")
	os.Unsetenv("TARGET_WALLET")
	os.Unsetenv("WATCHED_CONTRACTS")
	os.Unsetenv("NFT_CATALOG_PATH")
	os.Unsetenv("MINT_TIMEOUT")
}
