package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	solanago "github.com/gagliardetto/solana-go"
)

// Default contract addresses watched by the Raydium webhook integration.
const (
	DefaultAMMContract  = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	DefaultCLMMContract = "CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK"
	DefaultCPMMContract = "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"

	// DefaultTargetWallet is the wallet that receives SOL payments for mints.
	DefaultTargetWallet = "codevLte54E2aQyQ74nDuqr8B2qr39DeNoGxqanXFzq"
)

// Config holds all application configuration loaded from environment variables.
// All required fields are validated at startup to ensure fail-fast behavior.
type Config struct {
	// Server configuration
	ServerAddr string
	LogLevel   string

	// Ledger store configuration. When DatabaseURL is empty the service
	// falls back to the JSON file store at LedgerPath.
	DatabaseURL string
	LedgerPath  string

	// NATS configuration. Optional; when empty, mint outcome events are
	// not published.
	NATSURL string

	// Crossmint provider configuration
	CrossmintAPIKey     string
	CrossmintSubdomain  string
	DefaultCollectionID string

	// Webhook configuration
	TargetWallet     string
	WatchedContracts []string

	// Catalog configuration. Empty means the embedded catalog.
	CatalogPath string

	// Upper bound on a single mint call to the provider.
	MintTimeout time.Duration
}

// Load reads configuration from environment variables and validates all
// required fields. Returns an error if any required configuration is missing
// or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []error

	// Server configuration
	cfg.ServerAddr = getEnvOrDefault("SERVER_ADDR", ":8080")
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Ledger store configuration
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.LedgerPath = getEnvOrDefault("LEDGER_PATH", "transaction-log.json")

	// NATS configuration
	cfg.NATSURL = os.Getenv("NATS_URL")

	// Crossmint configuration
	cfg.CrossmintAPIKey = os.Getenv("CROSSMINT_API_KEY")
	if cfg.CrossmintAPIKey == "" {
		errs = append(errs, fmt.Errorf("CROSSMINT_API_KEY is required"))
	}

	cfg.CrossmintSubdomain = getEnvOrDefault("SUB_DOMAIN", "www")

	cfg.DefaultCollectionID = os.Getenv("DEFAULT_COLLECTION_ID")
	if cfg.DefaultCollectionID == "" {
		errs = append(errs, fmt.Errorf("DEFAULT_COLLECTION_ID is required"))
	}

	// Webhook configuration
	cfg.TargetWallet = getEnvOrDefault("TARGET_WALLET", DefaultTargetWallet)
	if _, err := solanago.PublicKeyFromBase58(cfg.TargetWallet); err != nil {
		errs = append(errs, fmt.Errorf("TARGET_WALLET: invalid address %q: %w", cfg.TargetWallet, err))
	}

	contracts := getEnvOrDefault("WATCHED_CONTRACTS", strings.Join([]string{
		DefaultAMMContract,
		DefaultCLMMContract,
		DefaultCPMMContract,
	}, ","))
	for _, c := range strings.Split(contracts, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, err := solanago.PublicKeyFromBase58(c); err != nil {
			errs = append(errs, fmt.Errorf("WATCHED_CONTRACTS: invalid address %q: %w", c, err))
			continue
		}
		cfg.WatchedContracts = append(cfg.WatchedContracts, c)
	}
	if len(cfg.WatchedContracts) == 0 {
		errs = append(errs, fmt.Errorf("WATCHED_CONTRACTS must contain at least one address"))
	}

	// Catalog configuration
	cfg.CatalogPath = os.Getenv("NFT_CATALOG_PATH")

	// Mint timeout
	mintTimeout, err := parseDuration("MINT_TIMEOUT", "30s")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.MintTimeout = mintTimeout
	}

	// Return all validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}

	return cfg, nil
}

// MustLoad is like Load but panics if configuration is invalid.
// Useful for server initialization where misconfiguration should halt startup.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks if the configuration is valid.
// This is useful for testing configuration without loading from env.
func (c *Config) Validate() error {
	var errs []error

	if c.CrossmintAPIKey == "" {
		errs = append(errs, fmt.Errorf("CrossmintAPIKey is required"))
	}

	if c.DefaultCollectionID == "" {
		errs = append(errs, fmt.Errorf("DefaultCollectionID is required"))
	}

	if c.TargetWallet == "" {
		errs = append(errs, fmt.Errorf("TargetWallet is required"))
	}

	if len(c.WatchedContracts) == 0 {
		errs = append(errs, fmt.Errorf("WatchedContracts must contain at least one address"))
	}

	if c.DatabaseURL == "" && c.LedgerPath == "" {
		errs = append(errs, fmt.Errorf("one of DatabaseURL or LedgerPath is required"))
	}

	if c.MintTimeout < time.Second {
		errs = append(errs, fmt.Errorf("MintTimeout must be at least 1 second"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}

	return nil
}

// ProviderBaseURL returns the Crossmint API base URL for the configured
// subdomain, e.g. https://staging.crossmint.com/api/2022-06-09.
func (c *Config) ProviderBaseURL() string {
	return fmt.Sprintf("https://%s.crossmint.com/api/2022-06-09", c.CrossmintSubdomain)
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration from an environment variable or uses a default.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	value := getEnvOrDefault(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return duration, nil
}
