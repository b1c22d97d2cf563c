package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/better-wallet/trustlink/internal/validation"
	"github.com/better-wallet/trustlink/pkg/command"
)

// Config holds the bridge defaults used by the command-line tool
type Config struct {
	// Host application scheme the wallet calls back on, e.g. "sampleapp://"
	CallbackScheme string

	// Wallet app scheme, e.g. "trust://"
	WalletScheme string

	// Callback path; empty means the command name
	CallbackPath string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		CallbackScheme: getEnv("TRUSTLINK_CALLBACK_SCHEME", ""),
		WalletScheme:   getEnv("TRUSTLINK_WALLET_SCHEME", command.DefaultScheme),
		CallbackPath:   getEnv("TRUSTLINK_CALLBACK_PATH", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validation.ValidateScheme(c.WalletScheme); err != nil {
		return fmt.Errorf("TRUSTLINK_WALLET_SCHEME: %w", err)
	}

	if !strings.HasSuffix(c.WalletScheme, "://") {
		return fmt.Errorf("TRUSTLINK_WALLET_SCHEME must end in '://', got: %s", c.WalletScheme)
	}

	if c.CallbackScheme != "" {
		if err := validation.ValidateScheme(c.CallbackScheme); err != nil {
			return fmt.Errorf("TRUSTLINK_CALLBACK_SCHEME: %w", err)
		}
	}

	if strings.ContainsAny(c.CallbackPath, "?#") {
		return fmt.Errorf("TRUSTLINK_CALLBACK_PATH must not contain '?' or '#', got: %s", c.CallbackPath)
	}

	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
