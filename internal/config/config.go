// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ericfisherdev/passvault/internal/crypto"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath           string
	MasterPassphrase string
	KDFIterations    int
}

// HasMasterPassphrase returns true when a master passphrase was provided via
// environment. Used by the composition root to decide whether to prompt.
func (c *Config) HasMasterPassphrase() bool {
	return c.MasterPassphrase != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. The master passphrase (PASSVAULT_MASTER_KEY) is optional; if absent
// the CLI prompts for one. Optional variables with defaults:
// PASSVAULT_DB_PATH (passvault.db), PASSVAULT_KDF_ITERATIONS (100000, which
// is also the minimum; existing vault tokens derive at that cost).
func Load() (*Config, error) {
	dbPath := "passvault.db"
	if v, ok := os.LookupEnv("PASSVAULT_DB_PATH"); ok {
		dbPath = v
	}

	iterations := crypto.DefaultIterations
	if v, ok := os.LookupEnv("PASSVAULT_KDF_ITERATIONS"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PASSVAULT_KDF_ITERATIONS has invalid value %q: %w", v, err)
		}
		if parsed < crypto.DefaultIterations {
			return nil, fmt.Errorf("PASSVAULT_KDF_ITERATIONS must be at least %d, got %d", crypto.DefaultIterations, parsed)
		}
		iterations = parsed
	}

	return &Config{
		DBPath:           dbPath,
		MasterPassphrase: os.Getenv("PASSVAULT_MASTER_KEY"),
		KDFIterations:    iterations,
	}, nil
}
