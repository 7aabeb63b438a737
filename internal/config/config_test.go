package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/passvault/internal/crypto"
)

// allConfigKeys lists every PASSVAULT_ env var that Load() reads.
var allConfigKeys = []string{
	"PASSVAULT_DB_PATH",
	"PASSVAULT_MASTER_KEY",
	"PASSVAULT_KDF_ITERATIONS",
}

// isolateConfigEnv saves and unsets all PASSVAULT_ env vars so tests don't
// inherit values from the host environment. t.Cleanup restores original
// values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "passvault.db", cfg.DBPath)
	assert.Equal(t, crypto.DefaultIterations, cfg.KDFIterations)
	assert.Empty(t, cfg.MasterPassphrase)
	assert.False(t, cfg.HasMasterPassphrase())
}

func TestLoad_Overrides(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PASSVAULT_DB_PATH", "/tmp/custom.db")
	t.Setenv("PASSVAULT_MASTER_KEY", "hunter2")
	t.Setenv("PASSVAULT_KDF_ITERATIONS", "250000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "hunter2", cfg.MasterPassphrase)
	assert.True(t, cfg.HasMasterPassphrase())
	assert.Equal(t, 250000, cfg.KDFIterations)
}

func TestLoad_InvalidIterations(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PASSVAULT_KDF_ITERATIONS", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASSVAULT_KDF_ITERATIONS")
}

func TestLoad_IterationsBelowMinimum(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PASSVAULT_KDF_ITERATIONS", "1000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least")
}
