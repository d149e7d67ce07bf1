package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layr-protocol/guardian-go/pkg/engine"
	"github.com/layr-protocol/guardian-go/pkg/watchdog"
)

func TestDefaultConfigValid(t *testing.T) {
	assert.NoError(t, engine.DefaultConfig().Validate())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardian.yaml")
	data := []byte("watchdog_budget: 5000\ncrypto_latency: 4\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := engine.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.WatchdogBudget)
	assert.Equal(t, 4, cfg.CryptoLatency)
	// Unset fields keep their defaults.
	assert.Equal(t, engine.DefaultConfig().StoreLatency, cfg.StoreLatency)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := engine.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watchdog_budget: [oops"), 0o644))
	_, err := engine.LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.WatchdogBudget = 0
	assert.ErrorIs(t, cfg.Validate(), watchdog.ErrInvalidBudget)

	cfg = engine.DefaultConfig()
	cfg.BusLatency = -1
	assert.ErrorIs(t, cfg.Validate(), engine.ErrNegativeLatency)
}
