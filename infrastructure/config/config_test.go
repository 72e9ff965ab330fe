package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "squad-availability", cfg.DynamoDBTable)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
}

func TestLoadConfig_RejectsUnknownEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "testing")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment")
}

func TestLoadConfig_StoreTimeoutOverride(t *testing.T) {
	t.Setenv("STORE_TIMEOUT_MS", "250")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
}
