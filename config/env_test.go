package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLayering(t *testing.T) {
	require.NoError(t, Load())

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port": 9000, "store_driver": "memory", "queue_workers": 4}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_PORT=9100\nJWT_ACCESS_TTL=5m\n"), 0o644))
	t.Setenv("ORDER_STRICT_PRODUCTS", "yes")

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() { _ = loadFromFiles("", "") })

	assert.Equal(t, "9100", AppPort())
	assert.Equal(t, "memory", StoreDriver())
	assert.Equal(t, 4, QueueWorkers())
	assert.Equal(t, 5*time.Minute, Auth().AccessTTL)
	assert.True(t, StrictOrderProducts())
}

func TestMissingFilesKeepDefaults(t *testing.T) {
	require.NoError(t, Load())
	dir := t.TempDir()

	require.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, ".none")))

	assert.Equal(t, defaultAppPort, AppPort())
	assert.Equal(t, 2, QueueWorkers())
	assert.Equal(t, DefaultBcryptCost, Auth().BcryptCost)
}

func TestAccessorFallbacks(t *testing.T) {
	Set("STORE_DRIVER", "postgres")
	Set("QUEUE_WORKERS", "-3")
	Set("RATE_LIMIT_RPS", "nope")
	t.Cleanup(func() {
		Set("STORE_DRIVER", defaultStoreDriver)
		Set("QUEUE_WORKERS", "")
		Set("RATE_LIMIT_RPS", "")
	})

	assert.Equal(t, defaultStoreDriver, StoreDriver())
	assert.Equal(t, 2, QueueWorkers())
	rps, burst := RateLimit()
	assert.Equal(t, 20.0, rps)
	assert.Equal(t, 40, burst)
}

func TestGetBool(t *testing.T) {
	Set("FEATURE_X", "off")
	assert.False(t, GetBool("FEATURE_X", true))
	Set("FEATURE_X", "garbage")
	assert.True(t, GetBool("FEATURE_X", true))
}
