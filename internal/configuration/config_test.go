package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parttracker/internal/logger"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestGetConfig(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfigFile(t, `
server_address = "0.0.0.0:9000"
database_uri = "mongodb://db:27017"
redis_address = "cache:6379"
log_level = "DEBUG"
log_to_file = true
`)
		config, err := GetConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:9000", config.ServerAddress)
		assert.Equal(t, "mongodb://db:27017", config.DatabaseURI)
		assert.Equal(t, "cache:6379", config.RedisAddress)
		assert.Equal(t, logger.LevelDebug, config.LogLevel)
		assert.True(t, config.LogToFile)
	})

	t.Run("empty config falls back to defaults", func(t *testing.T) {
		path := writeConfigFile(t, "")
		config, err := GetConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "localhost:8888", config.ServerAddress)
		assert.Equal(t, "mongodb://localhost:27017", config.DatabaseURI)
		assert.Equal(t, "localhost:6379", config.RedisAddress)
		assert.Equal(t, logger.LevelInfo, config.LogLevel)
		assert.False(t, config.LogToFile)
	})

	t.Run("invalid log level", func(t *testing.T) {
		path := writeConfigFile(t, `log_level = "CHATTY"`)
		_, err := GetConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := GetConfig(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}
