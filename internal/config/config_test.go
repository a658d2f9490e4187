package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults fill missing keys", func(t *testing.T) {
		// Given: a config file with only the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: it is loaded
		conf, err := Load(path)
		require.NoError(t, err)

		// Then: everything else has its default
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, 3, conf.Board.Dimensions)
		assert.Equal(t, 3, conf.Board.WinLength)
		assert.Equal(t, 32, conf.Board.MaxDimension)
		assert.Equal(t, 4, conf.Board.MaxBotDimension)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("File values win over defaults", func(t *testing.T) {
		path := writeConfig(t, "board:\n  dimensions: 4\n  win-length: 4\nredis:\n  enabled: true\n  host: cache\n")

		conf, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 4, conf.Board.Dimensions)
		assert.Equal(t, 4, conf.Board.WinLength)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "cache:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Warn level is accepted", func(t *testing.T) {
		path := writeConfig(t, "log-level: warn\n")

		conf, err := Load(path)
		require.NoError(t, err)

		level, err := conf.SlogLevel()
		require.NoError(t, err)
		assert.Equal(t, slog.LevelWarn, level)
	})

	t.Run("Unknown log level is an error", func(t *testing.T) {
		// Given: a config file with a misspelled level
		path := writeConfig(t, "log-level: verbose\n")

		// When: it is loaded
		_, err := Load(path)

		// Then: loading fails instead of logging at an arbitrary level
		require.ErrorIs(t, err, ErrInvalidLogLevel)
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
	})

	t.Run("MustLoad panics on a missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "absent.yml"))
		})
	})
}
