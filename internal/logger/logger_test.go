package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("should create logger with file output", func(t *testing.T) {
		tmpDir := t.TempDir()
		logFile := filepath.Join(tmpDir, "logs", "test.log")

		l, err := New(Config{Level: "debug", File: logFile, Console: false})
		require.NoError(t, err)
		defer l.Close()

		zl := l.GetZerolog()
		zl.Info().Str("key", "value").Msg("test entry")

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "test entry")
		assert.Contains(t, string(data), `"key":"value"`)
	})

	t.Run("should append to existing log file", func(t *testing.T) {
		tmpDir := t.TempDir()
		logFile := filepath.Join(tmpDir, "test.log")

		l1, err := New(Config{Level: "info", File: logFile})
		require.NoError(t, err)
		zl1 := l1.GetZerolog()
		zl1.Info().Msg("first")
		require.NoError(t, l1.Close())

		l2, err := New(Config{Level: "info", File: logFile})
		require.NoError(t, err)
		zl2 := l2.GetZerolog()
		zl2.Info().Msg("second")
		require.NoError(t, l2.Close())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "first")
		assert.Contains(t, string(data), "second")
	})

	t.Run("should fall back to info on invalid level", func(t *testing.T) {
		tmpDir := t.TempDir()
		logFile := filepath.Join(tmpDir, "test.log")

		l, err := New(Config{Level: "bogus", File: logFile})
		require.NoError(t, err)
		defer l.Close()

		zl := l.GetZerolog()
		zl.Debug().Msg("should be filtered")
		zl.Info().Msg("should appear")

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "should be filtered")
		assert.Contains(t, string(data), "should appear")
	})

	t.Run("should close without file", func(t *testing.T) {
		l, err := New(Config{Level: "info", Console: true})
		require.NoError(t, err)
		assert.NoError(t, l.Close())
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "supreme.log", cfg.File)
	assert.True(t, cfg.Console)
}
