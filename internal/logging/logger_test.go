package logging

import (
	"os"
	"path/filepath"
	"testing"

	"justdo/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" Warning "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("ERROR"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("chatty"))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "justdo.log")

	log, err := New(config.LogConfig{Level: "info", Format: "json", Output: path, MaxSizeMB: 1, MaxAgeDays: 1})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("visible")
	require.NoError(t, log.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"message":"visible"`)
	assert.NotContains(t, string(b), "hidden")
}

func TestNew_ConsoleToStderr(t *testing.T) {
	log, err := New(config.LogConfig{Level: "warn", Format: "console", Output: "stderr"})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}
