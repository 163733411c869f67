package logging

import (
	"os"
	"path/filepath"
	"testing"

	"qcirc/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "qcirc.log")
	logger, closer, err := New(config.Log{File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Debug("hidden at info level")
	logger.Info("routed circuit", zap.String("circuit", "ghz"), zap.Int("swaps", 2))
	require.NoError(t, logger.Sync())
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "routed circuit")
	assert.Contains(t, string(data), "ghz")
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestNew_DebugFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	logger, closer, err := New(config.Log{File: path, Debug: true})
	require.NoError(t, err)
	defer closer.Close()

	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
	logger.Debug("swap chosen")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "swap chosen")
}

func TestNew_Stderr(t *testing.T) {
	logger, closer, err := New(config.Log{})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))
}
