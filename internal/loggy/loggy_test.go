package loggy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNoopLogger(t *testing.T) {
	logger := NewNoopLogger()
	require.NotNil(t, logger)
	assert.Same(t, logger, GetGlobalLogger())

	// Must not panic
	logger.Debug("debug", "key", "value")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger

	// Nil receivers must not panic
	logger.Debug("debug")
	logger.Info("info")
	assert.Nil(t, logger.With("key", "value"))
	assert.Nil(t, logger.WithGroup("group"))
}

func TestWith(t *testing.T) {
	logger := NewNoopLogger()

	child := logger.With("component", "test")
	require.NotNil(t, child)
	assert.NotSame(t, logger, child)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestContextRoundTrip(t *testing.T) {
	logger := NewNoopLogger()

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	logger := NewNoopLogger()

	assert.Same(t, logger, FromContext(context.Background()))
	assert.Same(t, logger, FromContext(nil))
}
