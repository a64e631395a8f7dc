package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

func TestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := NewFromZap(zap.New(core), false)

	logger.Debug("debug %d", 1)
	logger.Info("info %d", 2)
	logger.Warn("warn %d", 3)
	logger.Error("error %d", 4)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "warn 3", entries[0].Message)
	assert.Equal(t, "error 4", entries[1].Message)
}

func TestLogger_WithComponent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewFromZap(zap.New(core), false).With("matcher")

	logger.Info("loaded %d images", 6)

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "matcher", entries[0].ContextMap()["component"])
}

func TestLogger_SuccessRequiresVerbose(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	NewFromZap(zap.New(core), false).Success("quiet")
	assert.Equal(t, 0, logs.Len())

	NewFromZap(zap.New(core), true).Success("done")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "[SUCCESS] done", logs.All()[0].Message)
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slidegen.log")

	logger, err := New(entities.LoggingConfig{Level: "debug", JSONFormat: true, File: path})
	require.NoError(t, err)

	logger.Debug("written to %s", "file")
	logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestToZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, toZapLevel(entities.LogLevelDebug))
	assert.Equal(t, zapcore.InfoLevel, toZapLevel(entities.LogLevelInfo))
	assert.Equal(t, zapcore.WarnLevel, toZapLevel(entities.LogLevelWarn))
	assert.Equal(t, zapcore.ErrorLevel, toZapLevel(entities.LogLevelError))
	assert.Equal(t, zapcore.InfoLevel, toZapLevel("bogus"))
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	assert.NotPanics(t, func() {
		logger.Info("nothing")
		logger.With("x").Error("still nothing")
	})
}
