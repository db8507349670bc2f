package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"FlightDelayInsight/src/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLogger(t *testing.T, maxSize string) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := NewLogger(config.LogConfig{Level: "debug", Format: "json", File: path, MaxSize: maxSize})
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })
	return logger, path
}

func TestLoggerWritesFile(t *testing.T) {
	logger, path := newTestLogger(t, "")

	logger.Info("数据加载完成", zap.Int("records", 42))
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "数据加载完成")
	assert.Contains(t, string(data), `"records":42`)
}

func TestLoggerSubscribe(t *testing.T) {
	logger, _ := newTestLogger(t, "")

	ch := logger.Subscribe()
	logger.Warn("reference table missing", zap.String("path", "airports.csv"))

	select {
	case msg := <-ch:
		assert.Contains(t, msg, "reference table missing")
		assert.Contains(t, msg, "airports.csv")
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive log entry")
	}

	logger.Unsubscribe(ch)
	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after unsubscribe")
}

func TestLoggerLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger(config.LogConfig{Level: "warn", File: path})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Error("visible")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestLoggerInvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "loud"})
	require.Error(t, err)
}

func TestLoggerCheckRotate(t *testing.T) {
	logger, path := newTestLogger(t, "64")

	rotated, err := logger.CheckRotate()
	require.NoError(t, err)
	assert.False(t, rotated, "empty file should not rotate")

	logger.Info(strings.Repeat("x", 128))

	rotated, err = logger.CheckRotate()
	require.NoError(t, err)
	assert.True(t, rotated)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "rotated file plus a fresh app.log")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestLoggerReopen(t *testing.T) {
	logger, _ := newTestLogger(t, "")

	next := filepath.Join(t.TempDir(), "next.log")
	require.NoError(t, logger.Reopen(next))
	logger.Info("after reopen")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(next)
	require.NoError(t, err)
	assert.Contains(t, string(data), "after reopen")
}
