// File: internal/observability/logger_test.go
package observability

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/suture-cli/internal/config"
)

// lockedBuffer is an in-memory WriteSyncer for capturing log output.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Sync() error { return nil }

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var _ zapcore.WriteSyncer = (*lockedBuffer)(nil)

func TestInitializeJSONOutput(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	buf := &lockedBuffer{}
	Initialize(config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "suture-test",
	}, buf)

	logger := GetLogger()
	logger.Info("resolution complete")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, `"msg":"resolution complete"`)
	assert.Contains(t, out, `"logger":"suture-test"`)
	assert.Contains(t, out, `"INFO"`)
}

func TestInitializeLevelFiltering(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	buf := &lockedBuffer{}
	Initialize(config.LoggerConfig{Level: "warn", Format: "json"}, buf)

	logger := GetLogger()
	logger.Info("suppressed")
	logger.Warn("surfaced")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "surfaced")
}

func TestInitializeInvalidLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	buf := &lockedBuffer{}
	Initialize(config.LoggerConfig{Level: "loud", Format: "json"}, buf)

	logger := GetLogger()
	logger.Debug("suppressed")
	logger.Info("surfaced")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "surfaced")
}

func TestInitializeIsIdempotent(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	first := &lockedBuffer{}
	second := &lockedBuffer{}
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, first)
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, second)

	GetLogger().Info("routed to first")

	assert.Contains(t, first.String(), "routed to first")
	assert.Empty(t, second.String())
}

func TestGetLoggerBeforeInitReturnsFallback(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
}
