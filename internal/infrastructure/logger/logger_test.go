package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("json gateway configuration", func(t *testing.T) {
		log, err := New(&Config{
			Level:   "info",
			Format:  "json",
			Output:  "stdout",
			Service: "tradelink-gateway",
		})
		require.NoError(t, err)
		require.NotNil(t, log)
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("console configuration for operator tools", func(t *testing.T) {
		log, err := New(&Config{
			Level:  "debug",
			Format: "console",
			Output: "stderr",
		})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("empty config degrades to info on stdout", func(t *testing.T) {
		log, err := New(&Config{})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), "level %q", tt.input)
	}
}

func TestBuildWriter_File(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "gateway.log")

	log, err := New(&Config{
		Level:   "info",
		Format:  "json",
		Output:  logPath,
		Service: "tradelink-gateway",
	})
	require.NoError(t, err)

	log.Info("interchange archived",
		zap.String("message_ref", "TL20260315000001"),
		zap.String("archive_key", "outbound/2026/03/15/TL20260315000001.edi"),
	)
	require.NoError(t, Sync(log))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "interchange archived", record["msg"])
	assert.Equal(t, "TL20260315000001", record["message_ref"])
	assert.Equal(t, "tradelink-gateway", record["logger"])
}

func TestBuildWriter_UnwritablePathFallsBack(t *testing.T) {
	// A directory is not openable as a log file; construction must still
	// yield a working logger.
	log, err := New(&Config{Level: "info", Format: "json", Output: t.TempDir()})
	require.NoError(t, err)
	require.NotNil(t, log)
	log.Info("dispatch round complete")
}

func TestServiceName_OmittedWhenEmpty(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "unnamed.log")

	log, err := New(&Config{Level: "info", Format: "json", Output: logPath})
	require.NoError(t, err)

	log.Info("message decoded")
	require.NoError(t, Sync(log))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	_, present := record["logger"]
	assert.False(t, present, "unnamed logger must not emit a logger field")
}
