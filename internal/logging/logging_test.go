package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cleared-dev/pocketbook/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	lg, err := New(config.LoggingConfig{Level: "info", Encoding: "json"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	lg.Debug("hidden")
	lg.Info("account created", zap.Int64("account_id", 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "account created", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 3, entry["account_id"])
}

func TestNew_ConsoleDebug(t *testing.T) {
	var buf bytes.Buffer
	lg, err := New(config.LoggingConfig{Level: "debug", Encoding: "console"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	lg.Debug("loan repaid")
	assert.Contains(t, buf.String(), "loan repaid")
	assert.Contains(t, buf.String(), "debug")
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "loud", Encoding: "json"})
	assert.ErrorContains(t, err, "log level")
	_, err = New(config.LoggingConfig{Level: "info", Encoding: "xml"})
	assert.ErrorContains(t, err, "log encoding")
}
