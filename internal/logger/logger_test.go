package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/jwebster45206/guining-hotel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := setup(&buf, &config.Config{Environment: "production", LogLevel: slog.LevelInfo})

	WithSession(log, "abc").Info("saved", "slot", "inventory")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "saved", entry["msg"])
	assert.Equal(t, "abc", entry["session_id"])
	assert.Equal(t, "inventory", entry["slot"])
}

func TestSetup_DevelopmentWritesTextAndFilters(t *testing.T) {
	var buf bytes.Buffer
	log := setup(&buf, &config.Config{Environment: "development", LogLevel: slog.LevelWarn})

	log.Info("hidden")
	WithRequestID(log, "r-1").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "msg=shown"))
	assert.Contains(t, out, "request_id=r-1")
}
