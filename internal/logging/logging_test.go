package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_WritesStructuredEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "debug", Encoding: "json", Output: &buf})

	logger.Info("Login successful", "email", "a@x.com", "tenant_id", "17")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Login successful", entry["msg"])
	assert.Equal(t, "a@x.com", entry["email"])
	assert.Equal(t, "17", entry["tenant_id"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry["caller"], "logging_test.go")
}

func TestAdapter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "warn", Output: &buf})

	logger.Debug("API request")
	logger.Info("Session saved")
	assert.Zero(t, buf.Len())

	logger.Warn("Re-authentication failed", "attempt", 1)
	logger.Error("Re-authentication budget exhausted")
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "verbose", Output: &buf})

	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestAdapter_WithAndConsoleEncoding(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "info", Encoding: "console", Output: &buf}).With("component", "cli")

	logger.Info("Logged out")
	out := buf.String()
	assert.Contains(t, out, "Logged out")
	assert.Contains(t, out, `"component": "cli"`)
}
