package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProductionJSON(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("LOG_LEVEL", "WARN")

	var buf bytes.Buffer
	logger := WithService(newLogger(&buf), "listing")
	logger.Info("dropped")
	logger.Warn("kept", "event_id", "ev-1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "listing", rec["service"])
	assert.Equal(t, "ev-1", rec["event_id"])
}

func TestNewLogger_DevelopmentText(t *testing.T) {
	t.Setenv("GO_ENV", "")
	t.Setenv("LOG_LEVEL", "debug")

	var buf bytes.Buffer
	newLogger(&buf).Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestNewLogger_AfterLoadHonoursDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GO_ENV", "development")
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o600))
	t.Chdir(dir)

	_, err := Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	newLogger(&buf).Debug("from dotenv")
	assert.Contains(t, buf.String(), "msg=\"from dotenv\"")
}
