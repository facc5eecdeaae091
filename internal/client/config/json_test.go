package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskflow/internal/flagx"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"server_url":      "https://tasks.example/api/v1",
		"db_path":         "/var/lib/taskflow.db",
		"refresh_timeout": "10s",
		"redirect_delay":  "500ms",
		"request_timeout": 3000000000,
		"log_level":       "info",
		"log_format":      "json",
	})

	t.Run("loads from -config", func(t *testing.T) {
		cfg := &Config{}
		parseJson(cfg, []string{"-config", full})

		assert.Equal(t, "https://tasks.example/api/v1", cfg.ServerURL)
		assert.Equal(t, "/var/lib/taskflow.db", cfg.DBPath)
		assert.Equal(t, 10*time.Second, cfg.RefreshTimeout)
		assert.Equal(t, 500*time.Millisecond, cfg.RedirectDelay)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("loads from env", func(t *testing.T) {
		t.Setenv(flagx.ConfigEnvVar, full)
		cfg := &Config{}
		parseJson(cfg, nil)
		assert.Equal(t, "https://tasks.example/api/v1", cfg.ServerURL)
	})

	t.Run("partial file keeps other fields", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"log_level": "debug"})
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-c", partial})

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "http://localhost:8000/api/v1", cfg.ServerURL)
		assert.Equal(t, 15*time.Second, cfg.RefreshTimeout)
	})

	t.Run("no file → no changes", func(t *testing.T) {
		t.Setenv(flagx.ConfigEnvVar, "")
		cfg := &Config{ServerURL: "defaults", RefreshTimeout: 42 * time.Second}
		parseJson(cfg, []string{"-s", "ignored"})

		assert.Equal(t, "defaults", cfg.ServerURL)
		assert.Equal(t, 42*time.Second, cfg.RefreshTimeout)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", bad}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", filepath.Join(dir, "nope.json")}) })
	})
}
