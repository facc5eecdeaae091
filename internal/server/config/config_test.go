package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8000", c.EndpointAddr)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 1*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, "demo@example.com", c.SeedEmail)
	assert.Equal(t, "demo", c.SeedPassword)
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("TASKFLOW_CONFIG", "")

	path := filepath.Join(t.TempDir(), "server.json")
	b, err := json.Marshal(map[string]any{
		"endpoint_addr":                  "127.0.0.1:9000",
		"secret_key":                     "from-file",
		"access_token_validity_duration": "30s",
		"seed_name":                      "Ann",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	cfg := Load([]string{"-c", path, "-s", "from-flag", "-e", ""})

	want := &Config{
		EndpointAddr:                "127.0.0.1:9000",
		SecretKey:                   "from-flag",
		AccessTokenValidityDuration: 30 * time.Second,
		SeedEmail:                   "",
		SeedPassword:                "demo",
		SeedName:                    "Ann",
		LogLevel:                    "info",
		LogFormat:                   "json",
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseFlags_Invalid(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	require.Panics(t, func() { parseFlags(cfg, []string{"-t", "soon"}) })
}

func TestParseJson_Invalid(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

	cfg := &Config{}
	require.Panics(t, func() { parseJson(cfg, []string{"-config", bad}) })
}
