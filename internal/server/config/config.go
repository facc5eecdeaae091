// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the development API server.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP listener.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Do not use
//     the default outside development.
//   - AccessTokenValidityDuration: access token lifetime. Keep it short to
//     watch the client refresh.
//   - SeedEmail / SeedPassword / SeedName: demo account created at start;
//     an empty SeedEmail disables it.
//   - LogLevel, LogFormat: see logging.New.
type Config struct {
	EndpointAddr                string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	SeedEmail                   string
	SeedPassword                string
	SeedName                    string
	LogLevel                    string
	LogFormat                   string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8000"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 1 * time.Minute
	c.SeedEmail = "demo@example.com"
	c.SeedPassword = "demo"
	c.SeedName = "Demo User"
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// Load builds a Config by applying defaults, then overlaying values from an
// optional JSON file and finally from the flags in args.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}

// LoadConfig is Load applied to the process arguments.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}
