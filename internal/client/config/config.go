package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the taskflow client.
//
// Fields:
//   - ServerURL: base URL of the REST API, including the version prefix.
//   - DBPath: SQLite file holding the credential record.
//   - RefreshTimeout: upper bound for one token-refresh call.
//   - RedirectDelay: pause between the session-expired notice and the
//     forced return to the login screen.
//   - RequestTimeout: per-request timeout of the HTTP client.
//   - LogLevel, LogFormat: see logging.New.
type Config struct {
	ServerURL      string
	DBPath         string
	RefreshTimeout time.Duration
	RedirectDelay  time.Duration
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8000/api/v1"
	c.DBPath = "taskflow.db"
	c.RefreshTimeout = 15 * time.Second
	c.RedirectDelay = 1500 * time.Millisecond
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// Load builds a Config from defaults, then the JSON file named by -c/-config
// (or $TASKFLOW_CONFIG), then the flags in args. Later sources take
// precedence over earlier ones.
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
