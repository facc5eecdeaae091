// Package config loads runtime configuration for the taskflow client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c/-config or $TASKFLOW_CONFIG.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-s string   REST API base URL
//	-d string   path of the local SQLite database
//	-rt int     token refresh timeout (seconds)
//	-rd int     delay before the login redirect after session expiry (milliseconds)
//	-t int      HTTP request timeout (seconds)
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "15s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "http://localhost:8000/api/v1",
//	  "db_path": "taskflow.db",
//	  "refresh_timeout": "15s",
//	  "redirect_delay": "1500ms",
//	  "request_timeout": "30s",
//	  "log_level": "info",
//	  "log_format": "json"
//	}
//
// Fields absent from the JSON file keep their previous value.
package config
