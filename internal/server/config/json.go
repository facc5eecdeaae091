package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskflow/internal/flagx"
	"github.com/dmitrijs2005/taskflow/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Fields left
// out of the file keep their previous value.
type JsonConfig struct {
	EndpointAddr                *string         `json:"endpoint_addr"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	SeedEmail                   *string         `json:"seed_email"`
	SeedPassword                *string         `json:"seed_password"`
	SeedName                    *string         `json:"seed_name"`
	LogLevel                    *string         `json:"log_level"`
	LogFormat                   *string         `json:"log_format"`
}

// parseJson loads the file named by -c/-config (or $TASKFLOW_CONFIG) into
// config. It panics if the file cannot be read or contains invalid JSON.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setString(&config.SeedEmail, c.SeedEmail)
	setString(&config.SeedPassword, c.SeedPassword)
	setString(&config.SeedName, c.SeedName)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
