package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-s", "http://api", "-x", "1"},
			allowedFlags: []string{"-s"},
			want:         []string{"-s", "http://api"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-config=alt.json", "-s", "http://api"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags and positionals ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-c", "-config=alt.json"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "-config=alt.json"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-rt", "5", "-rt", "10"},
			allowedFlags: []string{"-rt"},
			want:         []string{"-rt", "5", "-rt", "10"},
		},
		{
			name:         "empty args",
			args:         nil,
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFile(t *testing.T) {
	t.Run("short -c", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "")
		assert.Equal(t, "/path/short.json", ConfigFile([]string{"-c", "/path/short.json"}))
	})

	t.Run("long -config wins when last", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "")
		assert.Equal(t, "/path/2.json", ConfigFile([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "/etc/taskflow.json")
		assert.Equal(t, "/etc/taskflow.json", ConfigFile([]string{"-s", "http://api"}))
	})

	t.Run("flag beats env", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "/etc/taskflow.json")
		assert.Equal(t, "local.json", ConfigFile([]string{"-config=local.json"}))
	})

	t.Run("nothing set", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "")
		assert.Empty(t, ConfigFile([]string{"-x", "1"}))
	})
}
