// Package flagx holds helpers for packages that parse only their own subset
// of the process command line.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// ConfigEnvVar names the environment variable consulted by ConfigFile when no
// -c/-config flag is given.
const ConfigEnvVar = "TASKFLOW_CONFIG"

// FilterArgs keeps only the allowed flags (and their values) from args.
//
// Two forms are recognised:
//
//	-s http://host/api     flag and value as separate arguments
//	-s=http://host/api     flag and value joined with '='
//
// A separate value is taken only when the next argument does not start with
// '-'. The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := allowed[name]; keep {
				out = append(out, arg)
			}
			continue
		}

		if _, keep := allowed[arg]; !keep {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigFile returns the JSON config path given via -c or -config in args,
// falling back to $TASKFLOW_CONFIG. Empty means no config file.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	if path == "" {
		path = os.Getenv(ConfigEnvVar)
	}
	return path
}
