package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/flagx"
)

// parseFlags overlays cfg with values from the flags it knows about; other
// arguments are filtered out first with flagx.FilterArgs. Invalid values
// panic, matching parseJson.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-s", "-d", "-rt", "-rd", "-t", "-l"})

	fs := flag.NewFlagSet("taskflow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "REST API base URL")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	refreshTimeout := fs.Int("rt", int(cfg.RefreshTimeout.Seconds()), "token refresh timeout (in seconds)")
	redirectDelay := fs.Int("rd", int(cfg.RedirectDelay.Milliseconds()), "login redirect delay (in milliseconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RefreshTimeout = time.Duration(*refreshTimeout) * time.Second
	cfg.RedirectDelay = time.Duration(*redirectDelay) * time.Millisecond
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
