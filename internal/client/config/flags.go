package config

import (
	"flag"
	"os"
	"time"

	"github.com/Aalekh09/MoodlyApp/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-a string   backend endpoint URL
//	-d string   offline database path
//	-t int      request timeout in seconds
//	-i int      online check interval in seconds
//
// Args are filtered via flagx.FilterArgs so the config-file flags handled
// elsewhere do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpoint, "a", cfg.ServerEndpoint, "backend endpoint URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "offline database path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
}
