package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig maps environment variables onto config fields.
type envConfig struct {
	ServerEndpoint      string        `env:"MOODLY_SERVER_ENDPOINT"`
	DatabasePath        string        `env:"MOODLY_DATABASE_PATH"`
	RequestTimeout      time.Duration `env:"MOODLY_REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"MOODLY_ONLINE_CHECK_INTERVAL"`
}

// parseEnv overlays cfg with values from the environment. Unset variables
// keep the current values.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.ServerEndpoint != "" {
		cfg.ServerEndpoint = ec.ServerEndpoint
	}
	if ec.DatabasePath != "" {
		cfg.DatabasePath = ec.DatabasePath
	}
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.OnlineCheckInterval != 0 {
		cfg.OnlineCheckInterval = ec.OnlineCheckInterval
	}
}
