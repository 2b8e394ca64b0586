// Package config loads the Moodly client configuration. Sources are
// overlaid in order of increasing precedence: built-in defaults, a JSON
// file (-c/-config), environment variables, command-line flags.
package config

import "time"

// Config holds runtime settings for the Moodly client.
type Config struct {
	// ServerEndpoint is the URL of the backend RPC endpoint.
	ServerEndpoint string

	// DatabasePath is the sqlite file holding the offline store.
	DatabasePath string

	// RequestTimeout bounds every backend HTTP call.
	RequestTimeout time.Duration

	// OnlineCheckInterval is how often connectivity is probed.
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpoint = "http://127.0.0.1:8080/api"
	c.DatabasePath = "moodly.db"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 30 * time.Second
}

// LoadConfig constructs a Config from all sources. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
