package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/Aalekh09/MoodlyApp/internal/flagx"
	"github.com/Aalekh09/MoodlyApp/internal/timex"
)

// jsonConfig is the DTO for JSON unmarshalling. timex.Duration lets the
// file spell intervals either as "10s" strings or integer nanoseconds.
type jsonConfig struct {
	ServerEndpoint      string         `json:"server_endpoint"`
	DatabasePath        string         `json:"database_path"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

// parseJSON overlays cfg with values from the JSON file named by -c/-config,
// if any. Absent fields keep their current values.
func parseJSON(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpoint != "" {
		cfg.ServerEndpoint = jc.ServerEndpoint
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
}
