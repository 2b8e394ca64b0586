package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"moodly"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.Equal(t, "http://127.0.0.1:8080/api", c.ServerEndpoint)
	assert.Equal(t, "moodly.db", c.DatabasePath)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 30*time.Second, c.OnlineCheckInterval)
}

func TestLoadConfig_JSONOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	raw, err := json.Marshal(map[string]any{
		"server_endpoint":       "https://sheet.example.com/exec",
		"online_check_interval": "5s",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	withArgs(t, "-c", path)

	cfg := LoadConfig()
	assert.Equal(t, "https://sheet.example.com/exec", cfg.ServerEndpoint)
	assert.Equal(t, 5*time.Second, cfg.OnlineCheckInterval)
	// untouched fields keep defaults
	assert.Equal(t, "moodly.db", cfg.DatabasePath)
}

func TestLoadConfig_EnvOverridesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_endpoint":"https://from-json"}`), 0o600))

	withArgs(t, "-c", path)
	t.Setenv("MOODLY_SERVER_ENDPOINT", "https://from-env")
	t.Setenv("MOODLY_REQUEST_TIMEOUT", "3s")

	cfg := LoadConfig()
	assert.Equal(t, "https://from-env", cfg.ServerEndpoint)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	t.Setenv("MOODLY_SERVER_ENDPOINT", "https://from-env")
	withArgs(t, "-a", "https://from-flag", "-i", "7")

	cfg := LoadConfig()
	assert.Equal(t, "https://from-flag", cfg.ServerEndpoint)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
}
