package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[stations]\ndirectory = \"music\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "music", cfg.Stations.Directory)
	assert.Equal(t, 3, cfg.Stations.LoopFactor)
	assert.Equal(t, []string{"a", "s", "d"}, cfg.Keys.Toggle)
	assert.Equal(t, []string{"q", "w", "e"}, cfg.Keys.Previous)
	assert.Equal(t, []string{"z", "x", "c"}, cfg.Keys.Next)
	assert.Equal(t, "qwedcxza", cfg.Keys.ReloadSequence)
	assert.Equal(t, 30*time.Second, cfg.Debounce.Window)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 3, cfg.Remote.RetryAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Remote.RetryBackoff)
	assert.Equal(t, 5*time.Second, cfg.Player.LoadTimeout)
	assert.False(t, cfg.Spotify.Enabled)
	assert.Equal(t, "radio", cfg.Subsonic.PlaylistPrefix)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[stations]
directory = "/srv/radio"
loop_factor = 5

[keys]
toggle = ["Space", "T"]
next = ["right"]
previous = ["left"]
reload_sequence = "LRLR"

[debounce]
window = "0s"

[subsonic]
enabled = true
url = "http://navidrome:4533"
username = "radio"
`)
	t.Setenv("LOCALRADIO_SUBSONIC_PASSWORD", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/radio", cfg.Stations.Directory)
	assert.Equal(t, 5, cfg.Stations.LoopFactor)
	assert.Equal(t, []string{"space", "t"}, cfg.Keys.Toggle)
	assert.Equal(t, "lrlr", cfg.Keys.ReloadSequence)
	assert.Zero(t, cfg.Debounce.Window)
	assert.True(t, cfg.Subsonic.Enabled)
	assert.Equal(t, "from-env", cfg.Subsonic.Password)
}

func TestLoadWithoutSource(t *testing.T) {
	_, err := Load(writeConfig(t, ""))
	assert.ErrorContains(t, err, "no station source enabled")
}

func TestLoadSpotifyOnly(t *testing.T) {
	t.Setenv("LOCALRADIO_SPOTIFY_CLIENT_ID", "id")
	t.Setenv("LOCALRADIO_SPOTIFY_CLIENT_SECRET", "from-env")
	t.Setenv("LOCALRADIO_SPOTIFY_DEVICE_ID", "device")

	cfg, err := Load(writeConfig(t, "[spotify]\nenabled = true\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Stations.Directory, "no local source unless configured")
	assert.True(t, cfg.Spotify.Enabled)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOCALRADIO_STATIONS_DIRECTORY", "/srv/radio")
	t.Setenv("LOCALRADIO_KEYS_TOGGLE", "m,N")
	t.Setenv("LOCALRADIO_DEBOUNCE_WINDOW", "45s")
	t.Setenv("LOCALRADIO_STATIONS_LOOP_FACTOR", "2")

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, []string{"m", "n"}, cfg.Keys.Toggle)
	assert.Equal(t, 45*time.Second, cfg.Debounce.Window)
	assert.Equal(t, 2, cfg.Stations.LoopFactor)
	assert.Equal(t, "/srv/radio", cfg.Stations.Directory)
}

func TestValidateMissingSecrets(t *testing.T) {
	path := writeConfig(t, `
[spotify]
enabled = true
client_id = "abc"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spotify.client_secret")
	assert.Contains(t, err.Error(), "spotify.device_id")
	assert.NotContains(t, err.Error(), "spotify.client_id")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"no source", func(c *Config) { c.Stations.Directory = "" }, "no station source enabled"},
		{"loop factor", func(c *Config) { c.Stations.LoopFactor = 0 }, "loop_factor"},
		{"empty sequence", func(c *Config) { c.Keys.ReloadSequence = "" }, "reload_sequence"},
		{"overlap", func(c *Config) { c.Keys.Next = append(c.Keys.Next, "a") }, `key "a" bound to both keys.toggle and keys.next`},
		{"attempts", func(c *Config) { c.Remote.RetryAttempts = 0 }, "retry_attempts"},
		{"subsonic", func(c *Config) { c.Subsonic.Enabled = true }, "subsonic.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Stations.Directory = "stations"
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOCALRADIO_TEST_DOTENV=yes\n"), 0o600))
	t.Setenv("LOCALRADIO_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("LOCALRADIO_TEST_DOTENV"))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "yes", os.Getenv("LOCALRADIO_TEST_DOTENV"))

	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
