package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// Config represents the complete application configuration
type Config struct {
	Stations StationsConfig `mapstructure:"stations"`
	Keys     KeysConfig     `mapstructure:"keys"`
	Debounce DebounceConfig `mapstructure:"debounce"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Player   PlayerConfig   `mapstructure:"player"`
	Spotify  SpotifyConfig  `mapstructure:"spotify"`
	Subsonic SubsonicConfig `mapstructure:"subsonic"`
	Log      LogConfig      `mapstructure:"log"`
}

// StationsConfig contains the local station source. An empty directory
// disables it.
type StationsConfig struct {
	Directory  string `mapstructure:"directory"`
	LoopFactor int    `mapstructure:"loop_factor"`
}

// KeysConfig binds keys to commands
type KeysConfig struct {
	Toggle         []string `mapstructure:"toggle"`
	Previous       []string `mapstructure:"previous"`
	Next           []string `mapstructure:"next"`
	Status         []string `mapstructure:"status"`
	Quit           []string `mapstructure:"quit"`
	ReloadSequence string   `mapstructure:"reload_sequence"`
}

// DebounceConfig contains the burst filter. A zero window disables it.
type DebounceConfig struct {
	Window time.Duration `mapstructure:"window"`
}

// RemoteConfig bounds every call to Spotify or Subsonic
type RemoteConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryBackoff  time.Duration `mapstructure:"retry_backoff"`
}

// PlayerConfig contains local playback settings
type PlayerConfig struct {
	LoadTimeout time.Duration `mapstructure:"load_timeout"`
}

// SpotifyConfig contains Spotify Web API settings
type SpotifyConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
	RedirectURL    string `mapstructure:"redirect_url"`
	TokenFile      string `mapstructure:"token_file"`
	DeviceID       string `mapstructure:"device_id"`
	PlaylistPrefix string `mapstructure:"playlist_prefix"`
}

// SubsonicConfig contains Navidrome/Subsonic server connection settings
type SubsonicConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	ClientID       string        `mapstructure:"client_id"`
	APIVersion     string        `mapstructure:"api_version"`
	PlaylistPrefix string        `mapstructure:"playlist_prefix"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
}

// LogConfig contains logging settings. File is used while the terminal UI
// owns the screen.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Stations: StationsConfig{
			LoopFactor: 3,
		},
		Keys: KeysConfig{
			Toggle:         []string{"a", "s", "d"},
			Previous:       []string{"q", "w", "e"},
			Next:           []string{"z", "x", "c"},
			Status:         []string{"i"},
			Quit:           []string{},
			ReloadSequence: "qwedcxza",
		},
		Debounce: DebounceConfig{
			Window: 30 * time.Second,
		},
		Remote: RemoteConfig{
			Timeout:       10 * time.Second,
			RetryAttempts: 3,
			RetryBackoff:  500 * time.Millisecond,
		},
		Player: PlayerConfig{
			LoadTimeout: 5 * time.Second,
		},
		Spotify: SpotifyConfig{
			RedirectURL:    "http://127.0.0.1:8888/callback",
			TokenFile:      "spotify_token.json",
			PlaylistPrefix: "radio",
		},
		Subsonic: SubsonicConfig{
			ClientID:       "localradio",
			APIVersion:     "1.16.1",
			PlaylistPrefix: "radio",
			HTTPTimeout:    30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
			File:  "localradio.log",
		},
	}
}

func (c *Config) normalize() {
	for _, keys := range []*[]string{&c.Keys.Toggle, &c.Keys.Previous, &c.Keys.Next, &c.Keys.Status, &c.Keys.Quit} {
		out := (*keys)[:0]
		for _, k := range *keys {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				out = append(out, k)
			}
		}
		*keys = out
	}
	c.Keys.ReloadSequence = strings.ToLower(strings.TrimSpace(c.Keys.ReloadSequence))
}

// Validate checks if all required configuration values are set
func (c *Config) Validate() error {
	var errs error
	if c.Stations.Directory == "" && !c.Spotify.Enabled && !c.Subsonic.Enabled {
		errs = multierr.Append(errs, errors.New("no station source enabled"))
	}
	if c.Stations.LoopFactor < 1 {
		errs = multierr.Append(errs, fmt.Errorf("stations.loop_factor must be at least 1, got %d", c.Stations.LoopFactor))
	}
	if c.Keys.ReloadSequence == "" {
		errs = multierr.Append(errs, errors.New("keys.reload_sequence must not be empty"))
	}
	errs = multierr.Append(errs, c.Keys.disjoint())
	if c.Debounce.Window < 0 {
		errs = multierr.Append(errs, errors.New("debounce.window must not be negative"))
	}
	if c.Remote.RetryAttempts < 1 {
		errs = multierr.Append(errs, errors.New("remote.retry_attempts must be at least 1"))
	}
	if c.Remote.Timeout <= 0 {
		errs = multierr.Append(errs, errors.New("remote.timeout must be positive"))
	}

	if c.Spotify.Enabled {
		errs = multierr.Append(errs, required("spotify", map[string]string{
			"client_id":     c.Spotify.ClientID,
			"client_secret": c.Spotify.ClientSecret,
			"token_file":    c.Spotify.TokenFile,
			"device_id":     c.Spotify.DeviceID,
		}))
	}
	if c.Subsonic.Enabled {
		errs = multierr.Append(errs, required("subsonic", map[string]string{
			"url":      c.Subsonic.URL,
			"username": c.Subsonic.Username,
			"password": c.Subsonic.Password,
		}))
	}
	return errs
}

func (k KeysConfig) disjoint() error {
	var errs error
	seen := make(map[string]string)
	groups := []struct {
		name string
		keys []string
	}{
		{"toggle", k.Toggle},
		{"previous", k.Previous},
		{"next", k.Next},
		{"status", k.Status},
		{"quit", k.Quit},
	}
	for _, g := range groups {
		for _, key := range g.keys {
			if other, ok := seen[key]; ok && other != g.name {
				errs = multierr.Append(errs, fmt.Errorf("key %q bound to both keys.%s and keys.%s", key, other, g.name))
				continue
			}
			seen[key] = g.name
		}
	}
	return errs
}

func required(section string, values map[string]string) error {
	var errs error
	for _, name := range []string{"url", "username", "password", "client_id", "client_secret", "token_file", "device_id"} {
		value, ok := values[name]
		if ok && value == "" {
			errs = multierr.Append(errs, fmt.Errorf("missing required config: %s.%s", section, name))
		}
	}
	return errs
}
