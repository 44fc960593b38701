package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvPrefix prefixes every environment override, e.g. LOCALRADIO_SUBSONIC_PASSWORD.
const EnvPrefix = "LOCALRADIO"

// LoadEnvFile exports the variables of a .env file that are not already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := gotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads config.toml, applies environment overrides and returns a
// validated Config. An empty path searches $HOME/.config/localradio and the
// working directory, and falls back to defaults when nothing is found.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("$HOME/.config/localradio/")
		v.AddConfigPath(".")
	}

	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key, which also makes AutomaticEnv see it
// during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("stations.directory", d.Stations.Directory)
	v.SetDefault("stations.loop_factor", d.Stations.LoopFactor)

	v.SetDefault("keys.toggle", d.Keys.Toggle)
	v.SetDefault("keys.previous", d.Keys.Previous)
	v.SetDefault("keys.next", d.Keys.Next)
	v.SetDefault("keys.status", d.Keys.Status)
	v.SetDefault("keys.quit", d.Keys.Quit)
	v.SetDefault("keys.reload_sequence", d.Keys.ReloadSequence)

	v.SetDefault("debounce.window", d.Debounce.Window)

	v.SetDefault("remote.timeout", d.Remote.Timeout)
	v.SetDefault("remote.retry_attempts", d.Remote.RetryAttempts)
	v.SetDefault("remote.retry_backoff", d.Remote.RetryBackoff)

	v.SetDefault("player.load_timeout", d.Player.LoadTimeout)

	v.SetDefault("spotify.enabled", d.Spotify.Enabled)
	v.SetDefault("spotify.client_id", d.Spotify.ClientID)
	v.SetDefault("spotify.client_secret", d.Spotify.ClientSecret)
	v.SetDefault("spotify.redirect_url", d.Spotify.RedirectURL)
	v.SetDefault("spotify.token_file", d.Spotify.TokenFile)
	v.SetDefault("spotify.device_id", d.Spotify.DeviceID)
	v.SetDefault("spotify.playlist_prefix", d.Spotify.PlaylistPrefix)

	v.SetDefault("subsonic.enabled", d.Subsonic.Enabled)
	v.SetDefault("subsonic.url", d.Subsonic.URL)
	v.SetDefault("subsonic.username", d.Subsonic.Username)
	v.SetDefault("subsonic.password", d.Subsonic.Password)
	v.SetDefault("subsonic.client_id", d.Subsonic.ClientID)
	v.SetDefault("subsonic.api_version", d.Subsonic.APIVersion)
	v.SetDefault("subsonic.playlist_prefix", d.Subsonic.PlaylistPrefix)
	v.SetDefault("subsonic.http_timeout", d.Subsonic.HTTPTimeout)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}
