package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/yhkl-dev/localradio/auth"
	"github.com/yhkl-dev/localradio/catalog"
	"github.com/yhkl-dev/localradio/config"
	"github.com/yhkl-dev/localradio/domain"
	"github.com/yhkl-dev/localradio/library"
	"github.com/yhkl-dev/localradio/media"
	"github.com/yhkl-dev/localradio/mpvplayer"
	"github.com/yhkl-dev/localradio/player"
	"github.com/yhkl-dev/localradio/subsonic"
)

// wiring holds the configured sources and whatever must be released on exit.
type wiring struct {
	sources []catalog.Source
	closers []func() error
}

func (w *wiring) Close() error {
	var errs error
	for i := len(w.closers) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, w.closers[i]())
	}
	return errs
}

// wire connects every enabled source. Without playback no player is
// opened, which is enough for listing stations.
func wire(ctx context.Context, cfg *config.Config, playback bool, logger zerolog.Logger) (*wiring, error) {
	w := &wiring{}
	fail := func(err error) (*wiring, error) {
		return nil, multierr.Append(err, w.Close())
	}

	policy := player.DefaultRetryPolicy()
	if cfg.Remote.RetryAttempts > 0 {
		policy.Attempts = cfg.Remote.RetryAttempts
	}
	if cfg.Remote.RetryBackoff > 0 {
		policy.Backoff = cfg.Remote.RetryBackoff
	}
	policy.Timeout = cfg.Remote.Timeout

	if cfg.Stations.Directory != "" {
		if err := w.local(ctx, cfg, playback, logger); err != nil {
			return fail(err)
		}
	}
	if cfg.Spotify.Enabled {
		if err := w.spotify(ctx, cfg, policy, logger); err != nil {
			return fail(err)
		}
	}
	if cfg.Subsonic.Enabled {
		if err := w.subsonic(ctx, cfg, policy, logger); err != nil {
			return fail(err)
		}
	}
	return w, nil
}

func (w *wiring) local(ctx context.Context, cfg *config.Config, playback bool, logger zerolog.Logger) error {
	logger = logger.With().Str("source", "local").Logger()

	// nil until playback is wanted; Local refuses to play without a session
	var session player.Session
	if playback {
		s, err := mpvplayer.NewSession(ctx, logger, cfg.Player.LoadTimeout)
		if err != nil {
			return err
		}
		w.closers = append(w.closers, func() error {
			s.Close()
			return nil
		})
		session = s
	}

	lib := library.NewDirectory(osFs, cfg.Stations.Directory, media.NewProber(osFs), logger)
	w.sources = append(w.sources, catalog.Source{
		Library: lib,
		Bind: func(id string, p domain.Playlist, loopFactor int) (player.Backend, error) {
			return player.NewLocal(id, p.URIs(loopFactor), session), nil
		},
	})
	return nil
}

func (w *wiring) spotify(ctx context.Context, cfg *config.Config, policy player.RetryPolicy, logger zerolog.Logger) error {
	logger = logger.With().Str("source", "spotify").Logger()

	authenticator := auth.NewAuthenticator(auth.Credentials{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RedirectURL:  cfg.Spotify.RedirectURL,
	})
	store := auth.NewTokenStore(osFs, cfg.Spotify.TokenFile)
	session, err := auth.Login(ctx, authenticator, store, os.Stdin, os.Stderr, logger)
	if err != nil {
		return fmt.Errorf("spotify: %w", err)
	}
	w.closers = append(w.closers, session.Persist)

	client := session.Client
	w.sources = append(w.sources, catalog.Source{
		Library: library.NewSpotify(client, cfg.Spotify.PlaylistPrefix, logger),
		Bind: func(id string, p domain.Playlist, _ int) (player.Backend, error) {
			// the device repeats the playlist context itself
			return player.NewSpotify(client, cfg.Spotify.DeviceID, p.URI, policy, logger), nil
		},
	})
	return nil
}

func (w *wiring) subsonic(ctx context.Context, cfg *config.Config, policy player.RetryPolicy, logger zerolog.Logger) error {
	logger = logger.With().Str("source", "subsonic").Logger()

	client := subsonic.Init(
		cfg.Subsonic.URL,
		cfg.Subsonic.Username,
		cfg.Subsonic.Password,
		cfg.Subsonic.ClientID,
		cfg.Subsonic.APIVersion,
		cfg.Subsonic.HTTPTimeout,
	)
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("subsonic: %w", err)
	}

	device := player.NewJukeboxDevice(client, policy, logger)
	w.sources = append(w.sources, catalog.Source{
		Library: library.NewSubsonic(client, cfg.Subsonic.PlaylistPrefix, logger),
		Bind: func(id string, p domain.Playlist, loopFactor int) (player.Backend, error) {
			return player.NewJukebox(id, p.URIs(loopFactor), device), nil
		},
	})
	return nil
}
