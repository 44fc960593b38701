package player

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/zmb3/spotify/v2"
)

// RepeatStateContext repeats the whole playback context (the playlist).
const RepeatStateContext = "context"

// SpotifyAPI is the part of *spotify.Client the backend needs.
type SpotifyAPI interface {
	PlayOpt(ctx context.Context, opt *spotify.PlayOptions) error
	PauseOpt(ctx context.Context, opt *spotify.PlayOptions) error
	RepeatOpt(ctx context.Context, state string, opt *spotify.PlayOptions) error
	PlayerCurrentlyPlaying(ctx context.Context, opts ...spotify.RequestOption) (*spotify.CurrentlyPlaying, error)
}

// Spotify implements Backend for one playlist on a fixed Spotify Connect
// device.
type Spotify struct {
	client   SpotifyAPI
	deviceID spotify.ID
	context  spotify.URI
	policy   RetryPolicy
	logger   zerolog.Logger
}

// NewSpotify binds the playlist contextURI to the device deviceID.
func NewSpotify(client SpotifyAPI, deviceID, contextURI string, policy RetryPolicy, logger zerolog.Logger) *Spotify {
	return &Spotify{
		client:   client,
		deviceID: spotify.ID(deviceID),
		context:  spotify.URI(contextURI),
		policy:   policy,
		logger:   logger.With().Str("context", contextURI).Logger(),
	}
}

// Play starts the playlist context at trackIndex and offset, then asks for
// the context to repeat.
func (p *Spotify) Play(ctx context.Context, trackIndex int, offset time.Duration) error {
	err := p.call(ctx, "start playback", func(ctx context.Context) error {
		return p.client.PlayOpt(ctx, &spotify.PlayOptions{
			DeviceID:        &p.deviceID,
			PlaybackContext: &p.context,
			PlaybackOffset:  &spotify.PlaybackOffset{Position: trackIndex},
			PositionMs:      int(offset / time.Millisecond),
		})
	})
	if err != nil {
		return err
	}

	return p.call(ctx, "set repeat", func(ctx context.Context) error {
		return p.client.RepeatOpt(ctx, RepeatStateContext, &spotify.PlayOptions{DeviceID: &p.deviceID})
	})
}

// Stop pauses the device.
func (p *Spotify) Stop(ctx context.Context) error {
	return p.call(ctx, "pause playback", func(ctx context.Context) error {
		return p.client.PauseOpt(ctx, &spotify.PlayOptions{DeviceID: &p.deviceID})
	})
}

// IsPlaying asks the account what it is playing. An empty answer means
// nothing plays.
func (p *Spotify) IsPlaying(ctx context.Context) (bool, error) {
	var playing bool
	err := Retry(ctx, p.policy, p.logger, "currently playing", func(ctx context.Context) error {
		current, err := p.client.PlayerCurrentlyPlaying(ctx)
		if err != nil {
			return classifySpotify("currently playing", err)
		}
		playing = current != nil && current.Playing
		return nil
	})
	return playing, err
}

// call retries fn and treats a conflict as success.
func (p *Spotify) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := Retry(ctx, p.policy, p.logger, op, func(ctx context.Context) error {
		return classifySpotify(op, fn(ctx))
	})
	if errors.Is(err, ErrConflict) {
		p.logger.Debug().Str("op", op).Msg("Player already in requested state")
		return nil
	}
	return err
}

// classifySpotify maps Web API failures onto the backend error taxonomy. The
// API answers 403 "Restriction violated" when a command matches the current
// player state, for example pausing a paused device. Other 403s, such as a
// missing Premium subscription, are real failures.
func classifySpotify(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusConflict, isRestrictionViolated(apiErr):
			return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
		case apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= http.StatusInternalServerError:
			return &TransientError{Op: op, Err: err}
		default:
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return classifyNetwork(op, err)
}

func isRestrictionViolated(err spotify.Error) bool {
	return err.Status == http.StatusForbidden &&
		strings.Contains(strings.ToLower(err.Message), "restriction violated")
}
