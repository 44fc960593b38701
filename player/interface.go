package player

import (
	"context"
	"time"
)

// Backend plays one station's playlist on a real player.
// This abstraction lets a station live on mpv, a Spotify Connect device or a
// Subsonic jukebox without the radio knowing which.
type Backend interface {
	// Play starts the playlist at trackIndex, offset into that track. It
	// replaces whatever the underlying player had loaded before.
	Play(ctx context.Context, trackIndex int, offset time.Duration) error

	// Stop halts playback
	Stop(ctx context.Context) error

	// IsPlaying reports whether the underlying player is currently playing
	IsPlaying(ctx context.Context) (bool, error)
}

