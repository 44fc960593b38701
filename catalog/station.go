package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/yhkl-dev/localradio/domain"
	"github.com/yhkl-dev/localradio/player"
	"github.com/yhkl-dev/localradio/seek"
)

// Station is one looping playlist bound to the backend that plays it. It has
// no play state of its own; the radio tracks whether it is on air.
type Station struct {
	source   string
	playlist domain.Playlist
	index    *seek.Index
	backend  player.Backend
}

// NewStation validates the playlist durations and binds it to backend.
func NewStation(source string, playlist domain.Playlist, backend player.Backend) (*Station, error) {
	index, err := seek.NewIndex(playlist.Durations())
	if err != nil {
		return nil, &Error{Source: source, Station: playlist.Name, Err: err}
	}
	if backend == nil {
		return nil, &Error{Source: source, Station: playlist.Name, Err: fmt.Errorf("no playback backend")}
	}
	return &Station{
		source:   source,
		playlist: playlist,
		index:    index,
		backend:  backend,
	}, nil
}

func (s *Station) Name() string {
	return s.playlist.Name
}

func (s *Station) Source() string {
	return s.source
}

// Durations returns the per-track durations in milliseconds, once per track.
func (s *Station) Durations() []int64 {
	return s.playlist.Durations()
}

// Total is the length of one pass through the playlist.
func (s *Station) Total() time.Duration {
	return time.Duration(s.index.Total()) * time.Millisecond
}

// Position returns where the broadcast is at now.
func (s *Station) Position(now time.Time) seek.Position {
	return s.index.At(now)
}

// Track returns the track a position points to.
func (s *Station) Track(pos seek.Position) domain.Track {
	return s.playlist.Tracks[pos.Track]
}

// Play tunes in: it seeks to where the broadcast is at now and starts the
// backend there.
func (s *Station) Play(ctx context.Context, now time.Time) (seek.Position, error) {
	pos := s.index.At(now)
	if err := s.backend.Play(ctx, pos.Track, pos.Offset); err != nil {
		return pos, fmt.Errorf("play %s: %w", s.Name(), err)
	}
	return pos, nil
}

func (s *Station) Stop(ctx context.Context) error {
	if err := s.backend.Stop(ctx); err != nil {
		return fmt.Errorf("stop %s: %w", s.Name(), err)
	}
	return nil
}

func (s *Station) IsPlaying(ctx context.Context) (bool, error) {
	return s.backend.IsPlaying(ctx)
}
