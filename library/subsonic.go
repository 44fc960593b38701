package library

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yhkl-dev/localradio/domain"
	"github.com/yhkl-dev/localradio/subsonic"
)

// SubsonicAPI is the part of *subsonic.Client the library needs.
type SubsonicAPI interface {
	GetPlaylists(ctx context.Context) ([]subsonic.Playlist, error)
	GetPlaylist(ctx context.Context, id string) (*subsonic.Playlist, error)
}

// Subsonic offers server playlists whose name starts with prefix.
type Subsonic struct {
	client SubsonicAPI
	prefix string
	logger zerolog.Logger
}

func NewSubsonic(client SubsonicAPI, prefix string, logger zerolog.Logger) *Subsonic {
	return &Subsonic{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (s *Subsonic) Name() string {
	return "subsonic"
}

func (s *Subsonic) Playlists(ctx context.Context) ([]domain.Playlist, error) {
	summaries, err := s.client.GetPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}

	var playlists []domain.Playlist
	for _, summary := range summaries {
		if !matchesPrefix(summary.Name, s.prefix) {
			continue
		}
		full, err := s.client.GetPlaylist(ctx, summary.ID)
		if err != nil {
			return nil, &PlaylistError{Playlist: summary.Name, Err: err}
		}
		if len(full.Entries) == 0 {
			return nil, &PlaylistError{Playlist: summary.Name, Err: ErrEmptyPlaylist}
		}
		playlists = append(playlists, convertToDomainPlaylist(summary.Name, full))
	}

	s.logger.Debug().Int("playlists", len(playlists)).Str("prefix", s.prefix).Msg("Listed Subsonic stations")
	return playlists, nil
}

func convertToDomainPlaylist(name string, p *subsonic.Playlist) domain.Playlist {
	tracks := make([]domain.Track, len(p.Entries))
	for i, song := range p.Entries {
		tracks[i] = convertToDomainTrack(song)
	}
	return domain.Playlist{
		ID:     p.ID,
		Name:   name,
		URI:    p.ID,
		Tracks: tracks,
	}
}

func convertToDomainTrack(song subsonic.Song) domain.Track {
	return domain.Track{
		ID:         song.ID,
		Title:      song.Title,
		URI:        song.ID,
		DurationMs: int64(song.Duration) * 1000,
	}
}
