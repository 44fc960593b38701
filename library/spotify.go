package library

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/zmb3/spotify/v2"

	"github.com/yhkl-dev/localradio/domain"
)

const spotifyPageSize = 50

// SpotifyAPI is the part of *spotify.Client the library needs.
type SpotifyAPI interface {
	CurrentUsersPlaylists(ctx context.Context, opts ...spotify.RequestOption) (*spotify.SimplePlaylistPage, error)
	GetPlaylistItems(ctx context.Context, playlistID spotify.ID, opts ...spotify.RequestOption) (*spotify.PlaylistItemPage, error)
}

// Spotify offers the authenticated user's playlists whose name starts with
// prefix. Items keep the order the playlist owner gave them.
type Spotify struct {
	client SpotifyAPI
	prefix string
	logger zerolog.Logger
}

func NewSpotify(client SpotifyAPI, prefix string, logger zerolog.Logger) *Spotify {
	return &Spotify{client: client, prefix: prefix, logger: logger}
}

func (s *Spotify) Name() string {
	return "spotify"
}

func (s *Spotify) Playlists(ctx context.Context) ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	for offset := 0; ; offset += spotifyPageSize {
		page, err := s.client.CurrentUsersPlaylists(ctx, spotify.Limit(spotifyPageSize), spotify.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("list playlists: %w", err)
		}

		for _, p := range page.Playlists {
			if !matchesPrefix(p.Name, s.prefix) {
				continue
			}
			tracks, err := s.tracks(ctx, p.Name, p.ID)
			if err != nil {
				return nil, err
			}
			playlists = append(playlists, domain.Playlist{
				ID:     string(p.ID),
				Name:   p.Name,
				URI:    string(p.URI),
				Tracks: tracks,
			})
		}

		if len(page.Playlists) < spotifyPageSize {
			break
		}
	}

	s.logger.Debug().Int("playlists", len(playlists)).Str("prefix", s.prefix).Msg("Listed Spotify stations")
	return playlists, nil
}

// tracks fetches every item of the playlist. Items that are not tracks
// (podcast episodes, removed tracks) fail the playlist, since skipping them
// would shift the context positions playback relies on.
func (s *Spotify) tracks(ctx context.Context, name string, id spotify.ID) ([]domain.Track, error) {
	var tracks []domain.Track
	for offset := 0; ; offset += spotifyPageSize {
		page, err := s.client.GetPlaylistItems(ctx, id, spotify.Limit(spotifyPageSize), spotify.Offset(offset))
		if err != nil {
			return nil, &PlaylistError{Playlist: name, Err: err}
		}

		for i, item := range page.Items {
			track := item.Track.Track
			if track == nil {
				return nil, &PlaylistError{
					Playlist: name,
					Item:     fmt.Sprintf("#%d", offset+i),
					Err:      fmt.Errorf("item is not a track"),
				}
			}
			tracks = append(tracks, domain.Track{
				ID:         string(track.ID),
				Title:      track.Name,
				URI:        string(track.URI),
				DurationMs: int64(track.Duration),
			})
		}

		if len(page.Items) < spotifyPageSize {
			break
		}
	}

	if len(tracks) == 0 {
		return nil, &PlaylistError{Playlist: name, Err: ErrEmptyPlaylist}
	}
	return tracks, nil
}
