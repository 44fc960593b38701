package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yhkl-dev/localradio/domain"
)

// Library is a source of station playlists.
type Library interface {
	// Name identifies the source in logs and station ids
	Name() string
	// Playlists returns every station playlist the source offers. A failing
	// playlist fails the whole call.
	Playlists(ctx context.Context) ([]domain.Playlist, error)
}

// ErrEmptyPlaylist is returned for a station without playable items.
var ErrEmptyPlaylist = errors.New("playlist has no items")

// PlaylistError reports which playlist, and optionally which item, failed.
type PlaylistError struct {
	Playlist string
	Item     string
	Err      error
}

func (e *PlaylistError) Error() string {
	if e.Item != "" {
		return fmt.Sprintf("playlist %q item %q: %v", e.Playlist, e.Item, e.Err)
	}
	return fmt.Sprintf("playlist %q: %v", e.Playlist, e.Err)
}

func (e *PlaylistError) Unwrap() error {
	return e.Err
}

func matchesPrefix(name, prefix string) bool {
	return strings.HasPrefix(name, prefix)
}
