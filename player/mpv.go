package player

import (
	"context"
	"fmt"
	"time"
)

// Session is the playback resource shared by all local stations,
// implemented by *mpvplayer.Session.
type Session interface {
	Owner() string
	Load(owner string, uris []string) error
	PlayIndex(ctx context.Context, index int, offset time.Duration) error
	Stop() error
	IsPlaying() (bool, error)
}

// Local implements Backend for one local station on the shared mpv session.
// Playing any local station takes the session away from its siblings.
type Local struct {
	id      string
	uris    []string
	session Session
}

// NewLocal binds the station identified by id to session. uris is the
// physical playlist, already repeated by the loop factor.
func NewLocal(id string, uris []string, session Session) *Local {
	return &Local{
		id:      id,
		uris:    uris,
		session: session,
	}
}

// Play loads the station playlist when the session holds another one, then
// starts trackIndex at offset.
func (p *Local) Play(ctx context.Context, trackIndex int, offset time.Duration) error {
	if p.session == nil {
		return fmt.Errorf("MPV session not initialized")
	}
	if trackIndex < 0 || trackIndex >= len(p.uris) {
		return fmt.Errorf("track index %d out of range for %s", trackIndex, p.id)
	}

	if p.session.Owner() != p.id {
		if err := p.session.Load(p.id, p.uris); err != nil {
			return fmt.Errorf("load %s: %w", p.id, err)
		}
	}
	return p.session.PlayIndex(ctx, trackIndex, offset)
}

// Stop stops the session only when it still plays this station.
func (p *Local) Stop(ctx context.Context) error {
	if p.session == nil {
		return fmt.Errorf("MPV session not initialized")
	}
	if p.session.Owner() != p.id {
		return nil
	}
	return p.session.Stop()
}

// IsPlaying is false whenever the session plays a sibling station.
func (p *Local) IsPlaying(ctx context.Context) (bool, error) {
	if p.session == nil {
		return false, fmt.Errorf("MPV session not initialized")
	}
	if p.session.Owner() != p.id {
		return false, nil
	}
	return p.session.IsPlaying()
}
