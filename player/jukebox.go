package player

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yhkl-dev/localradio/subsonic"
)

// JukeboxAPI is the part of *subsonic.Client the jukebox backend needs.
type JukeboxAPI interface {
	JukeboxSet(ctx context.Context, songIDs []string) error
	JukeboxSkip(ctx context.Context, index int, offset time.Duration) error
	JukeboxStart(ctx context.Context) error
	JukeboxStop(ctx context.Context) error
	JukeboxStatus(ctx context.Context) (subsonic.JukeboxStatus, error)
}

// JukeboxDevice is the single server-side player all Subsonic stations
// share. It remembers which station's playlist the server holds.
type JukeboxDevice struct {
	api    JukeboxAPI
	owner  string
	policy RetryPolicy
	logger zerolog.Logger
}

func NewJukeboxDevice(api JukeboxAPI, policy RetryPolicy, logger zerolog.Logger) *JukeboxDevice {
	return &JukeboxDevice{api: api, policy: policy, logger: logger}
}

func (d *JukeboxDevice) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return Retry(ctx, d.policy, d.logger, op, func(ctx context.Context) error {
		return classifyNetwork(op, fn(ctx))
	})
}

// Jukebox implements Backend for one Subsonic playlist.
type Jukebox struct {
	id      string
	songIDs []string
	device  *JukeboxDevice
}

// NewJukebox binds a station to device. songIDs is the physical playlist,
// already repeated by the loop factor.
func NewJukebox(id string, songIDs []string, device *JukeboxDevice) *Jukebox {
	return &Jukebox{id: id, songIDs: songIDs, device: device}
}

func (p *Jukebox) Play(ctx context.Context, trackIndex int, offset time.Duration) error {
	d := p.device
	if d.owner != p.id {
		d.owner = ""
		err := d.call(ctx, "jukebox set", func(ctx context.Context) error {
			return d.api.JukeboxSet(ctx, p.songIDs)
		})
		if err != nil {
			return err
		}
		d.owner = p.id
	}

	err := d.call(ctx, "jukebox skip", func(ctx context.Context) error {
		return d.api.JukeboxSkip(ctx, trackIndex, offset)
	})
	if err != nil {
		return err
	}
	return d.call(ctx, "jukebox start", d.api.JukeboxStart)
}

func (p *Jukebox) Stop(ctx context.Context) error {
	if p.device.owner != p.id {
		return nil
	}
	return p.device.call(ctx, "jukebox stop", p.device.api.JukeboxStop)
}

func (p *Jukebox) IsPlaying(ctx context.Context) (bool, error) {
	if p.device.owner != p.id {
		return false, nil
	}
	var status subsonic.JukeboxStatus
	err := p.device.call(ctx, "jukebox status", func(ctx context.Context) error {
		var err error
		status, err = p.device.api.JukeboxStatus(ctx)
		return err
	})
	return status.Playing, err
}
