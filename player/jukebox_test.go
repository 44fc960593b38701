package player

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yhkl-dev/localradio/subsonic"
)

type fakeJukebox struct {
	calls   []string
	set     []string
	index   int
	offset  time.Duration
	playing bool
	skipErr []error
}

func (f *fakeJukebox) JukeboxSet(ctx context.Context, songIDs []string) error {
	f.calls = append(f.calls, "set")
	f.set = songIDs
	return nil
}

func (f *fakeJukebox) JukeboxSkip(ctx context.Context, index int, offset time.Duration) error {
	f.calls = append(f.calls, "skip")
	if err := popErr(&f.skipErr); err != nil {
		return err
	}
	f.index, f.offset = index, offset
	return nil
}

func (f *fakeJukebox) JukeboxStart(ctx context.Context) error {
	f.calls = append(f.calls, "start")
	f.playing = true
	return nil
}

func (f *fakeJukebox) JukeboxStop(ctx context.Context) error {
	f.calls = append(f.calls, "stop")
	f.playing = false
	return nil
}

func (f *fakeJukebox) JukeboxStatus(ctx context.Context) (subsonic.JukeboxStatus, error) {
	f.calls = append(f.calls, "status")
	return subsonic.JukeboxStatus{Playing: f.playing}, nil
}

func TestJukeboxPlaySetsPlaylistOnce(t *testing.T) {
	api := &fakeJukebox{}
	device := NewJukeboxDevice(api, fastPolicy, zerolog.Nop())
	station := NewJukebox("subsonic/radio x", []string{"s1", "s2", "s1", "s2"}, device)
	ctx := context.Background()

	require.NoError(t, station.Play(ctx, 1, 42*time.Second))
	require.NoError(t, station.Stop(ctx))
	require.NoError(t, station.Play(ctx, 0, time.Second))

	assert.Equal(t, []string{"set", "skip", "start", "stop", "skip", "start"}, api.calls)
	assert.Equal(t, []string{"s1", "s2", "s1", "s2"}, api.set)
	assert.Equal(t, 0, api.index)
	assert.Equal(t, time.Second, api.offset)

	playing, err := station.IsPlaying(ctx)
	require.NoError(t, err)
	assert.True(t, playing)
}

func TestJukeboxSiblingStations(t *testing.T) {
	api := &fakeJukebox{}
	device := NewJukeboxDevice(api, fastPolicy, zerolog.Nop())
	a := NewJukebox("subsonic/a", []string{"a1"}, device)
	b := NewJukebox("subsonic/b", []string{"b1"}, device)
	ctx := context.Background()

	require.NoError(t, a.Play(ctx, 0, 0))
	require.NoError(t, b.Play(ctx, 0, 0))
	require.NoError(t, a.Stop(ctx))

	assert.True(t, api.playing, "stopping a displaced station leaves the sibling playing")
	playing, err := a.IsPlaying(ctx)
	require.NoError(t, err)
	assert.False(t, playing)
}

func TestJukeboxRetriesTransientFailures(t *testing.T) {
	api := &fakeJukebox{skipErr: []error{&subsonic.StatusError{StatusCode: http.StatusBadGateway}}}
	device := NewJukeboxDevice(api, fastPolicy, zerolog.Nop())

	require.NoError(t, NewJukebox("subsonic/a", []string{"a1"}, device).Play(context.Background(), 0, 0))
	assert.Equal(t, []string{"set", "skip", "skip", "start"}, api.calls)
}
