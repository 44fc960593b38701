package library

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	mu        sync.Mutex
	durations map[string]time.Duration
	failing   map[string]error
	probed    []string
}

func (f *fakeProber) Duration(path string) (time.Duration, error) {
	f.mu.Lock()
	f.probed = append(f.probed, path)
	f.mu.Unlock()

	if err, ok := f.failing[path]; ok {
		return 0, err
	}
	return f.durations[path], nil
}

func (f *fakeProber) Title(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func writeFiles(t *testing.T, fs afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, afero.WriteFile(fs, p, []byte("x"), 0o644))
	}
}

func TestDirectoryPlaylists(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs,
		"/stations/rock/b.mp3",
		"/stations/rock/a.mp3",
		"/stations/rock/cover.jpg",
		"/stations/jazz/live/01.flac",
		"/stations/jazz/00.ogg",
		"/stations/README.txt",
	)
	prober := &fakeProber{durations: map[string]time.Duration{
		"/stations/rock/a.mp3":        3 * time.Minute,
		"/stations/rock/b.mp3":        90 * time.Second,
		"/stations/jazz/00.ogg":       time.Minute,
		"/stations/jazz/live/01.flac": 2500 * time.Millisecond,
	}}

	playlists, err := NewDirectory(fs, "/stations", prober, zerolog.Nop()).Playlists(context.Background())
	require.NoError(t, err)
	require.Len(t, playlists, 2)

	jazz, rock := playlists[0], playlists[1]
	assert.Equal(t, "jazz", jazz.Name)
	assert.Equal(t, "rock", rock.Name)

	assert.Equal(t, []int64{180000, 90000}, rock.Durations())
	assert.Equal(t, "a", rock.Tracks[0].Title)
	assert.Equal(t, "a.mp3", rock.Tracks[0].ID)
	assert.Equal(t, "/stations/rock/a.mp3", rock.Tracks[0].URI)

	assert.Equal(t, []int64{60000, 2500}, jazz.Durations())
	assert.Equal(t, filepath.Join("live", "01.flac"), jazz.Tracks[1].ID)

	assert.NotContains(t, prober.probed, "/stations/rock/cover.jpg")
}

func TestDirectoryEmptyStation(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/stations/talk/notes.txt", "/stations/pop/a.wav")
	prober := &fakeProber{durations: map[string]time.Duration{"/stations/pop/a.wav": time.Second}}

	_, err := NewDirectory(fs, "/stations", prober, zerolog.Nop()).Playlists(context.Background())
	require.Error(t, err)

	var perr *PlaylistError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "talk", perr.Playlist)
	assert.ErrorIs(t, err, ErrEmptyPlaylist)
}

func TestDirectoryReportsEveryFailingStation(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/stations/a/1.mp3", "/stations/b/1.mp3", "/stations/c/1.mp3")
	broken := errors.New("corrupt header")
	prober := &fakeProber{
		durations: map[string]time.Duration{"/stations/b/1.mp3": time.Second},
		failing: map[string]error{
			"/stations/a/1.mp3": broken,
			"/stations/c/1.mp3": broken,
		},
	}

	_, err := NewDirectory(fs, "/stations", prober, zerolog.Nop()).Playlists(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, broken)
	assert.Contains(t, err.Error(), `playlist "a" item "/stations/a/1.mp3"`)
	assert.Contains(t, err.Error(), `playlist "c" item "/stations/c/1.mp3"`)
}

func TestDirectoryMissingRoot(t *testing.T) {
	_, err := NewDirectory(afero.NewMemMapFs(), "/nowhere", &fakeProber{}, zerolog.Nop()).Playlists(context.Background())
	assert.Error(t, err)
}

func TestDirectoryCanceled(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/stations/a/1.mp3")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDirectory(fs, "/stations", &fakeProber{}, zerolog.Nop()).Playlists(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
