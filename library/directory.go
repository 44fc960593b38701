package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/yhkl-dev/localradio/domain"
	"github.com/yhkl-dev/localradio/media"
)

// Prober reads durations and titles of local files, see media.Prober.
type Prober interface {
	Duration(path string) (time.Duration, error)
	Title(path string) string
}

// Directory offers one station per sub-directory of root. Files are played in
// lexicographic path order, walking nested folders. Mixing nested folders and
// files under one parent gives an unspecified relative order.
type Directory struct {
	fs      afero.Fs
	root    string
	prober  Prober
	workers int
	logger  zerolog.Logger
}

func NewDirectory(fs afero.Fs, root string, prober Prober, logger zerolog.Logger) *Directory {
	return &Directory{
		fs:      fs,
		root:    root,
		prober:  prober,
		workers: runtime.NumCPU(),
		logger:  logger,
	}
}

func (d *Directory) Name() string {
	return "local"
}

func (d *Directory) Playlists(ctx context.Context) ([]domain.Playlist, error) {
	entries, err := afero.ReadDir(d.fs, d.root)
	if err != nil {
		return nil, fmt.Errorf("read stations directory %s: %w", d.root, err)
	}

	var (
		playlists []domain.Playlist
		errs      error
	)
	for _, entry := range entries {
		if !entry.IsDir() {
			d.logger.Debug().Str("path", entry.Name()).Msg("Skipping file at stations root")
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		playlist, err := d.station(filepath.Join(d.root, entry.Name()))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		playlists = append(playlists, playlist)
	}
	if errs != nil {
		return nil, errs
	}
	return playlists, nil
}

func (d *Directory) station(dir string) (domain.Playlist, error) {
	name := filepath.Base(dir)

	var paths []string
	err := afero.Walk(d.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !media.Supported(path) {
			d.logger.Debug().Str("station", name).Str("path", path).Msg("Skipping non-audio file")
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return domain.Playlist{}, &PlaylistError{Playlist: name, Err: err}
	}
	if len(paths) == 0 {
		return domain.Playlist{}, &PlaylistError{Playlist: name, Err: ErrEmptyPlaylist}
	}
	sort.Strings(paths)

	mapper := iter.Mapper[string, domain.Track]{MaxGoroutines: d.workers}
	tracks, err := mapper.MapErr(paths, func(path *string) (domain.Track, error) {
		duration, err := d.prober.Duration(*path)
		if err != nil {
			return domain.Track{}, &PlaylistError{Playlist: name, Item: *path, Err: err}
		}
		rel, err := filepath.Rel(dir, *path)
		if err != nil {
			rel = *path
		}
		return domain.Track{
			ID:         rel,
			Title:      d.prober.Title(*path),
			URI:        *path,
			DurationMs: duration.Milliseconds(),
		}, nil
	})
	if err != nil {
		return domain.Playlist{}, err
	}

	d.logger.Debug().Str("station", name).Int("tracks", len(tracks)).Msg("Scanned station directory")
	return domain.Playlist{
		ID:     name,
		Name:   name,
		URI:    dir,
		Tracks: tracks,
	}, nil
}
