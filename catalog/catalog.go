// Package catalog builds the ordered list of stations from the configured
// libraries and binds every station to its playback backend.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/yhkl-dev/localradio/domain"
	"github.com/yhkl-dev/localradio/library"
	"github.com/yhkl-dev/localradio/player"
)

// DefaultLoopFactor is how many times a playlist is repeated when loaded
// into a player that does not loop by itself.
const DefaultLoopFactor = 3

// ErrNoStations is returned when every source came back empty.
var ErrNoStations = errors.New("no stations found")

// Error reports a station, or a single item of it, that prevented the build.
type Error struct {
	Source  string
	Station string
	Item    string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Station == "":
		return fmt.Sprintf("catalog: source %s: %v", e.Source, e.Err)
	case e.Item == "":
		return fmt.Sprintf("catalog: source %s station %q: %v", e.Source, e.Station, e.Err)
	default:
		return fmt.Sprintf("catalog: source %s station %q item %q: %v", e.Source, e.Station, e.Item, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Catalog is an immutable, ordered list of stations.
type Catalog struct {
	stations []*Station
}

func New(stations []*Station) *Catalog {
	return &Catalog{stations: stations}
}

func (c *Catalog) Len() int {
	return len(c.stations)
}

func (c *Catalog) At(i int) *Station {
	return c.stations[i]
}

func (c *Catalog) Stations() []*Station {
	out := make([]*Station, len(c.stations))
	copy(out, c.stations)
	return out
}

func (c *Catalog) Names() []string {
	names := make([]string, len(c.stations))
	for i, s := range c.stations {
		names[i] = s.Name()
	}
	return names
}

// BindFunc creates the backend for one station. id is unique per station and
// build, loopFactor is how often the playlist should be repeated.
type BindFunc func(id string, playlist domain.Playlist, loopFactor int) (player.Backend, error)

// Source pairs a library with the backend its stations play on.
type Source struct {
	Library library.Library
	Bind    BindFunc
}

// Builder assembles catalogs. Build is not safe for concurrent use.
type Builder struct {
	Sources    []Source
	LoopFactor int
	Logger     zerolog.Logger

	generation int
}

// Build lists every source and returns either a complete catalog or an error
// naming every station that failed. Stations are sorted by name within their
// source; sources keep their configured order.
func (b *Builder) Build(ctx context.Context) (*Catalog, error) {
	loopFactor := b.LoopFactor
	if loopFactor < 1 {
		loopFactor = DefaultLoopFactor
	}
	b.generation++

	var (
		stations []*Station
		errs     error
	)
	for _, src := range b.Sources {
		name := src.Library.Name()
		playlists, err := src.Library.Playlists(ctx)
		if err != nil {
			errs = multierr.Append(errs, sourceErrors(name, err))
			continue
		}

		sort.SliceStable(playlists, func(i, j int) bool {
			return playlists[i].Name < playlists[j].Name
		})
		for _, p := range playlists {
			station, err := b.bind(src, name, p, loopFactor)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			stations = append(stations, station)
		}
		b.Logger.Info().Str("source", name).Int("stations", len(playlists)).Msg("Loaded stations")
	}

	if errs != nil {
		return nil, errs
	}
	if len(stations) == 0 {
		return nil, ErrNoStations
	}
	return New(stations), nil
}

func (b *Builder) bind(src Source, source string, p domain.Playlist, loopFactor int) (*Station, error) {
	id := fmt.Sprintf("%s/%s#%d", source, p.Name, b.generation)
	backend, err := src.Bind(id, p, loopFactor)
	if err != nil {
		return nil, &Error{Source: source, Station: p.Name, Err: err}
	}
	return NewStation(source, p, backend)
}

// sourceErrors turns whatever a library returned into catalog errors, one
// per failing playlist.
func sourceErrors(source string, err error) error {
	var errs error
	for _, e := range flatten(err) {
		var perr *library.PlaylistError
		if errors.As(e, &perr) {
			errs = multierr.Append(errs, &Error{Source: source, Station: perr.Playlist, Item: perr.Item, Err: perr.Err})
			continue
		}
		errs = multierr.Append(errs, &Error{Source: source, Err: e})
	}
	return errs
}

func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
