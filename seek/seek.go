// Package seek maps wall-clock time onto a position inside a looping playlist.
package seek

import (
	"errors"
	"sort"
	"time"
)

// ErrInvalidStation is returned for duration lists that cannot form a station:
// empty, containing negative durations, or summing to zero.
var ErrInvalidStation = errors.New("invalid station: total duration must be positive")

// Index is the cumulative duration index of one station's playlist.
type Index struct {
	durations  []int64
	cumulative []int64
}

// NewIndex builds the cumulative index for durations given in milliseconds.
func NewIndex(durationsMs []int64) (*Index, error) {
	cumulative := make([]int64, len(durationsMs))
	var total int64
	for i, d := range durationsMs {
		if d < 0 {
			return nil, ErrInvalidStation
		}
		total += d
		cumulative[i] = total
	}
	if total <= 0 {
		return nil, ErrInvalidStation
	}

	durations := make([]int64, len(durationsMs))
	copy(durations, durationsMs)

	return &Index{
		durations:  durations,
		cumulative: cumulative,
	}, nil
}

// Total returns the station duration in milliseconds.
func (ix *Index) Total() int64 {
	return ix.cumulative[len(ix.cumulative)-1]
}

// Len returns the number of tracks.
func (ix *Index) Len() int {
	return len(ix.durations)
}

// Duration returns the duration of track i in milliseconds.
func (ix *Index) Duration(i int) int64 {
	return ix.durations[i]
}

// Locate returns the track and the offset inside it for nowMs. A position
// exactly on a track boundary belongs to the track that starts there.
func (ix *Index) Locate(nowMs int64) (track int, offsetMs int64) {
	total := ix.Total()
	position := nowMs % total
	if position < 0 {
		position += total
	}

	track = sort.Search(len(ix.cumulative), func(i int) bool {
		return ix.cumulative[i] > position
	})

	offsetMs = position
	if track > 0 {
		offsetMs -= ix.cumulative[track-1]
	}
	return track, offsetMs
}

// Seek is the one-shot form of NewIndex followed by Locate.
func Seek(durationsMs []int64, nowMs int64) (track int, offsetMs int64, err error) {
	ix, err := NewIndex(durationsMs)
	if err != nil {
		return 0, 0, err
	}
	track, offsetMs = ix.Locate(nowMs)
	return track, offsetMs, nil
}

// Position is a seek result.
type Position struct {
	Track  int
	Offset time.Duration
}

// At returns the position for t, treating the playlist as if it had been
// looping since the Unix epoch.
func (ix *Index) At(t time.Time) Position {
	track, offsetMs := ix.Locate(t.UnixMilli())
	return Position{
		Track:  track,
		Offset: time.Duration(offsetMs) * time.Millisecond,
	}
}
