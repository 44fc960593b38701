package domain

import "time"

// Track represents one playable item of a station
type Track struct {
	ID         string
	Title      string
	URI        string // file path, Spotify URI or Subsonic song id
	DurationMs int64
}

// Duration returns the track length as a time.Duration
func (t Track) Duration() time.Duration {
	return time.Duration(t.DurationMs) * time.Millisecond
}

// Playlist is an ordered list of tracks as delivered by a library
type Playlist struct {
	ID     string
	Name   string
	URI    string // playback context for remote backends
	Tracks []Track
}

// Durations returns the per-track durations in milliseconds, in playlist order
func (p Playlist) Durations() []int64 {
	durations := make([]int64, len(p.Tracks))
	for i, track := range p.Tracks {
		durations[i] = track.DurationMs
	}
	return durations
}

// URIs returns the track URIs repeated loopFactor times
func (p Playlist) URIs(loopFactor int) []string {
	if loopFactor < 1 {
		loopFactor = 1
	}
	uris := make([]string, 0, len(p.Tracks)*loopFactor)
	for n := 0; n < loopFactor; n++ {
		for _, track := range p.Tracks {
			uris = append(uris, track.URI)
		}
	}
	return uris
}

// Key is a single normalized input token such as "a", "left" or "space"
type Key string

// Command is what a key means to the radio
type Command int

const (
	CommandNone Command = iota
	CommandToggle
	CommandNext
	CommandPrevious
	CommandStatus
	CommandQuit
)

func (c Command) String() string {
	switch c {
	case CommandToggle:
		return "toggle"
	case CommandNext:
		return "next"
	case CommandPrevious:
		return "previous"
	case CommandStatus:
		return "status"
	case CommandQuit:
		return "quit"
	default:
		return "none"
	}
}
