package radio

import (
	"context"
	"fmt"

	"github.com/yhkl-dev/localradio/seek"
)

// Status describes what the radio is doing right now.
type Status struct {
	Station string
	Source  string
	Index   int
	Count   int
	// Playing is the radio's own flag, BackendPlaying what the player reports
	Playing        bool
	BackendPlaying bool
	Position       seek.Position
	Title          string
}

func (s Status) String() string {
	state := "off"
	if s.Playing {
		state = "on"
	}
	if s.Playing != s.BackendPlaying {
		state += " (player disagrees)"
	}
	return fmt.Sprintf("[%d/%d] %s %s | %s @ %s",
		s.Index+1, s.Count, s.Station, state, s.Title, formatOffset(s.Position))
}

func formatOffset(p seek.Position) string {
	total := int(p.Offset.Seconds())
	return fmt.Sprintf("#%d %02d:%02d", p.Track+1, total/60, total%60)
}

// Status reports the current station, where its broadcast is and whether
// the backend agrees the radio is on.
func (c *Controller) Status(ctx context.Context) (Status, error) {
	station := c.current()
	pos := station.Position(c.now())
	status := Status{
		Station:  station.Name(),
		Source:   station.Source(),
		Index:    c.state.Index,
		Count:    c.catalog.Len(),
		Playing:  c.state.Playing,
		Position: pos,
		Title:    station.Track(pos).Title,
	}

	playing, err := station.IsPlaying(ctx)
	if err != nil {
		status.BackendPlaying = status.Playing
		return status, fmt.Errorf("query player: %w", err)
	}
	status.BackendPlaying = playing
	return status, nil
}
