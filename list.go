package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/yhkl-dev/localradio/catalog"
)

func formatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// printCatalog writes one row per station with what it is playing at now.
func printCatalog(out io.Writer, cat *catalog.Catalog, now time.Time) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSOURCE\tSTATION\tTRACKS\tLENGTH\tNOW\tAT")
	for i, station := range cat.Stations() {
		pos := station.Position(now)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			i+1,
			station.Source(),
			station.Name(),
			len(station.Durations()),
			formatDuration(station.Total()),
			station.Track(pos).Title,
			formatDuration(pos.Offset),
		)
	}
	return tw.Flush()
}
