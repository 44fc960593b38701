package ui

import (
	"fmt"
	"strings"

	"github.com/yhkl-dev/localradio/radio"
)

// HelpLines describes the key bindings, one command per line. The reload
// sequence is not listed.
func HelpLines(b radio.Bindings) []string {
	var lines []string
	add := func(label string, keys []string) {
		if len(keys) == 0 {
			return
		}
		lines = append(lines, fmt.Sprintf("%-10s %s", label, strings.Join(keys, " ")))
	}
	add("on/off", b.Toggle)
	add("previous", b.Previous)
	add("next", b.Next)
	add("status", b.Status)
	add("quit", append(append([]string{}, b.Quit...), "esc", "ctrl-c"))
	return lines
}
