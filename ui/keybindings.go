package ui

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/yhkl-dev/localradio/domain"
)

// KeyQuit is produced by Ctrl-C and Esc. main binds it to the quit command.
const KeyQuit domain.Key = "quit"

// KeySpace is the name of the space bar
const KeySpace domain.Key = "space"

// special key -> key name mapping
var specialKeys = map[tcell.Key]domain.Key{
	tcell.KeyLeft:   "left",
	tcell.KeyRight:  "right",
	tcell.KeyUp:     "up",
	tcell.KeyDown:   "down",
	tcell.KeyEnter:  "enter",
	tcell.KeyTab:    "tab",
	tcell.KeyPgUp:   "pgup",
	tcell.KeyPgDn:   "pgdn",
	tcell.KeyEsc:    KeyQuit,
	tcell.KeyCtrlC:  KeyQuit,
	tcell.KeyDelete: "delete",
}

// KeyName normalizes a terminal key event. Letters come back lower-cased so
// Caps Lock does not change what a key does.
func KeyName(event *tcell.EventKey) (domain.Key, bool) {
	if event.Key() != tcell.KeyRune {
		key, ok := specialKeys[event.Key()]
		return key, ok
	}
	return runeKey(event.Rune())
}

// runeKey names a typed character.
func runeKey(r rune) (domain.Key, bool) {
	switch {
	case r == ' ':
		return KeySpace, true
	case unicode.IsControl(r):
		return "", false
	default:
		return domain.Key(strings.ToLower(string(r))), true
	}
}
