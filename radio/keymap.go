package radio

import (
	"fmt"
	"strings"

	"github.com/yhkl-dev/localradio/domain"
)

// Bindings lists the keys bound to each command.
type Bindings struct {
	Toggle   []string
	Next     []string
	Previous []string
	Status   []string
	Quit     []string
}

// KeyMap resolves keys to commands. Every key maps to at most one command.
type KeyMap struct {
	commands map[domain.Key]domain.Command
}

// NewKeyMap lower-cases every key and fails when a key is bound twice.
func NewKeyMap(b Bindings) (*KeyMap, error) {
	m := &KeyMap{commands: make(map[domain.Key]domain.Command)}
	groups := []struct {
		command domain.Command
		keys    []string
	}{
		{domain.CommandToggle, b.Toggle},
		{domain.CommandNext, b.Next},
		{domain.CommandPrevious, b.Previous},
		{domain.CommandStatus, b.Status},
		{domain.CommandQuit, b.Quit},
	}
	for _, g := range groups {
		for _, k := range g.keys {
			key := NormalizeKey(k)
			if key == "" {
				return nil, fmt.Errorf("empty key bound to %s", g.command)
			}
			if prev, ok := m.commands[key]; ok {
				return nil, fmt.Errorf("key %q bound to both %s and %s", key, prev, g.command)
			}
			m.commands[key] = g.command
		}
	}
	return m, nil
}

// Lookup returns the command bound to key.
func (m *KeyMap) Lookup(key domain.Key) (domain.Command, bool) {
	cmd, ok := m.commands[NormalizeKey(string(key))]
	return cmd, ok
}

// NormalizeKey trims and lower-cases a key name.
func NormalizeKey(k string) domain.Key {
	return domain.Key(strings.ToLower(strings.TrimSpace(k)))
}

// ParseSequence turns "qwedcxza" into its keys, one per character. Named keys
// may be given comma-separated: "left,left,right".
func ParseSequence(s string) []domain.Key {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var keys []domain.Key
	if strings.Contains(s, ",") {
		for _, part := range strings.Split(s, ",") {
			if k := NormalizeKey(part); k != "" {
				keys = append(keys, k)
			}
		}
		return keys
	}
	for _, r := range s {
		keys = append(keys, NormalizeKey(string(r)))
	}
	return keys
}
