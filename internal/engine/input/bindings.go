package input

import (
	"fmt"
	"sort"
)

// Bindings maps hotkeys to target names, such as camera names.
type Bindings struct {
	keys    []Key
	targets map[Key]string
}

// NewBindings parses a key-name to target map.
func NewBindings(m map[string]string) (*Bindings, error) {
	b := &Bindings{targets: make(map[Key]string, len(m))}
	for name, target := range m {
		k, err := ParseKey(name)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", name, err)
		}
		if target == "" {
			return nil, fmt.Errorf("binding %q: empty target", name)
		}
		b.targets[k] = target
		b.keys = append(b.keys, k)
	}
	sort.Slice(b.keys, func(i, j int) bool { return b.keys[i] < b.keys[j] })
	return b, nil
}

// Triggered returns the target of the lowest bound key pressed this frame.
func (b *Bindings) Triggered(s *State) (string, bool) {
	for _, k := range b.keys {
		if s.Pressed(k) {
			return b.targets[k], true
		}
	}
	return "", false
}

// Target returns the target bound to k.
func (b *Bindings) Target(k Key) (string, bool) {
	t, ok := b.targets[k]
	return t, ok
}

// Len returns the number of bindings.
func (b *Bindings) Len() int {
	return len(b.keys)
}
