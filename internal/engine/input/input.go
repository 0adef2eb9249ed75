// Package input holds a per-frame snapshot of keyboard and mouse state.
//
// The snapshot is device independent; input/sdlinput fills it from SDL
// events. Cameras read it during update and the application layer reads
// it for hotkeys.
package input

import (
	"fmt"
	"strings"
)

// Key is a device-independent key code.
type Key int

// Keys the scene understands.
const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyShift
	KeyEscape
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyF12
	keyCount
)

var keyNames = [keyCount]string{
	KeyUnknown: "unknown",
	KeyW:       "w",
	KeyA:       "a",
	KeyS:       "s",
	KeyD:       "d",
	KeyQ:       "q",
	KeyE:       "e",
	KeyUp:      "up",
	KeyDown:    "down",
	KeyLeft:    "left",
	KeyRight:   "right",
	KeySpace:   "space",
	KeyShift:   "shift",
	KeyEscape:  "escape",
	Key0:       "0",
	Key1:       "1",
	Key2:       "2",
	Key3:       "3",
	Key4:       "4",
	Key5:       "5",
	Key6:       "6",
	Key7:       "7",
	Key8:       "8",
	Key9:       "9",
	KeyF12:     "f12",
}

// String returns the key name accepted by ParseKey.
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return fmt.Sprintf("key(%d)", int(k))
	}
	return keyNames[k]
}

// ParseKey converts a key name ("w", "escape", "3") to a Key.
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "esc" {
		return KeyEscape, nil
	}
	for k := KeyW; k < keyCount; k++ {
		if keyNames[k] == name {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", name)
}

// State is the input snapshot for one frame.
type State struct {
	held    [keyCount]bool
	pressed [keyCount]bool

	// Mouse movement since the previous frame, in pixels.
	MouseDX, MouseDY float32
	// MouseLook is true while the look button is held.
	MouseLook bool

	Quit bool
	// Resized is set for one frame when the window size changed.
	Resized       bool
	Width, Height int
}

// BeginFrame clears the per-frame edges and deltas but keeps held keys.
func (s *State) BeginFrame() {
	s.pressed = [keyCount]bool{}
	s.MouseDX, s.MouseDY = 0, 0
	s.Resized = false
}

// Press marks k as held and, if it was up, as pressed this frame.
func (s *State) Press(k Key) {
	if k <= KeyUnknown || k >= keyCount {
		return
	}
	if !s.held[k] {
		s.pressed[k] = true
	}
	s.held[k] = true
}

// Release marks k as up.
func (s *State) Release(k Key) {
	if k <= KeyUnknown || k >= keyCount {
		return
	}
	s.held[k] = false
}

// Held reports whether k is down.
func (s *State) Held(k Key) bool {
	return k > KeyUnknown && k < keyCount && s.held[k]
}

// Pressed reports whether k went down this frame.
func (s *State) Pressed(k Key) bool {
	return k > KeyUnknown && k < keyCount && s.pressed[k]
}

// Axis returns +1 if pos is held, -1 if neg is held, 0 for both or neither.
func (s *State) Axis(pos, neg Key) float32 {
	var v float32
	if s.Held(pos) {
		v++
	}
	if s.Held(neg) {
		v--
	}
	return v
}

// Resize records a new window size for this frame.
func (s *State) Resize(width, height int) {
	s.Resized = true
	s.Width, s.Height = width, height
}
