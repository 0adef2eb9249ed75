// Package sdlinput fills an input.State from SDL2 events.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/scenery/internal/engine/input"
)

var scancodes = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_W:      input.KeyW,
	sdl.SCANCODE_A:      input.KeyA,
	sdl.SCANCODE_S:      input.KeyS,
	sdl.SCANCODE_D:      input.KeyD,
	sdl.SCANCODE_Q:      input.KeyQ,
	sdl.SCANCODE_E:      input.KeyE,
	sdl.SCANCODE_UP:     input.KeyUp,
	sdl.SCANCODE_DOWN:   input.KeyDown,
	sdl.SCANCODE_LEFT:   input.KeyLeft,
	sdl.SCANCODE_RIGHT:  input.KeyRight,
	sdl.SCANCODE_SPACE:  input.KeySpace,
	sdl.SCANCODE_LSHIFT: input.KeyShift,
	sdl.SCANCODE_RSHIFT: input.KeyShift,
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
	sdl.SCANCODE_0:      input.Key0,
	sdl.SCANCODE_1:      input.Key1,
	sdl.SCANCODE_2:      input.Key2,
	sdl.SCANCODE_3:      input.Key3,
	sdl.SCANCODE_4:      input.Key4,
	sdl.SCANCODE_5:      input.Key5,
	sdl.SCANCODE_6:      input.Key6,
	sdl.SCANCODE_7:      input.Key7,
	sdl.SCANCODE_8:      input.Key8,
	sdl.SCANCODE_9:      input.Key9,
	sdl.SCANCODE_F12:    input.KeyF12,
}

// Poller drains the SDL event queue into a State.
type Poller struct {
	state input.State
}

// New creates a poller.
func New() *Poller {
	return &Poller{}
}

// Poll processes pending SDL events and returns the snapshot for this frame.
// The returned pointer stays valid until the next Poll.
func (p *Poller) Poll() *input.State {
	s := &p.state
	s.BeginFrame()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.Quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				s.Resize(int(e.Data1), int(e.Data2))
			}

		case *sdl.KeyboardEvent:
			k, ok := scancodes[e.Keysym.Scancode]
			if !ok {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				s.Press(k)
			} else if e.Type == sdl.KEYUP {
				s.Release(k)
			}

		case *sdl.MouseMotionEvent:
			s.MouseDX += float32(e.XRel)
			s.MouseDY += float32(e.YRel)

		case *sdl.MouseButtonEvent:
			if e.Button == sdl.BUTTON_RIGHT {
				s.MouseLook = e.Type == sdl.MOUSEBUTTONDOWN
			}
		}
	}

	return s
}
