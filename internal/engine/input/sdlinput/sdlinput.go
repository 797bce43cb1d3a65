// Package sdlinput feeds SDL2 events into an input.State.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/cortex/internal/engine/input"
)

var keymap = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_W:      input.KeyW,
	sdl.SCANCODE_A:      input.KeyA,
	sdl.SCANCODE_S:      input.KeyS,
	sdl.SCANCODE_D:      input.KeyD,
	sdl.SCANCODE_SPACE:  input.KeySpace,
	sdl.SCANCODE_LSHIFT: input.KeyShift,
	sdl.SCANCODE_Q:      input.KeyQ,
	sdl.SCANCODE_G:      input.KeyG,
	sdl.SCANCODE_T:      input.KeyT,
	sdl.SCANCODE_B:      input.KeyB,
	sdl.SCANCODE_R:      input.KeyR,
	sdl.SCANCODE_E:      input.KeyE,
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
}

// Poller drains the SDL event queue once per frame.
type Poller struct {
	state *input.State
}

// New returns a poller writing into state.
func New(state *input.State) *Poller {
	return &Poller{state: state}
}

// Poll starts a new input frame and applies all pending events. It returns
// true once a quit was requested.
func (p *Poller) Poll() bool {
	s := p.state
	s.BeginFrame()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.RequestQuit()

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				s.Resize(e.Data1, e.Data2)
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if k, ok := keymap[e.Keysym.Scancode]; ok {
				s.SetKey(k, e.Type == sdl.KEYDOWN)
			}

		case *sdl.MouseMotionEvent:
			s.AddMotion(float32(e.XRel), float32(e.YRel))

		case *sdl.MouseWheelEvent:
			s.AddScroll(float32(e.Y))
		}
	}

	return s.QuitRequested()
}
