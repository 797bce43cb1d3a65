// Package input tracks per-frame keyboard and mouse state.
//
// State is filled by a platform poller (see sdlinput) and read by the
// controls layer. It carries no platform types so it can be driven directly
// in tests.
package input

// Key is a logical key the renderer reacts to.
type Key int

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyShift
	KeyQ
	KeyG
	KeyT
	KeyB
	KeyR
	KeyE
	KeyEscape

	keyCount
)

var keyNames = [keyCount]string{
	"W", "A", "S", "D", "Space", "Shift", "Q", "G", "T", "B", "R", "E", "Escape",
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// State is the input snapshot for one frame.
type State struct {
	down [keyCount]bool
	prev [keyCount]bool

	dx, dy float32
	scroll float32

	quit bool

	resized       bool
	width, height int32
}

// New returns an empty state.
func New() *State {
	return &State{}
}

// BeginFrame starts a new frame: key edges are measured against the
// current key state and per-frame deltas are cleared.
func (s *State) BeginFrame() {
	s.prev = s.down
	s.dx, s.dy, s.scroll = 0, 0, 0
	s.resized = false
}

// SetKey records a key transition.
func (s *State) SetKey(k Key, down bool) {
	if k >= 0 && k < keyCount {
		s.down[k] = down
	}
}

// AddMotion accumulates a relative cursor move. y grows downward.
func (s *State) AddMotion(dx, dy float32) {
	s.dx += dx
	s.dy += dy
}

// AddScroll accumulates wheel notches.
func (s *State) AddScroll(notches float32) {
	s.scroll += notches
}

// Resize records a new window size.
func (s *State) Resize(width, height int32) {
	s.resized = true
	s.width, s.height = width, height
}

// RequestQuit marks that the window was asked to close.
func (s *State) RequestQuit() {
	s.quit = true
}

// Down reports whether k is held.
func (s *State) Down(k Key) bool {
	return k >= 0 && k < keyCount && s.down[k]
}

// Pressed reports whether k went down this frame.
func (s *State) Pressed(k Key) bool {
	return s.Down(k) && !s.prev[k]
}

// MouseDelta returns the cursor movement this frame.
func (s *State) MouseDelta() (dx, dy float32) {
	return s.dx, s.dy
}

// Scroll returns the wheel notches this frame.
func (s *State) Scroll() float32 {
	return s.scroll
}

// QuitRequested reports whether a quit was requested.
func (s *State) QuitRequested() bool {
	return s.quit
}

// Resized returns the new size if the window was resized this frame.
func (s *State) Resized() (width, height int32, ok bool) {
	return s.width, s.height, s.resized
}
