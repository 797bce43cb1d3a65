// Package animation records and plays back camera paths.
package animation

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultSmoothingTail is the number of trailing checkpoints left untouched
// by smoothing.
const DefaultSmoothingTail = 20

var (
	ErrTooFewCheckpoints = errors.New("animation: at least 2 checkpoints required")
	ErrAlreadyStarted    = errors.New("animation: playback already started")
	ErrNotRecorded       = errors.New("animation: no recorded path")
)

// State is the externally visible phase of a Path.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateArmed
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateRecording:
		return "recording"
	case StateArmed:
		return "armed"
	case StatePlaying:
		return "playing"
	}
	return "idle"
}

// Checkpoint is one recorded camera pose.
type Checkpoint struct {
	Position mgl32.Vec3
	Look     mgl32.Vec3
}

// Sample is the camera pose produced by one playback tick.
type Sample struct {
	Index    int
	Position mgl32.Vec3
	Look     mgl32.Vec3
	Finished bool
}

type track struct {
	points []Checkpoint
	// smoothed is cleared by every Record. done counts the leading points
	// already averaged, which are never averaged again.
	smoothed bool
	done     int
	last     int
}

// phase holds the per-state data. Only recording, armed and playing carry a
// track, so playback without checkpoints cannot be expressed.
type phase interface {
	state() State
}

type idle struct{}

type recording struct{ t *track }

type armed struct{ t *track }

type playing struct {
	t     *track
	start float64
}

func (idle) state() State      { return StateIdle }
func (recording) state() State { return StateRecording }
func (armed) state() State     { return StateArmed }
func (playing) state() State   { return StatePlaying }

// Path is a camera path state machine:
//
//	idle -> recording -> armed -> playing -> recording (finished)
//
// Reset returns to idle from any state.
type Path struct {
	phase phase
	speed float32
	tail  int
}

// NewPath creates an idle path played back at speed checkpoints per second.
func NewPath(speed float32, smoothingTail int) *Path {
	if smoothingTail < 0 {
		smoothingTail = DefaultSmoothingTail
	}
	return &Path{phase: idle{}, speed: speed, tail: smoothingTail}
}

// State returns the current phase.
func (p *Path) State() State {
	return p.phase.state()
}

// Speed returns the playback speed in checkpoints per second.
func (p *Path) Speed() float32 {
	return p.speed
}

func (p *Path) track() *track {
	switch ph := p.phase.(type) {
	case recording:
		return ph.t
	case armed:
		return ph.t
	case playing:
		return ph.t
	}
	return nil
}

// Checkpoints returns a copy of the recorded checkpoints.
func (p *Path) Checkpoints() []Checkpoint {
	t := p.track()
	if t == nil {
		return nil
	}
	return append([]Checkpoint(nil), t.points...)
}

// Len returns the number of recorded checkpoints.
func (p *Path) Len() int {
	if t := p.track(); t != nil {
		return len(t.points)
	}
	return 0
}

// Smoothed reports whether the smoothing pass has run.
func (p *Path) Smoothed() bool {
	t := p.track()
	return t != nil && t.smoothed
}

// Triggered reports whether playback is queued or running.
func (p *Path) Triggered() bool {
	s := p.State()
	return s == StateArmed || s == StatePlaying
}

// StartTime returns the playback start time, or 0 when not playing.
func (p *Path) StartTime() float64 {
	if ph, ok := p.phase.(playing); ok {
		return ph.start
	}
	return 0
}

// LastCheckpoint returns the index visited by the most recent tick.
func (p *Path) LastCheckpoint() int {
	if t := p.track(); t != nil {
		return t.last
	}
	return 0
}

// Record appends a checkpoint. It is ignored while armed or playing.
func (p *Path) Record(position, look mgl32.Vec3) bool {
	switch ph := p.phase.(type) {
	case idle:
		p.phase = recording{t: &track{points: []Checkpoint{{position, look}}}}
	case recording:
		ph.t.points = append(ph.t.points, Checkpoint{position, look})
		ph.t.smoothed = false
	default:
		return false
	}
	return true
}

// Arm queues playback. Checkpoints recorded since the last arm are smoothed;
// earlier ones keep their smoothed positions.
func (p *Path) Arm() error {
	switch ph := p.phase.(type) {
	case idle:
		return ErrNotRecorded
	case armed, playing:
		return ErrAlreadyStarted
	case recording:
		if len(ph.t.points) < 2 {
			return ErrTooFewCheckpoints
		}
		if !ph.t.smoothed {
			ph.t.done = smooth(ph.t.points, ph.t.done, p.tail)
			ph.t.smoothed = true
		}
		p.phase = armed{t: ph.t}
	}
	return nil
}

// smooth replaces each position from index from up to the tail with the
// average of itself and its successor. It returns the index of the first
// point left unsmoothed.
func smooth(points []Checkpoint, from, tail int) int {
	i := from
	for ; i < len(points)-tail && i+1 < len(points); i++ {
		points[i].Position = points[i].Position.Add(points[i+1].Position).Mul(0.5)
	}
	return i
}

// Start stamps the playback start time. It only applies to an armed path.
func (p *Path) Start(now float64) bool {
	ph, ok := p.phase.(armed)
	if !ok {
		return false
	}
	ph.t.last = 0
	p.phase = playing{t: ph.t, start: now}
	return true
}

// Tick samples the path at time now. It reports false when the path is not
// playing or now is not after the start time.
//
// With N checkpoints, start s and speed v:
//
//	delta = (s*v + N) - now*v
//	index = clamp(ceil(N - delta), 0, N-1)
//	frac  = index - (N - delta)
//	pose  = frac*cp[index] + (1-frac)*cp[min(index+1, N-1)]
//
// Reaching index N-1 finishes playback and returns the path to recording.
func (p *Path) Tick(now float64) (Sample, bool) {
	ph, ok := p.phase.(playing)
	if !ok || !(ph.start < now) {
		return Sample{}, false
	}

	t := ph.t
	n := float64(len(t.points))
	v := float64(p.speed)
	delta := (ph.start*v + n) - now*v

	raw := math.Ceil(n - delta)
	index := int(raw)
	finished := false
	if raw >= n-1 {
		index = len(t.points) - 1
		finished = true
	} else if index < 0 {
		index = 0
	}
	next := min(index+1, len(t.points)-1)

	frac := float32(float64(index) - (n - delta))
	if finished {
		frac = 1
	}
	cur, nxt := t.points[index], t.points[next]

	s := Sample{
		Index:    index,
		Position: cur.Position.Mul(frac).Add(nxt.Position.Mul(1 - frac)),
		Look:     cur.Look.Mul(frac).Add(nxt.Look.Mul(1 - frac)),
		Finished: finished,
	}
	t.last = index

	if finished {
		p.phase = recording{t: t}
	}
	return s, true
}

// Reset discards all checkpoints and timing and returns to idle.
func (p *Path) Reset() {
	p.phase = idle{}
}
