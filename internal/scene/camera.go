package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cortex/internal/engine/animation"
)

// Camera is the viewer. View and projection are cached by UpdateMatrices.
type Camera struct {
	Position  mgl32.Vec3
	Look      mgl32.Vec3
	Up        mgl32.Vec3
	BaseSpeed float32

	// Path is the recorded camera path, created on first record.
	Path *animation.Path

	view            mgl32.Mat4
	viewInitialized bool
	proj            mgl32.Mat4
	projInitialized bool
}

// NewCamera returns a camera at (0,0,3) looking down -Z.
func NewCamera() *Camera {
	return &Camera{
		Position:  mgl32.Vec3{0, 0, 3},
		Look:      mgl32.Vec3{0, 0, -1},
		Up:        mgl32.Vec3{0, 1, 0},
		BaseSpeed: 1,
	}
}

// UpdateMatrices recomputes the cached view and projection. fovY is in radians.
func (c *Camera) UpdateMatrices(fovY, aspect, near, far float32) {
	c.view = mgl32.LookAtV(c.Position, c.Position.Add(c.Look), c.Up)
	c.viewInitialized = true
	c.proj = mgl32.Perspective(fovY, aspect, near, far)
	c.projInitialized = true
}

// View returns the cached view matrix and whether it was computed.
func (c *Camera) View() (mgl32.Mat4, bool) {
	return c.view, c.viewInitialized
}

// Projection returns the cached projection matrix and whether it was computed.
func (c *Camera) Projection() (mgl32.Mat4, bool) {
	return c.proj, c.projInitialized
}

// Reset restores the default pose and drops cached matrices. The path is kept.
func (c *Camera) Reset() {
	path := c.Path
	*c = *NewCamera()
	c.Path = path
}
