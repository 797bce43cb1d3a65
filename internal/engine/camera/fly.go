// Package camera moves the scene camera from keyboard and mouse input.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cortex/internal/scene"
)

// Defaults for mouse look and speed control.
const (
	DefaultSensitivity float32 = 0.08
	DefaultSpeedStep   float32 = 0.1
	DefaultMinSpeed    float32 = 0.1

	// MaxPitch keeps the look direction off the up axis, in degrees.
	MaxPitch float32 = 89

	// speedScale converts base speed to units per second.
	speedScale float32 = 10
)

// Controls is the movement input for one frame.
type Controls struct {
	Forward, Backward bool
	Left, Right       bool
	Up, Down          bool

	// LookDX and LookDY are cursor deltas in pixels, y growing downward.
	LookDX, LookDY float32
	Scroll         float32
}

// Config holds the controller tuning.
type Config struct {
	Sensitivity float32
	SpeedStep   float32
	MinSpeed    float32
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Sensitivity: DefaultSensitivity,
		SpeedStep:   DefaultSpeedStep,
		MinSpeed:    DefaultMinSpeed,
	}
}

// Fly is a first-person fly camera controller. Yaw and pitch are derived
// from the camera's look direction each update, so external changes such
// as path playback are picked up.
type Fly struct {
	cfg Config
}

// NewFly returns a controller. Zero fields in cfg take the defaults.
func NewFly(cfg Config) *Fly {
	def := DefaultConfig()
	if cfg.Sensitivity <= 0 {
		cfg.Sensitivity = def.Sensitivity
	}
	if cfg.SpeedStep <= 0 {
		cfg.SpeedStep = def.SpeedStep
	}
	if cfg.MinSpeed <= 0 {
		cfg.MinSpeed = def.MinSpeed
	}
	return &Fly{cfg: cfg}
}

// Update applies scroll, mouse look and movement to cam.
func (f *Fly) Update(cam *scene.Camera, c Controls, dt float32) {
	if c.Scroll != 0 {
		f.Zoom(cam, c.Scroll)
	}
	if c.LookDX != 0 || c.LookDY != 0 {
		f.Look(cam, c.LookDX, c.LookDY)
	}
	f.Move(cam, c, dt)
}

// Move translates cam. Forward and backward follow the look direction
// projected on the XZ plane; up and down follow world Y.
func (f *Fly) Move(cam *scene.Camera, c Controls, dt float32) {
	speed := cam.BaseSpeed * speedScale * dt
	if speed == 0 {
		return
	}

	flat := mgl32.Vec3{cam.Look.X(), 0, cam.Look.Z()}
	if flat.Len() > 1e-6 {
		flat = flat.Normalize()
	} else {
		flat = mgl32.Vec3{}
	}
	right := cam.Look.Cross(cam.Up)
	if right.Len() > 1e-6 {
		right = right.Normalize()
	} else {
		right = mgl32.Vec3{}
	}
	worldUp := mgl32.Vec3{0, 1, 0}

	pos := cam.Position
	if c.Forward {
		pos = pos.Add(flat.Mul(speed))
	}
	if c.Backward {
		pos = pos.Sub(flat.Mul(speed))
	}
	if c.Left {
		pos = pos.Sub(right.Mul(speed))
	}
	if c.Right {
		pos = pos.Add(right.Mul(speed))
	}
	if c.Up {
		pos = pos.Add(worldUp.Mul(speed))
	}
	if c.Down {
		pos = pos.Sub(worldUp.Mul(speed))
	}
	cam.Position = pos
}

// Look turns cam by a cursor delta.
func (f *Fly) Look(cam *scene.Camera, dx, dy float32) {
	yaw, pitch := Angles(cam.Look)
	yaw += dx * f.cfg.Sensitivity
	pitch -= dy * f.cfg.Sensitivity
	pitch = mgl32.Clamp(pitch, -MaxPitch, MaxPitch)
	cam.Look = Direction(yaw, pitch)
}

// Zoom changes the base speed by the configured step per notch.
func (f *Fly) Zoom(cam *scene.Camera, notches float32) {
	cam.BaseSpeed = max(cam.BaseSpeed+notches*f.cfg.SpeedStep, f.cfg.MinSpeed)
}

// Angles returns the yaw and pitch of a look direction in degrees. Yaw is
// measured from +X toward +Z, so looking down -Z is yaw -90.
func Angles(look mgl32.Vec3) (yaw, pitch float32) {
	if look.Len() == 0 {
		return -90, 0
	}
	l := look.Normalize()
	yaw = mgl32.RadToDeg(float32(math.Atan2(float64(l.Z()), float64(l.X()))))
	pitch = mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(l.Y(), -1, 1)))))
	return yaw, pitch
}

// Direction returns the unit look vector for yaw and pitch in degrees.
func Direction(yaw, pitch float32) mgl32.Vec3 {
	y := float64(mgl32.DegToRad(yaw))
	p := float64(mgl32.DegToRad(pitch))
	return mgl32.Vec3{
		float32(math.Cos(y) * math.Cos(p)),
		float32(math.Sin(p)),
		float32(math.Sin(y) * math.Cos(p)),
	}.Normalize()
}
