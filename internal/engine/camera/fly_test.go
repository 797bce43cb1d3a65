package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cortex/internal/scene"
)

func TestAnglesRoundTrip(t *testing.T) {
	yaw, pitch := Angles(mgl32.Vec3{0, 0, -1})
	if !mgl32.FloatEqualThreshold(yaw, -90, 1e-4) || !mgl32.FloatEqualThreshold(pitch, 0, 1e-4) {
		t.Errorf("Angles(-Z) = (%v, %v), want (-90, 0)", yaw, pitch)
	}

	for _, dir := range []mgl32.Vec3{{1, 0, 0}, {0.3, 0.5, -0.8}, {-1, -1, 1}} {
		want := dir.Normalize()
		got := Direction(Angles(dir))
		if !near(got, want, 1e-5) {
			t.Errorf("Direction(Angles(%v)) = %v", want, got)
		}
	}
}

func TestMoveForwardStaysOnPlane(t *testing.T) {
	cam := scene.NewCamera()
	cam.Look = mgl32.Vec3{0, 0.6, -0.8}

	NewFly(DefaultConfig()).Move(cam, Controls{Forward: true}, 0.5)

	// speed = 1 * 10 * 0.5
	want := mgl32.Vec3{0, 0, 3 - 5}
	if !cam.Position.ApproxEqual(want) {
		t.Errorf("position = %v, want %v", cam.Position, want)
	}
}

func TestMoveStrafeAndVertical(t *testing.T) {
	cam := scene.NewCamera()
	fly := NewFly(DefaultConfig())

	fly.Move(cam, Controls{Right: true, Up: true}, 0.1)

	want := mgl32.Vec3{1, 1, 3}
	if !cam.Position.ApproxEqual(want) {
		t.Errorf("position = %v, want %v", cam.Position, want)
	}

	fly.Move(cam, Controls{Left: true, Down: true, Backward: true}, 0.1)
	if !cam.Position.ApproxEqual(mgl32.Vec3{0, 0, 4}) {
		t.Errorf("position = %v, want (0, 0, 4)", cam.Position)
	}
}

func TestMoveZeroDeltaTime(t *testing.T) {
	cam := scene.NewCamera()
	NewFly(DefaultConfig()).Move(cam, Controls{Forward: true}, 0)
	if cam.Position != (mgl32.Vec3{0, 0, 3}) {
		t.Errorf("camera moved with dt=0: %v", cam.Position)
	}
}

func TestLookClampsPitch(t *testing.T) {
	cam := scene.NewCamera()
	fly := NewFly(DefaultConfig())

	// Moving the cursor up looks up.
	fly.Look(cam, 0, -100)
	if cam.Look.Y() <= 0 {
		t.Errorf("expected to look up, got %v", cam.Look)
	}

	fly.Look(cam, 0, -100000)
	_, pitch := Angles(cam.Look)
	if !mgl32.FloatEqualThreshold(pitch, MaxPitch, 1e-3) {
		t.Errorf("pitch = %v, want clamped to %v", pitch, MaxPitch)
	}
}

func TestLookYaw(t *testing.T) {
	cam := scene.NewCamera()
	// 1125 px * 0.08 = 90 degrees to the right.
	NewFly(DefaultConfig()).Look(cam, 1125, 0)
	if !near(cam.Look, mgl32.Vec3{1, 0, 0}, 1e-4) {
		t.Errorf("look = %v, want +X", cam.Look)
	}
}

func TestZoomClampsSpeed(t *testing.T) {
	cam := scene.NewCamera()
	fly := NewFly(Config{})

	fly.Zoom(cam, 3)
	if !mgl32.FloatEqual(cam.BaseSpeed, 1.3) {
		t.Errorf("speed = %v, want 1.3", cam.BaseSpeed)
	}

	fly.Zoom(cam, -100)
	if cam.BaseSpeed != DefaultMinSpeed {
		t.Errorf("speed = %v, want minimum %v", cam.BaseSpeed, DefaultMinSpeed)
	}
}

// near compares component-wise with an absolute tolerance.
func near(a, b mgl32.Vec3, tol float32) bool {
	for i := range a {
		if d := a[i] - b[i]; d > tol || d < -tol {
			return false
		}
	}
	return true
}
