// Package shadow computes the light-space transform for shadow mapping.
package shadow

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cortex/internal/scene"
)

// Depth range of the light frustum.
const (
	Near float32 = 0.01
	Far  float32 = 20
)

// DefaultResolution is the side of the square depth target.
const DefaultResolution = 4000

// LightView returns the view matrix of a light looking along its local -Z.
func LightView(l *scene.Light) mgl32.Mat4 {
	eye := l.Position()
	forward := l.Forward()
	up := mgl32.Vec3{0, 1, 0}
	// Avoid a degenerate basis when the light looks straight up or down.
	if mgl32.Abs(forward.Dot(up)) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	return mgl32.LookAtV(eye, eye.Add(forward), up)
}

// LightProjection returns an orthographic projection w units wide on each
// side of the light axis.
func LightProjection(halfWidth float32) mgl32.Mat4 {
	if halfWidth <= 0 {
		halfWidth = scene.DefaultShadowHalfWidth
	}
	return mgl32.Ortho(-halfWidth, halfWidth, -halfWidth, halfWidth, Near, Far)
}

// LightSpaceMatrix returns projection * view for l.
func LightSpaceMatrix(l *scene.Light) mgl32.Mat4 {
	return LightProjection(l.ShadowHalfWidth).Mul4(LightView(l))
}
