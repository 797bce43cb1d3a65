package scene

import "github.com/go-gl/mathgl/mgl32"

// LightType is the emitter model of a light.
type LightType int

const (
	LightPoint LightType = iota
	LightSpot
	LightAmbient
)

func (t LightType) String() string {
	switch t {
	case LightSpot:
		return "spot"
	case LightAmbient:
		return "ambient"
	}
	return "point"
}

// DefaultShadowHalfWidth is the half extent of the orthographic shadow frustum.
const DefaultShadowHalfWidth float32 = 10

// Light is a drawable light source.
type Light struct {
	Type            LightType
	Color           uint32 // 0xRRGGBB
	Strength        float32
	Matrix          mgl32.Mat4
	ShadowHalfWidth float32

	// Visualizer is drawn with Matrix as its model transform.
	Visualizer []*Mesh
}

// NewPointLight returns a point light placed by matrix.
func NewPointLight(color uint32, strength float32, matrix mgl32.Mat4) *Light {
	return &Light{
		Type:            LightPoint,
		Color:           color,
		Strength:        strength,
		Matrix:          matrix,
		ShadowHalfWidth: DefaultShadowHalfWidth,
	}
}

// Position returns the translation part of the light matrix.
func (l *Light) Position() mgl32.Vec3 {
	return l.Matrix.Col(3).Vec3()
}

// Forward returns the light's local -Z axis in world space.
func (l *Light) Forward() mgl32.Vec3 {
	f := l.Matrix.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	if f.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return f.Normalize()
}

// RGB returns the light color as a normalized vector.
func (l *Light) RGB() mgl32.Vec3 {
	return HexColor(l.Color)
}

// SetVisualizer replaces the visualizer meshes and flags them for upload.
func (l *Light) SetVisualizer(meshes []*Mesh) {
	for _, m := range meshes {
		m.NeedsRefresh = true
	}
	l.Visualizer = meshes
}
