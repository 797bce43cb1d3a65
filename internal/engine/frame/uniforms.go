package frame

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cortex/internal/scene"
)

// Uniform names shared with the GLSL sources.
const (
	uModel          = "model"
	uView           = "view"
	uProjection     = "projection"
	uLightSpace     = "light_space_matrix"
	uObjectColor    = "objectColor"
	uLightColor     = "lightColor"
	uLightPosition  = "lightPosition"
	uViewPos        = "viewPos"
	uMaterialParams = "materialParams"
)

// LightIntensity scales the light color uploaded to shaders.
const LightIntensity float32 = 0.8

// Fallback PBR parameters for textured materials, whose metallic-roughness
// map is not sampled.
const (
	defaultMetallic  float32 = 0
	defaultRoughness float32 = 0.5
)

type uniform struct {
	name  string
	value any
}

// frameUniforms are the per-draw values that do not depend on the material.
type frameUniforms struct {
	Model         mgl32.Mat4
	View          mgl32.Mat4
	Projection    mgl32.Mat4
	LightSpace    mgl32.Mat4
	LightColor    mgl32.Vec3
	LightPosition mgl32.Vec3
	ViewPos       mgl32.Vec3
}

var white = mgl32.Vec3{1, 1, 1}

// uniformsFor returns the full uniform set for one color-pass draw of mat.
func uniformsFor(mat scene.Material, fu frameUniforms) []uniform {
	color, params := white, mgl32.Vec3{}

	switch s := mat.Shading.(type) {
	case scene.PBR:
		color = s.BaseColor.Vec3()
		params = mgl32.Vec3{s.Metallic, s.Roughness, 0}
	case scene.PBRTextured:
		color = s.BaseColor.Vec3()
		if color == (mgl32.Vec3{}) {
			color = white
		}
		params = mgl32.Vec3{defaultMetallic, defaultRoughness, 0}
	case scene.Phong:
		color = scene.HexColor(s.BaseColor)
		params = mgl32.Vec3{s.DiffusePower, s.SpecularPower, 0}
	case scene.PhongTextured:
		params = mgl32.Vec3{s.DiffusePower, s.SpecularPower, 0}
	case scene.Flat:
		color = scene.HexColor(s.BaseColor)
	case scene.FlatTextured:
	default:
		color = scene.HexColor(scene.DefaultBaseColor)
	}

	return []uniform{
		{uObjectColor, color},
		{uLightColor, fu.LightColor},
		{uModel, fu.Model},
		{uView, fu.View},
		{uProjection, fu.Projection},
		{uViewPos, fu.ViewPos},
		{uLightPosition, fu.LightPosition},
		{uLightSpace, fu.LightSpace},
		{uMaterialParams, params},
	}
}
