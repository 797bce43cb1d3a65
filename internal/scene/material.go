package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cortex/internal/engine/gpu"
)

// DefaultBaseColor is used when a material declares no color.
const DefaultBaseColor uint32 = 0x80CC33

// MaterialKind is the shading variant of a material.
type MaterialKind int

const (
	KindPBR MaterialKind = iota
	KindPBRTextured
	KindPhong
	KindPhongTextured
	KindFlat
	KindFlatTextured
)

func (k MaterialKind) String() string {
	switch k {
	case KindPBR:
		return "pbr"
	case KindPBRTextured:
		return "pbr-textured"
	case KindPhong:
		return "phong"
	case KindPhongTextured:
		return "phong-textured"
	case KindFlat:
		return "flat"
	case KindFlatTextured:
		return "flat-textured"
	}
	return "unknown"
}

// Textured reports whether the kind samples a color texture.
func (k MaterialKind) Textured() bool {
	return k == KindPBRTextured || k == KindPhongTextured || k == KindFlatTextured
}

// Shading is the kind-specific part of a material. Only the types in this
// package implement it.
type Shading interface {
	Kind() MaterialKind
	isShading()
}

// PBR is an untextured metallic-roughness material.
type PBR struct {
	BaseColor mgl32.Vec4
	Metallic  float32
	Roughness float32
}

// PBRTextured is a metallic-roughness material backed by texture files.
type PBRTextured struct {
	AlbedoPath            string
	MetallicRoughnessPath string
	NormalPath            string
	OcclusionPath         string
	BaseColor             mgl32.Vec4
}

// Phong is an untextured Blinn-Phong material.
type Phong struct {
	BaseColor     uint32
	DiffusePower  float32
	SpecularPower float32
}

// PhongTextured is a Blinn-Phong material with a diffuse texture.
type PhongTextured struct {
	TexturePath   string
	DiffusePower  float32
	SpecularPower float32
}

// Flat is a single-color unlit material.
type Flat struct {
	BaseColor uint32
}

// FlatTextured samples a texture without lighting.
type FlatTextured struct {
	TexturePath string
}

func (PBR) Kind() MaterialKind           { return KindPBR }
func (PBRTextured) Kind() MaterialKind   { return KindPBRTextured }
func (Phong) Kind() MaterialKind         { return KindPhong }
func (PhongTextured) Kind() MaterialKind { return KindPhongTextured }
func (Flat) Kind() MaterialKind          { return KindFlat }
func (FlatTextured) Kind() MaterialKind  { return KindFlatTextured }

func (PBR) isShading()           {}
func (PBRTextured) isShading()   {}
func (Phong) isShading()         {}
func (PhongTextured) isShading() {}
func (Flat) isShading()          {}
func (FlatTextured) isShading()  {}

// Material is owned by exactly one mesh.
type Material struct {
	Shading Shading
	// Program is the program the mesh is drawn with, resolved from DrawKind
	// when the mesh is uploaded.
	Program gpu.Program
	// Texture is the bound color texture, or 0 when none is loaded.
	Texture gpu.Texture
	// TextureSlot is the slot claimed at import, or -1.
	TextureSlot int32
}

// NewMaterial wraps a shading variant with no GPU state.
func NewMaterial(s Shading) Material {
	return Material{Shading: s, TextureSlot: -1}
}

// Kind returns the shading kind. A material without shading is flat.
func (m Material) Kind() MaterialKind {
	if m.Shading == nil {
		return KindFlat
	}
	return m.Shading.Kind()
}

// DrawKind returns the kind the material is drawn as. Textured kinds whose
// texture is not loaded fall back to their untextured counterpart.
func (m Material) DrawKind() MaterialKind {
	kind := m.Kind()
	if !kind.Textured() || m.Texture != 0 {
		return kind
	}
	switch kind {
	case KindPBRTextured:
		return KindPBR
	case KindPhongTextured:
		return KindPhong
	}
	return KindFlat
}

// TexturePath returns the color texture path, or "" for untextured kinds.
func (m Material) TexturePath() string {
	switch s := m.Shading.(type) {
	case PBRTextured:
		return s.AlbedoPath
	case PhongTextured:
		return s.TexturePath
	case FlatTextured:
		return s.TexturePath
	}
	return ""
}

// HexColor converts 0xRRGGBB to a normalized RGB vector.
func HexColor(c uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((c>>16)&0xFF) / 255,
		float32((c>>8)&0xFF) / 255,
		float32(c&0xFF) / 255,
	}
}
