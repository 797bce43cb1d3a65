package importer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/cortex/internal/scene"
)

// material maps a glTF material to a scene material. Primitives with a
// base-color texture become textured; the rest fall back to an untextured
// material with a warning.
func (w *walker) material(idx *int, meshName string) scene.Material {
	var gm *gltf.Material
	if idx != nil && *idx >= 0 && *idx < len(w.doc.Materials) {
		gm = w.doc.Materials[*idx]
	}

	base := mgl32.Vec4{1, 1, 1, 1}
	var albedo, metalRough string
	if gm != nil && gm.PBRMetallicRoughness != nil {
		pbr := gm.PBRMetallicRoughness
		if pbr.BaseColorFactor != nil {
			f := *pbr.BaseColorFactor
			base = mgl32.Vec4{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
		}
		if pbr.BaseColorTexture != nil {
			albedo = w.imagePath(pbr.BaseColorTexture.Index)
		}
		if pbr.MetallicRoughnessTexture != nil {
			metalRough = w.imagePath(pbr.MetallicRoughnessTexture.Index)
		}
	}

	if albedo == "" {
		w.log.Warn("no base color texture, using untextured material",
			zap.String("mesh", meshName))
		return scene.NewMaterial(w.untextured(gm, base))
	}

	var shading scene.Shading
	switch w.im.Tier {
	case TierFlat:
		shading = scene.FlatTextured{TexturePath: albedo}
	case TierPhong:
		shading = scene.PhongTextured{TexturePath: albedo, DiffusePower: 1, SpecularPower: 32}
	default:
		var normal, occlusion string
		if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			normal = w.imagePath(*gm.NormalTexture.Index)
		}
		if gm.OcclusionTexture != nil && gm.OcclusionTexture.Index != nil {
			occlusion = w.imagePath(*gm.OcclusionTexture.Index)
		}
		shading = scene.PBRTextured{
			AlbedoPath:            albedo,
			MetallicRoughnessPath: metalRough,
			NormalPath:            normal,
			OcclusionPath:         occlusion,
			BaseColor:             base,
		}
	}

	mat := scene.NewMaterial(shading)
	mat.TextureSlot = w.claimSlot(albedo)
	return mat
}

func (w *walker) untextured(gm *gltf.Material, base mgl32.Vec4) scene.Shading {
	color := packColor(base)
	if w.im.Tier == TierFlat {
		return scene.Flat{BaseColor: color}
	}
	if gm == nil {
		return scene.Phong{BaseColor: scene.DefaultBaseColor, DiffusePower: 1, SpecularPower: 32}
	}
	return scene.Phong{BaseColor: color, DiffusePower: 1, SpecularPower: 32}
}

// packColor converts a linear RGBA factor to 0xRRGGBB.
func packColor(c mgl32.Vec4) uint32 {
	var out uint32
	for i := 0; i < 3; i++ {
		v := mgl32.Clamp(c[i], 0, 1)
		out = out<<8 | uint32(v*255+0.5)
	}
	return out
}
