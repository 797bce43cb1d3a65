// Package gpusync keeps GPU vertex buffers consistent with scene meshes.
package gpusync

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/cortex/internal/engine/gpu"
	"github.com/Faultbox/cortex/internal/engine/texture"
	"github.com/Faultbox/cortex/internal/logger"
	"github.com/Faultbox/cortex/internal/scene"
	"github.com/Faultbox/cortex/pkg/geometry"
)

var (
	// ErrDegenerateMesh is reported for meshes with fewer than 3 vertices.
	ErrDegenerateMesh = errors.New("mesh has fewer than 3 vertices")
	// ErrInvalidAttributes is reported when attribute arrays disagree on the
	// vertex count.
	ErrInvalidAttributes = errors.New("invalid mesh attributes")
)

// Stats describes one Sync pass.
type Stats struct {
	Refreshed   int
	Skipped     int
	Allocations int
}

// Programs resolves the program a material kind is drawn with.
type Programs interface {
	For(kind scene.MaterialKind) gpu.Program
}

// Synchronizer uploads dirty meshes. All methods must run on the graphics
// thread.
type Synchronizer struct {
	dev      gpu.Device
	textures *texture.Cache
	programs Programs
	log      *zap.Logger
}

// New returns a synchronizer. textures may be nil, in which case textured
// materials render without a color texture.
func New(dev gpu.Device, textures *texture.Cache, log *zap.Logger) *Synchronizer {
	return &Synchronizer{dev: dev, textures: textures, log: logger.OrNop(log)}
}

// SetPrograms makes every refresh assign the material program. Without
// programs, Material.Program is left untouched.
func (s *Synchronizer) SetPrograms(p Programs) {
	s.programs = p
}

// Sync refreshes every mesh whose NeedsRefresh flag is set. It returns
// immediately when the scene-level flag is clear. The scene flag is cleared
// once no refreshable mesh is left dirty.
func (s *Synchronizer) Sync(sc *scene.Scene) Stats {
	var st Stats
	if sc == nil || !sc.VBOsNeedRefresh {
		return st
	}

	pending := false
	sc.EachMesh(func(m *scene.Mesh) {
		if !m.NeedsRefresh {
			return
		}
		n, err := s.refresh(m)
		st.Allocations += n
		switch {
		case errors.Is(err, ErrDegenerateMesh), errors.Is(err, ErrInvalidAttributes):
			st.Skipped++
			s.log.Error("mesh excluded from upload",
				zap.String("mesh", m.Name),
				zap.Int("vertices", m.VertexCount()),
				zap.Error(err))
		case err != nil:
			st.Skipped++
			pending = true
			s.log.Error("mesh upload failed", zap.String("mesh", m.Name), zap.Error(err))
		default:
			st.Refreshed++
		}
	})

	sc.VBOsNeedRefresh = pending
	if st.Refreshed > 0 || st.Skipped > 0 {
		s.log.Debug("buffers synchronized",
			zap.Int("refreshed", st.Refreshed),
			zap.Int("skipped", st.Skipped),
			zap.Int("allocations", st.Allocations))
	}
	return st
}

// refresh replaces a mesh's buffers. The new set is only stored, and the
// dirty flag only cleared, once every buffer was created. Excluded meshes
// keep their flag but are not retried until the scene is flagged again.
func (s *Synchronizer) refresh(m *scene.Mesh) (int, error) {
	s.release(m)

	if m.VertexCount() < 3 {
		return 0, ErrDegenerateMesh
	}
	if err := m.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAttributes, err)
	}
	EnsureDerived(m)

	vao, err := s.dev.CreateVertexArray()
	if err != nil {
		return 0, fmt.Errorf("create vertex array: %w", err)
	}
	bufs := gpu.MeshBuffers{VAO: vao}
	allocs := 1

	for slot := gpu.AttribSlot(0); slot < gpu.SlotCount; slot++ {
		data := m.Attribute(slot)
		if len(data) == 0 {
			continue
		}
		vbo, err := s.dev.CreateBuffer(vao, slot, data)
		if err != nil {
			s.free(bufs)
			return allocs, fmt.Errorf("upload %s: %w", slot, err)
		}
		bufs.VBOs[slot] = vbo
		allocs++
	}

	s.bindTexture(m)
	if s.programs != nil {
		m.Material.Program = s.programs.For(m.Material.DrawKind())
	}
	m.Buffers = bufs
	m.NeedsRefresh = false
	return allocs, nil
}

// bindTexture resolves the color texture of a textured material.
func (s *Synchronizer) bindTexture(m *scene.Mesh) {
	path := m.Material.TexturePath()
	if path == "" || m.Material.Texture != 0 || s.textures == nil {
		return
	}
	tex, err := s.textures.Load(s.dev, path, m.Material.TextureSlot)
	if err != nil {
		s.log.Warn("texture unavailable, rendering untextured",
			zap.String("mesh", m.Name), zap.Error(err))
		return
	}
	m.Material.Texture = tex
}

// EnsureDerived fills in missing normals, and tangents and bitangents. Meshes
// without UVs get a zero tangent frame.
func EnsureDerived(m *scene.Mesh) {
	if len(m.Normals) == 0 {
		m.Normals = geometry.DeriveNormals(m.Positions)
	}
	if len(m.Tangents) == 0 || len(m.Bitangents) == 0 {
		if m.HasUVs() {
			m.Tangents, m.Bitangents = geometry.DeriveTangentBitangent(m.Positions, m.Normals, m.UVs)
		} else {
			m.Tangents, m.Bitangents = geometry.ZeroFrame(m.Positions)
		}
	}
}

// release frees a mesh's buffers. Releasing an unallocated mesh is a no-op.
func (s *Synchronizer) release(m *scene.Mesh) {
	s.free(m.Buffers)
	m.Buffers = gpu.MeshBuffers{}
}

func (s *Synchronizer) free(b gpu.MeshBuffers) {
	for _, vbo := range b.VBOs {
		if vbo != 0 {
			s.dev.DeleteBuffer(vbo)
		}
	}
	if b.VAO != 0 {
		s.dev.DeleteVertexArray(b.VAO)
	}
}

// Release frees every mesh's buffers and flags them for re-upload.
func (s *Synchronizer) Release(sc *scene.Scene) {
	if sc == nil {
		return
	}
	sc.EachMesh(func(m *scene.Mesh) {
		s.release(m)
		m.NeedsRefresh = true
	})
	sc.VBOsNeedRefresh = true
}
