package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cortex/internal/engine/gpu"
)

// RenderMode selects polygon fill for a mesh.
type RenderMode int

const (
	RenderFilled RenderMode = iota
	RenderWireframe
)

// MeshType classifies a mesh for the passes that treat them differently.
type MeshType int

const (
	MeshRegular MeshType = iota
	MeshCollisionBox
	MeshSky
)

func (t MeshType) String() string {
	switch t {
	case MeshCollisionBox:
		return "collision-box"
	case MeshSky:
		return "sky"
	}
	return "regular"
}

// Mesh is a de-indexed triangle list with parallel attribute arrays.
// Positions, normals, tangents and bitangents hold 3 floats per vertex, UVs 2.
type Mesh struct {
	Name string

	Positions  []float32
	Normals    []float32
	Tangents   []float32
	Bitangents []float32
	UVs        []float32

	Model      mgl32.Mat4
	Material   Material
	RenderMode RenderMode
	Type       MeshType

	// NeedsRefresh marks Buffers as stale.
	NeedsRefresh bool
	Buffers      gpu.MeshBuffers
}

// NewMesh returns a regular filled mesh with an identity model matrix and a
// flat material, flagged for upload.
func NewMesh(name string, positions []float32) *Mesh {
	return &Mesh{
		Name:         name,
		Positions:    positions,
		Model:        mgl32.Ident4(),
		Material:     NewMaterial(Flat{BaseColor: DefaultBaseColor}),
		NeedsRefresh: true,
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// HasUVs reports whether the mesh carries texture coordinates for every vertex.
func (m *Mesh) HasUVs() bool {
	return len(m.UVs) > 0 && len(m.UVs) == m.VertexCount()*2
}

// Attribute returns the array bound to slot.
func (m *Mesh) Attribute(slot gpu.AttribSlot) []float32 {
	switch slot {
	case gpu.SlotPosition:
		return m.Positions
	case gpu.SlotUV:
		return m.UVs
	case gpu.SlotNormal:
		return m.Normals
	case gpu.SlotTangent:
		return m.Tangents
	case gpu.SlotBitangent:
		return m.Bitangents
	}
	return nil
}

// Validate checks the attribute length invariants.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("mesh %s: %d position floats is not a multiple of 3", m.Name, len(m.Positions))
	}
	n := m.VertexCount()
	for _, slot := range []gpu.AttribSlot{gpu.SlotNormal, gpu.SlotTangent, gpu.SlotBitangent, gpu.SlotUV} {
		a := m.Attribute(slot)
		if len(a) != 0 && len(a) != n*int(slot.Components()) {
			return fmt.Errorf("mesh %s: %s has %d floats, want %d", m.Name, slot, len(a), n*int(slot.Components()))
		}
	}
	return nil
}
