package scene

import "github.com/go-gl/mathgl/mgl32"

// Entity is a world transform plus the meshes drawn with it.
type Entity struct {
	Name   string
	World  mgl32.Mat4
	Meshes []*Mesh
}

// NewEntity returns an entity at the origin.
func NewEntity(name string, meshes ...*Mesh) *Entity {
	return &Entity{Name: name, World: mgl32.Ident4(), Meshes: meshes}
}

// AddMesh appends a mesh.
func (e *Entity) AddMesh(m *Mesh) {
	e.Meshes = append(e.Meshes, m)
}
