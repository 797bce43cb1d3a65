// Package scene holds the in-memory scene graph shared by the renderer core.
//
// Ownership is single-parent: a Scene owns its entities, lights and camera,
// an Entity owns its meshes and a Mesh owns its material. The scene carries
// no GPU behavior; the handles stored on meshes are plain data written by the
// synchronizer.
package scene

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned by Ready when a frame cannot be drawn.
var ErrNotReady = errors.New("scene not ready")

// Scene is the root of the scene graph.
type Scene struct {
	Entities []*Entity
	Lights   []*Light
	Camera   *Camera

	// VBOsNeedRefresh gates the synchronizer. It is set whenever meshes are
	// added or marked dirty.
	VBOsNeedRefresh bool
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// AddEntity appends an entity and flags its meshes for upload.
func (s *Scene) AddEntity(e *Entity) {
	s.Entities = append(s.Entities, e)
	s.VBOsNeedRefresh = true
}

// AddLight appends a light and flags its visualizer for upload.
func (s *Scene) AddLight(l *Light) {
	s.Lights = append(s.Lights, l)
	s.VBOsNeedRefresh = true
}

// Ready reports whether the scene has everything a frame needs.
func (s *Scene) Ready() error {
	switch {
	case s.Camera == nil:
		return fmt.Errorf("%w: no camera", ErrNotReady)
	case len(s.Lights) == 0:
		return fmt.Errorf("%w: no lights", ErrNotReady)
	case len(s.Entities) == 0:
		return fmt.Errorf("%w: no entities", ErrNotReady)
	}
	return nil
}

// PrimaryLight returns the first light, or nil.
func (s *Scene) PrimaryLight() *Light {
	if len(s.Lights) == 0 {
		return nil
	}
	return s.Lights[0]
}

// EachEntityMesh calls fn for every entity mesh with its owning entity, in
// draw order.
func (s *Scene) EachEntityMesh(fn func(e *Entity, m *Mesh)) {
	for _, e := range s.Entities {
		for _, m := range e.Meshes {
			fn(e, m)
		}
	}
}

// EachMesh calls fn for every mesh, entity meshes first, then light
// visualizers.
func (s *Scene) EachMesh(fn func(m *Mesh)) {
	s.EachEntityMesh(func(_ *Entity, m *Mesh) { fn(m) })
	for _, l := range s.Lights {
		for _, m := range l.Visualizer {
			fn(m)
		}
	}
}

// MeshCount returns the number of meshes including light visualizers.
func (s *Scene) MeshCount() int {
	n := 0
	s.EachMesh(func(*Mesh) { n++ })
	return n
}

// MarkAllDirty flags every mesh for re-upload.
func (s *Scene) MarkAllDirty() {
	s.EachMesh(func(m *Mesh) { m.NeedsRefresh = true })
	s.VBOsNeedRefresh = true
}
