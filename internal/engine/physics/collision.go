// Package physics builds world-space collision volumes for scene meshes.
package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/cortex/internal/engine/debug"
	"github.com/Faultbox/cortex/internal/logger"
	"github.com/Faultbox/cortex/internal/scene"
)

// ErrNoEntities is returned when there is no entity to attach boxes to.
var ErrNoEntities = errors.New("scene has no entities")

// BoxColor is the flat color of collision box wireframes.
const BoxColor uint32 = 0xFF3030

// Box is a computed collision volume and the mesh it was computed from.
type Box struct {
	Source string
	Bounds scene.AABB
}

// Builder computes one AABB per regular mesh and adds a wireframe box mesh
// for each. It builds at most once per scene until Reset.
type Builder struct {
	log *zap.Logger

	built       *scene.Scene
	initialized bool
	boxes       []Box
}

// New returns a collision builder.
func New(log *zap.Logger) *Builder {
	return &Builder{log: logger.OrNop(log)}
}

// Build computes the boxes for sc and appends their meshes to the first
// entity. It returns the number of boxes added; a second call for the same
// scene adds nothing.
func (b *Builder) Build(sc *scene.Scene) (int, error) {
	if b.initialized && b.built == sc {
		return 0, nil
	}
	if sc == nil || len(sc.Entities) == 0 {
		return 0, ErrNoEntities
	}

	var boxes []Box
	sc.EachEntityMesh(func(e *scene.Entity, m *scene.Mesh) {
		if m.Type != scene.MeshRegular {
			return
		}
		if m.VertexCount() < 3 {
			b.log.Error("collision box skipped",
				zap.String("mesh", m.Name),
				zap.Int("vertices", m.VertexCount()))
			return
		}
		boxes = append(boxes, Box{
			Source: m.Name,
			Bounds: WorldBounds(m.Positions, e.World.Mul4(m.Model)),
		})
	})

	// Append after the walk so new meshes are not visited.
	owner := sc.Entities[0]
	for _, box := range boxes {
		owner.AddMesh(BoxMesh(box))
	}
	if len(boxes) > 0 {
		sc.VBOsNeedRefresh = true
	}

	b.built = sc
	b.initialized = true
	b.boxes = boxes
	b.log.Info("collision boxes built", zap.Int("boxes", len(boxes)))
	return len(boxes), nil
}

// Boxes returns the volumes from the last Build.
func (b *Builder) Boxes() []Box {
	return b.boxes
}

// Initialized reports whether Build has run for the current scene.
func (b *Builder) Initialized() bool {
	return b.initialized
}

// Reset clears the guard and cached boxes.
func (b *Builder) Reset() {
	b.built = nil
	b.initialized = false
	b.boxes = nil
}

// WorldBounds returns the AABB of positions transformed by world.
func WorldBounds(positions []float32, world mgl32.Mat4) scene.AABB {
	bounds := scene.EmptyAABB()
	for i := 0; i+2 < len(positions); i += 3 {
		p := mgl32.TransformCoordinate(mgl32.Vec3{positions[i], positions[i+1], positions[i+2]}, world)
		bounds.Extend(p)
	}
	return bounds
}

// BoxMesh returns a wireframe collision-box mesh for box. Its vertices are
// already in world space so the model matrix stays identity.
func BoxMesh(box Box) *scene.Mesh {
	m := scene.NewMesh(fmt.Sprintf("%s/collision", box.Source), debug.BoxEdges(box.Bounds))
	m.Material = scene.NewMaterial(scene.Flat{BaseColor: BoxColor})
	m.RenderMode = scene.RenderWireframe
	m.Type = scene.MeshCollisionBox
	return m
}
