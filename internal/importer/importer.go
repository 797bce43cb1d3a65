// Package importer flattens glTF 2.0 scene files into scene meshes.
package importer

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/cortex/internal/logger"
	"github.com/Faultbox/cortex/internal/scene"
)

// Tier is the shading model imported materials are mapped to.
type Tier int

const (
	TierPBR Tier = iota
	TierPhong
	TierFlat
)

// ParseTier maps a config name to a Tier. Unknown names map to TierPBR.
func ParseTier(name string) Tier {
	switch name {
	case "phong":
		return TierPhong
	case "flat":
		return TierFlat
	}
	return TierPBR
}

// Importer converts glTF documents into meshes. Several importers may share
// one SlotCounter and run concurrently.
type Importer struct {
	Slots *SlotCounter
	Tier  Tier
	Log   *zap.Logger
}

// New returns an importer claiming texture slots from slots.
func New(slots *SlotCounter, tier Tier, log *zap.Logger) *Importer {
	if slots == nil {
		slots = &SlotCounter{}
	}
	return &Importer{Slots: slots, Tier: tier, Log: logger.OrNop(log)}
}

// ImportScene opens a .gltf or .glb file and returns its meshes with their
// global node transforms as model matrices. Skipped primitives are logged
// and left out of the result.
func (im *Importer) ImportScene(path string) ([]*scene.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene %s: %w", path, err)
	}
	return im.ImportDocument(doc, filepath.Dir(path))
}

// ImportEntity imports path and wraps the meshes in an entity at the origin.
func (im *Importer) ImportEntity(path string) (*scene.Entity, error) {
	meshes, err := im.ImportScene(path)
	if err != nil {
		return nil, err
	}
	return scene.NewEntity(filepath.Base(path), meshes...), nil
}

// ImportDocument walks an already decoded document. Texture paths are
// resolved against baseDir.
func (im *Importer) ImportDocument(doc *gltf.Document, baseDir string) ([]*scene.Mesh, error) {
	log := logger.OrNop(im.Log)
	if im.Slots == nil {
		im.Slots = &SlotCounter{}
	}

	w := &walker{
		im:      im,
		doc:     doc,
		baseDir: baseDir,
		log:     log,
		visited: make([]bool, len(doc.Nodes)),
		slots:   make(map[string]int32),
	}
	for _, root := range rootNodes(doc) {
		w.visit(root, mgl32.Ident4())
	}

	log.Info("scene imported",
		zap.String("dir", baseDir),
		zap.Int("meshes", len(w.meshes)),
		zap.Int("skipped_primitives", w.skipped))
	return w.meshes, nil
}

type walker struct {
	im      *Importer
	doc     *gltf.Document
	baseDir string
	log     *zap.Logger

	visited []bool
	slots   map[string]int32
	meshes  []*scene.Mesh
	skipped int
}

// visit imports node idx and its subtree depth first.
func (w *walker) visit(idx int, parent mgl32.Mat4) {
	if idx < 0 || idx >= len(w.doc.Nodes) || w.doc.Nodes[idx] == nil {
		w.log.Warn("node reference out of range", zap.Int("node", idx))
		return
	}
	if w.visited[idx] {
		w.log.Warn("node visited twice, cycle or shared child ignored", zap.Int("node", idx))
		return
	}
	w.visited[idx] = true

	node := w.doc.Nodes[idx]
	global := parent.Mul4(localTransform(node))

	if node.Mesh != nil {
		w.meshes = append(w.meshes, w.importMesh(*node.Mesh, global)...)
	}
	for _, c := range node.Children {
		w.visit(c, global)
	}
}

// importMesh converts every primitive of a glTF mesh. An unsupported index
// width empties the whole mesh.
func (w *walker) importMesh(idx int, global mgl32.Mat4) []*scene.Mesh {
	if idx < 0 || idx >= len(w.doc.Meshes) || w.doc.Meshes[idx] == nil {
		w.log.Warn("mesh reference out of range", zap.Int("mesh", idx))
		return nil
	}
	gm := w.doc.Meshes[idx]
	name := gm.Name
	if name == "" {
		name = "mesh#" + strconv.Itoa(idx)
	}

	var out []*scene.Mesh
	for pi, prim := range gm.Primitives {
		primName := name + "/" + strconv.Itoa(pi)
		m, err := w.importPrimitive(prim, primName)
		switch {
		case errors.Is(err, ErrUnsupportedIndexWidth):
			w.log.Error("mesh dropped", zap.String("mesh", name), zap.Error(err))
			w.skipped += len(gm.Primitives)
			return nil
		case err != nil:
			w.log.Warn("primitive skipped", zap.String("mesh", primName), zap.Error(err))
			w.skipped++
			continue
		}
		m.Model = global
		out = append(out, m)
	}
	return out
}

func (w *walker) importPrimitive(prim *gltf.Primitive, name string) (*scene.Mesh, error) {
	if prim == nil {
		return nil, fmt.Errorf("%w: nil primitive", ErrMissingAccessor)
	}
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("primitive mode %v is not a triangle list", prim.Mode)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("%w: no POSITION attribute", ErrMissingAccessor)
	}
	posAcr, err := accessor(w.doc, posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(w.doc, posAcr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: positions: %v", ErrMissingAccessor, err)
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = readIndices(w.doc, *prim.Indices); err != nil {
			return nil, err
		}
		if err := checkIndices(indices, len(positions)); err != nil {
			return nil, err
		}
	} else if len(positions)%3 != 0 {
		return nil, fmt.Errorf("%w: %d vertices is not a whole triangle list", ErrMissingAccessor, len(positions))
	}

	m := scene.NewMesh(name, expand3(positions, indices))

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := readVec3(w.doc, idx, len(positions), modeler.ReadNormal)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		m.Normals = expand3(normals, indices)
	}
	if idx, ok := prim.Attributes[gltf.TANGENT]; ok {
		acr, err := accessor(w.doc, idx)
		if err != nil {
			return nil, fmt.Errorf("tangents: %w", err)
		}
		tangents, err := modeler.ReadTangent(w.doc, acr, nil)
		if err != nil || len(tangents) != len(positions) {
			return nil, fmt.Errorf("%w: tangents", ErrMissingAccessor)
		}
		m.Tangents = expand4to3(tangents, indices)
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := accessor(w.doc, idx)
		if err != nil {
			return nil, fmt.Errorf("uvs: %w", err)
		}
		uvs, err := modeler.ReadTextureCoord(w.doc, acr, nil)
		if err != nil || len(uvs) != len(positions) {
			return nil, fmt.Errorf("%w: uvs", ErrMissingAccessor)
		}
		m.UVs = expand2(uvs, indices)
	}

	m.Material = w.material(prim.Material, name)
	return m, nil
}

func readVec3(doc *gltf.Document, idx, want int, read func(*gltf.Document, *gltf.Accessor, [][3]float32) ([][3]float32, error)) ([][3]float32, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := read(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingAccessor, err)
	}
	if len(data) != want {
		return nil, fmt.Errorf("%w: %d elements, want %d", ErrMissingAccessor, len(data), want)
	}
	return data, nil
}

// imagePath resolves a texture index to a file path relative to the scene
// directory. Embedded images return "".
func (w *walker) imagePath(texIdx int) string {
	if texIdx < 0 || texIdx >= len(w.doc.Textures) || w.doc.Textures[texIdx] == nil {
		return ""
	}
	src := w.doc.Textures[texIdx].Source
	if src == nil || *src < 0 || *src >= len(w.doc.Images) || w.doc.Images[*src] == nil {
		return ""
	}
	img := w.doc.Images[*src]
	if img.URI == "" || img.IsEmbeddedResource() {
		return ""
	}
	uri, err := url.PathUnescape(img.URI)
	if err != nil {
		uri = img.URI
	}
	return filepath.Join(w.baseDir, filepath.FromSlash(uri))
}

// claimSlot returns the texture slot for path, claiming a new one the first
// time a path is seen in this import.
func (w *walker) claimSlot(path string) int32 {
	if slot, ok := w.slots[path]; ok {
		return slot
	}
	slot := w.im.Slots.Claim()
	w.slots[path] = slot
	return slot
}
