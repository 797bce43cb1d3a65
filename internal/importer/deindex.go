package importer

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

var (
	// ErrUnsupportedIndexWidth is returned for index accessors that are not
	// 8, 16 or 32-bit unsigned integers.
	ErrUnsupportedIndexWidth = errors.New("unsupported index component type")
	// ErrMissingAccessor is returned when a primitive references an accessor
	// that does not exist or cannot be read.
	ErrMissingAccessor = errors.New("missing or malformed accessor")
)

// readIndices decodes an index accessor after checking its component width.
func readIndices(doc *gltf.Document, idx int) ([]uint32, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	switch acr.ComponentType {
	case gltf.ComponentUbyte, gltf.ComponentUshort, gltf.ComponentUint:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedIndexWidth, acr.ComponentType)
	}
	if acr.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("%w: index accessor %d is %v", ErrMissingAccessor, idx, acr.Type)
	}
	indices, err := modeler.ReadIndices(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: index accessor %d: %v", ErrMissingAccessor, idx, err)
	}
	return indices, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("%w: accessor %d", ErrMissingAccessor, idx)
	}
	return doc.Accessors[idx], nil
}

// checkIndices verifies every index addresses an existing vertex and that
// the list is made of whole triangles.
func checkIndices(indices []uint32, vertexCount int) error {
	if len(indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a whole triangle list", ErrMissingAccessor, len(indices))
	}
	for _, i := range indices {
		if int(i) >= vertexCount {
			return fmt.Errorf("%w: index %d out of range for %d vertices", ErrMissingAccessor, i, vertexCount)
		}
	}
	return nil
}

// expand3 flattens vec3 data into a triangle list, following indices when
// present.
func expand3(data [][3]float32, indices []uint32) []float32 {
	if indices == nil {
		out := make([]float32, 0, len(data)*3)
		for _, v := range data {
			out = append(out, v[0], v[1], v[2])
		}
		return out
	}
	out := make([]float32, 0, len(indices)*3)
	for _, i := range indices {
		v := data[i]
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// expand4to3 drops the handedness component of glTF tangents.
func expand4to3(data [][4]float32, indices []uint32) []float32 {
	tmp := make([][3]float32, len(data))
	for i, v := range data {
		tmp[i] = [3]float32{v[0], v[1], v[2]}
	}
	return expand3(tmp, indices)
}

func expand2(data [][2]float32, indices []uint32) []float32 {
	if indices == nil {
		out := make([]float32, 0, len(data)*2)
		for _, v := range data {
			out = append(out, v[0], v[1])
		}
		return out
	}
	out := make([]float32, 0, len(indices)*2)
	for _, i := range indices {
		v := data[i]
		out = append(out, v[0], v[1])
	}
	return out
}
