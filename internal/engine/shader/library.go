package shader

import (
	"fmt"

	"github.com/Faultbox/cortex/internal/engine/gpu"
	"github.com/Faultbox/cortex/internal/scene"
)

// Kinds lists every material kind a Library compiles a program for.
var Kinds = []scene.MaterialKind{
	scene.KindPBR,
	scene.KindPBRTextured,
	scene.KindPhong,
	scene.KindPhongTextured,
	scene.KindFlat,
	scene.KindFlatTextured,
}

// Library owns the shadow program and one color program per material kind.
type Library struct {
	Shadow   gpu.Program
	programs map[scene.MaterialKind]gpu.Program
}

// Load compiles every program on dev. On failure the programs created so
// far are deleted.
func Load(dev gpu.Device) (*Library, error) {
	lib := &Library{programs: make(map[scene.MaterialKind]gpu.Program, len(Kinds))}

	shadow, err := programSource("shadow", "shadow.vert", "shadow.frag")
	if err != nil {
		return nil, err
	}
	if lib.Shadow, err = dev.CreateProgram(shadow); err != nil {
		return nil, fmt.Errorf("compile shadow program: %w", err)
	}

	vert, err := Source("mesh.vert")
	if err != nil {
		lib.Release(dev)
		return nil, err
	}
	frag, err := Source("mesh.frag")
	if err != nil {
		lib.Release(dev)
		return nil, err
	}
	for _, kind := range Kinds {
		p, err := dev.CreateProgram(gpu.ProgramSource{
			Name:     kind.String(),
			Vertex:   vert,
			Fragment: Variant(frag, Defines(kind)...),
		})
		if err != nil {
			lib.Release(dev)
			return nil, fmt.Errorf("compile %s program: %w", kind, err)
		}
		lib.programs[kind] = p
	}
	return lib, nil
}

func programSource(name, vert, frag string) (gpu.ProgramSource, error) {
	v, err := Source(vert)
	if err != nil {
		return gpu.ProgramSource{}, err
	}
	f, err := Source(frag)
	if err != nil {
		return gpu.ProgramSource{}, err
	}
	return gpu.ProgramSource{Name: name, Vertex: v, Fragment: f}, nil
}

// For returns the color program for kind.
func (l *Library) For(kind scene.MaterialKind) gpu.Program {
	return l.programs[kind]
}

// Release deletes every program.
func (l *Library) Release(dev gpu.Device) {
	if l.Shadow != 0 {
		dev.DeleteProgram(l.Shadow)
		l.Shadow = 0
	}
	for kind, p := range l.programs {
		dev.DeleteProgram(p)
		delete(l.programs, kind)
	}
}
