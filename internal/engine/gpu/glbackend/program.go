package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cortex/internal/engine/gpu"
)

// Sampler uniforms bound once at link time.
var samplerUnits = map[string]uint32{
	"uTexture":  gpu.UnitColor,
	"shadowMap": gpu.UnitShadow,
}

// CreateProgram compiles the vertex, fragment and optional geometry stages
// and links them.
func (d *Device) CreateProgram(src gpu.ProgramSource) (gpu.Program, error) {
	stages := []struct {
		source string
		kind   uint32
		name   string
	}{
		{src.Vertex, gl.VERTEX_SHADER, "vertex"},
		{src.Fragment, gl.FRAGMENT_SHADER, "fragment"},
		{src.Geometry, gl.GEOMETRY_SHADER, "geometry"},
	}

	program := gl.CreateProgram()
	for _, st := range stages {
		if st.source == "" {
			continue
		}
		sh, err := compileShader(st.source, st.kind, st.name)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, fmt.Errorf("program %s: %w", src.Name, err)
		}
		gl.AttachShader(program, sh)
		defer gl.DeleteShader(sh)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("program %s: link: %s", src.Name, gl.GoStr(&log[0]))
	}

	for name, unit := range samplerUnits {
		if loc := gl.GetUniformLocation(program, gl.Str(name+"\x00")); loc >= 0 {
			gl.ProgramUniform1i(program, loc, int32(unit))
		}
	}
	return gpu.Program(program), nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, gl.GoStr(&log[0]))
	}
	return shader, nil
}

func (d *Device) DeleteProgram(p gpu.Program) {
	if p == 0 {
		return
	}
	delete(d.uniforms, p)
	gl.DeleteProgram(uint32(p))
}

func (d *Device) UseProgram(p gpu.Program) {
	gl.UseProgram(uint32(p))
}

// location returns the cached uniform location; -1 means inactive.
func (d *Device) location(p gpu.Program, name string) int32 {
	locs, ok := d.uniforms[p]
	if !ok {
		locs = make(map[string]int32)
		d.uniforms[p] = locs
	}
	loc, ok := locs[name]
	if !ok {
		loc = gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
		locs[name] = loc
	}
	return loc
}

// SetUniform uploads a 4x4 matrix, 3x3 matrix or 3-vector. Uniforms the
// program does not use are ignored.
func (d *Device) SetUniform(p gpu.Program, name string, value any) error {
	if err := gpu.CheckUniform(value); err != nil {
		return fmt.Errorf("uniform %s: %w", name, err)
	}
	loc := d.location(p, name)
	if loc < 0 {
		return nil
	}
	switch v := value.(type) {
	case mgl32.Mat4:
		gl.ProgramUniformMatrix4fv(uint32(p), loc, 1, false, &v[0])
	case mgl32.Mat3:
		gl.ProgramUniformMatrix3fv(uint32(p), loc, 1, false, &v[0])
	case mgl32.Vec3:
		gl.ProgramUniform3fv(uint32(p), loc, 1, &v[0])
	}
	return nil
}
