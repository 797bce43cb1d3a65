package gpu

import (
	"errors"
	"fmt"
)

// ErrInjected is returned by Recorder when a failure was requested.
var ErrInjected = errors.New("injected device failure")

// Pass identifies which render pass a draw was issued in.
type Pass int

const (
	PassNone Pass = iota
	PassShadow
	PassColor
)

// DrawCall is one recorded draw.
type DrawCall struct {
	Pass     Pass
	Program  Program
	VAO      VertexArray
	Count    int32
	Mode     PolygonMode
	Textures map[uint32]Texture
	Uniforms map[string]any
}

// Recorder is an in-memory Device that records every call. It never touches
// a graphics context and is safe to use in tests.
type Recorder struct {
	VertexArraysCreated int
	BuffersCreated      int
	TexturesCreated     int
	ProgramsCreated     int
	Deleted             int
	Draws               []DrawCall
	Slots               map[VertexArray][]AttribSlot
	UniformErrors       int

	// FailBufferAfter makes CreateBuffer fail once this many buffers have
	// been created. Negative disables the failure.
	FailBufferAfter int
	// FailShadowPass makes BeginShadowPass fail.
	FailShadowPass bool
	// FailProgram makes CreateProgram fail for the named program.
	FailProgram string
	// Sources holds every program source passed to CreateProgram.
	Sources map[Program]ProgramSource

	next     uint32
	live     map[uint32]string
	pass     Pass
	program  Program
	vao      VertexArray
	mode     PolygonMode
	textures map[uint32]Texture
	uniforms map[Program]map[string]any
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		FailBufferAfter: -1,
		Slots:           make(map[VertexArray][]AttribSlot),
		Sources:         make(map[Program]ProgramSource),
		live:            make(map[uint32]string),
		textures:        make(map[uint32]Texture),
		uniforms:        make(map[Program]map[string]any),
	}
}

func (r *Recorder) alloc(kind string) uint32 {
	r.next++
	r.live[r.next] = kind
	return r.next
}

func (r *Recorder) free(h uint32) {
	if h == 0 {
		return
	}
	if _, ok := r.live[h]; ok {
		delete(r.live, h)
		r.Deleted++
	}
}

// Live returns the number of allocated objects not yet deleted.
func (r *Recorder) Live() int {
	return len(r.live)
}

// Allocations returns the total number of objects ever created.
func (r *Recorder) Allocations() int {
	return r.VertexArraysCreated + r.BuffersCreated + r.TexturesCreated
}

// DrawsIn returns the draws recorded during pass.
func (r *Recorder) DrawsIn(pass Pass) []DrawCall {
	var out []DrawCall
	for _, d := range r.Draws {
		if d.Pass == pass {
			out = append(out, d)
		}
	}
	return out
}

// ResetDraws clears recorded draw calls.
func (r *Recorder) ResetDraws() {
	r.Draws = nil
}

func (r *Recorder) CreateVertexArray() (VertexArray, error) {
	r.VertexArraysCreated++
	return VertexArray(r.alloc("vao")), nil
}

func (r *Recorder) CreateBuffer(vao VertexArray, slot AttribSlot, data []float32) (Buffer, error) {
	if r.FailBufferAfter >= 0 && r.BuffersCreated >= r.FailBufferAfter {
		return 0, fmt.Errorf("create %s buffer: %w", slot, ErrInjected)
	}
	if _, ok := r.live[uint32(vao)]; !ok {
		return 0, fmt.Errorf("create %s buffer: unknown vertex array %d", slot, vao)
	}
	r.BuffersCreated++
	r.Slots[vao] = append(r.Slots[vao], slot)
	return Buffer(r.alloc("vbo")), nil
}

func (r *Recorder) DeleteBuffer(b Buffer) { r.free(uint32(b)) }

func (r *Recorder) DeleteVertexArray(v VertexArray) {
	delete(r.Slots, v)
	r.free(uint32(v))
}

func (r *Recorder) CreateTexture(img Image) (Texture, error) {
	if img.Width <= 0 || img.Height <= 0 {
		return 0, fmt.Errorf("create texture: empty image %dx%d", img.Width, img.Height)
	}
	r.TexturesCreated++
	return Texture(r.alloc("texture")), nil
}

func (r *Recorder) DeleteTexture(t Texture) { r.free(uint32(t)) }

func (r *Recorder) CreateProgram(src ProgramSource) (Program, error) {
	if src.Vertex == "" || src.Fragment == "" {
		return 0, fmt.Errorf("create program %s: missing stage source", src.Name)
	}
	if r.FailProgram != "" && r.FailProgram == src.Name {
		return 0, fmt.Errorf("create program %s: %w", src.Name, ErrInjected)
	}
	r.ProgramsCreated++
	p := Program(r.alloc("program"))
	r.Sources[p] = src
	return p, nil
}

func (r *Recorder) DeleteProgram(p Program) {
	delete(r.Sources, p)
	r.free(uint32(p))
}

func (r *Recorder) BeginShadowPass() error {
	if r.FailShadowPass {
		return fmt.Errorf("bind shadow target: %w", ErrInjected)
	}
	r.pass = PassShadow
	return nil
}

func (r *Recorder) EndShadowPass() { r.pass = PassNone }

// ShadowTexture returns a fixed fake depth texture handle.
func (r *Recorder) ShadowTexture() Texture { return Texture(0xDEAD) }

func (r *Recorder) BeginColorPass(width, height int32) {
	r.pass = PassColor
	r.textures = make(map[uint32]Texture)
}

func (r *Recorder) UseProgram(p Program) { r.program = p }

func (r *Recorder) SetUniform(p Program, name string, value any) error {
	if err := CheckUniform(value); err != nil {
		r.UniformErrors++
		return err
	}
	if r.uniforms[p] == nil {
		r.uniforms[p] = make(map[string]any)
	}
	r.uniforms[p][name] = value
	return nil
}

// Uniform returns the last value uploaded for name on program p.
func (r *Recorder) Uniform(p Program, name string) (any, bool) {
	v, ok := r.uniforms[p][name]
	return v, ok
}

func (r *Recorder) BindVertexArray(v VertexArray) { r.vao = v }

func (r *Recorder) BindTexture(unit uint32, tex Texture) { r.textures[unit] = tex }

func (r *Recorder) SetPolygonMode(m PolygonMode) { r.mode = m }

func (r *Recorder) DrawTriangles(count int32) {
	textures := make(map[uint32]Texture, len(r.textures))
	for k, v := range r.textures {
		textures[k] = v
	}
	uniforms := make(map[string]any, len(r.uniforms[r.program]))
	for k, v := range r.uniforms[r.program] {
		uniforms[k] = v
	}
	r.Draws = append(r.Draws, DrawCall{
		Pass:     r.pass,
		Program:  r.program,
		VAO:      r.vao,
		Count:    count,
		Mode:     r.mode,
		Textures: textures,
		Uniforms: uniforms,
	})
}

func (r *Recorder) ReadPixels(width, height int32) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("read pixels: invalid size %dx%d", width, height)
	}
	return make([]byte, int(width)*int(height)*3), nil
}

var _ Device = (*Recorder)(nil)
