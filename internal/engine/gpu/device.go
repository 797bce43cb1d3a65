// Package gpu defines the graphics device boundary used by the renderer core.
//
// Everything that allocates, binds or draws goes through Device so the
// synchronizer and frame scheduler can run against Recorder in tests. The
// OpenGL implementation lives in the glbackend subpackage. A Device must only
// be used from the thread that owns the graphics context.
package gpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Handle types. The zero value of each means "none".
type (
	VertexArray uint32
	Buffer      uint32
	Program     uint32
	Texture     uint32
)

// AttribSlot is a fixed vertex attribute location.
type AttribSlot uint32

// Attribute slot convention shared by every shader.
const (
	SlotPosition AttribSlot = iota
	SlotUV
	SlotNormal
	SlotTangent
	SlotBitangent

	SlotCount = 5
)

// Components returns the number of floats per vertex for the slot.
func (s AttribSlot) Components() int32 {
	if s == SlotUV {
		return 2
	}
	return 3
}

func (s AttribSlot) String() string {
	switch s {
	case SlotPosition:
		return "position"
	case SlotUV:
		return "uv"
	case SlotNormal:
		return "normal"
	case SlotTangent:
		return "tangent"
	case SlotBitangent:
		return "bitangent"
	}
	return fmt.Sprintf("slot(%d)", uint32(s))
}

// MeshBuffers holds the GPU objects backing one mesh.
type MeshBuffers struct {
	VAO  VertexArray
	VBOs [SlotCount]Buffer
}

// Allocated reports whether a vertex array exists.
func (b MeshBuffers) Allocated() bool {
	return b.VAO != 0
}

// PolygonMode selects how triangles are rasterized.
type PolygonMode int

const (
	PolygonFill PolygonMode = iota
	PolygonLine
)

// Fixed texture units used by textured materials.
const (
	UnitColor  uint32 = 0
	UnitShadow uint32 = 1
)

// Image is decoded pixel data ready for upload. Channels is 1, 3 or 4.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// ProgramSource is the GLSL for one program. Geometry is optional.
type ProgramSource struct {
	Name     string
	Vertex   string
	Fragment string
	Geometry string
}

// ErrUnsupportedUniform is returned when a uniform value is not a 4x4
// matrix, 3x3 matrix or 3-component vector.
var ErrUnsupportedUniform = errors.New("unsupported uniform type")

// CheckUniform validates a uniform value.
func CheckUniform(v any) error {
	switch v.(type) {
	case mgl32.Mat4, mgl32.Mat3, mgl32.Vec3:
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedUniform, v)
}

// Device is the set of graphics operations the renderer core needs.
type Device interface {
	CreateVertexArray() (VertexArray, error)
	// CreateBuffer uploads data once with a static usage hint and binds it
	// to slot on vao.
	CreateBuffer(vao VertexArray, slot AttribSlot, data []float32) (Buffer, error)
	DeleteBuffer(Buffer)
	DeleteVertexArray(VertexArray)

	CreateTexture(img Image) (Texture, error)
	DeleteTexture(Texture)

	// CreateProgram compiles and links src. Sampler uniforms named uTexture
	// and shadowMap are bound to UnitColor and UnitShadow.
	CreateProgram(src ProgramSource) (Program, error)
	DeleteProgram(Program)

	// BeginShadowPass binds the off-screen depth target and clears it.
	BeginShadowPass() error
	EndShadowPass()
	ShadowTexture() Texture
	// BeginColorPass binds the default target and clears color and depth.
	BeginColorPass(width, height int32)

	UseProgram(Program)
	SetUniform(p Program, name string, value any) error
	BindVertexArray(VertexArray)
	BindTexture(unit uint32, tex Texture)
	SetPolygonMode(PolygonMode)
	DrawTriangles(count int32)

	// ReadPixels returns the default framebuffer as tightly packed RGB rows,
	// bottom row first.
	ReadPixels(width, height int32) ([]byte, error)
}
