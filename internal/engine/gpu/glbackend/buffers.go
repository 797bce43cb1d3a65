package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/cortex/internal/engine/gpu"
)

func (d *Device) CreateVertexArray() (gpu.VertexArray, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, fmt.Errorf("glGenVertexArrays returned 0")
	}
	return gpu.VertexArray(vao), nil
}

func (d *Device) CreateBuffer(vao gpu.VertexArray, slot gpu.AttribSlot, data []float32) (gpu.Buffer, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("create %s buffer: no data", slot)
	}

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	if vbo == 0 {
		return 0, fmt.Errorf("create %s buffer: glGenBuffers returned 0", slot)
	}

	gl.BindVertexArray(uint32(vao))
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	gl.VertexAttribPointer(uint32(slot), slot.Components(), gl.FLOAT, false, slot.Components()*4, nil)
	gl.EnableVertexAttribArray(uint32(slot))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &vbo)
		return 0, fmt.Errorf("create %s buffer: GL error 0x%x", slot, code)
	}
	return gpu.Buffer(vbo), nil
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	if b == 0 {
		return
	}
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) DeleteVertexArray(v gpu.VertexArray) {
	if v == 0 {
		return
	}
	id := uint32(v)
	gl.DeleteVertexArrays(1, &id)
}
