// Package glbackend implements gpu.Device on OpenGL 4.1 core.
//
// Every method must be called from the thread that owns the GL context.
package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/cortex/internal/engine/gpu"
	"github.com/Faultbox/cortex/internal/logger"
)

// Device issues GL calls for the renderer core.
type Device struct {
	log *zap.Logger

	shadow   *shadowMap
	uniforms map[gpu.Program]map[string]int32
}

// New initializes OpenGL and allocates the shadow depth target. It must be
// called after the GL context is made current.
func New(shadowResolution int32, log *zap.Logger) (*Device, error) {
	log = logger.OrNop(log)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	sm, err := newShadowMap(shadowResolution)
	if err != nil {
		return nil, err
	}
	log.Debug("shadow map created", zap.Int32("resolution", sm.resolution))

	return &Device{
		log:      log,
		shadow:   sm,
		uniforms: make(map[gpu.Program]map[string]int32),
	}, nil
}

// Close releases the shadow target.
func (d *Device) Close() {
	d.shadow.destroy()
}

func (d *Device) BeginShadowPass() error {
	if !d.shadow.valid() {
		return fmt.Errorf("shadow map not available")
	}
	d.shadow.bind()
	return nil
}

func (d *Device) EndShadowPass() {
	d.shadow.unbind()
}

func (d *Device) ShadowTexture() gpu.Texture {
	return gpu.Texture(d.shadow.depthTexture)
}

func (d *Device) BeginColorPass(width, height int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, width, height)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) BindVertexArray(v gpu.VertexArray) {
	gl.BindVertexArray(uint32(v))
}

func (d *Device) BindTexture(unit uint32, tex gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

func (d *Device) SetPolygonMode(m gpu.PolygonMode) {
	if m == gpu.PolygonLine {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

func (d *Device) DrawTriangles(count int32) {
	gl.DrawArrays(gl.TRIANGLES, 0, count)
}

func (d *Device) ReadPixels(width, height int32) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("read pixels: invalid size %dx%d", width, height)
	}
	pixels := make([]byte, int(width)*int(height)*3)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if code := gl.GetError(); code != gl.NO_ERROR {
		return nil, fmt.Errorf("read pixels: GL error 0x%x", code)
	}
	return pixels, nil
}

var _ gpu.Device = (*Device)(nil)
