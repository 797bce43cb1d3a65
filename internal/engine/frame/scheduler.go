// Package frame drives the per-frame update, upload and draw sequence.
package frame

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/cortex/internal/engine/animation"
	"github.com/Faultbox/cortex/internal/engine/gpu"
	"github.com/Faultbox/cortex/internal/engine/gpusync"
	"github.com/Faultbox/cortex/internal/engine/physics"
	"github.com/Faultbox/cortex/internal/engine/shader"
	"github.com/Faultbox/cortex/internal/engine/shadow"
	"github.com/Faultbox/cortex/internal/logger"
	"github.com/Faultbox/cortex/internal/scene"
)

// InputHandler applies pending input to the scene before it is drawn. now
// is the frame time and dt the seconds since the previous frame.
type InputHandler interface {
	HandleInput(sc *scene.Scene, now time.Duration, dt float32)
}

// Presenter owns the default framebuffer.
type Presenter interface {
	Size() (width, height int32)
	Present()
}

// Config holds the camera projection settings.
type Config struct {
	FOVDegrees float32
	Near       float32
	Far        float32
}

// DefaultConfig returns a 90 degree projection from 0.01 to 10000.
func DefaultConfig() Config {
	return Config{FOVDegrees: 90, Near: 0.01, Far: 10000}
}

// Deps are the collaborators of a Scheduler. Collision and Input may be nil.
type Deps struct {
	Device    gpu.Device
	Programs  *shader.Library
	Sync      *gpusync.Synchronizer
	Collision *physics.Builder
	Input     InputHandler
	Presenter Presenter
	Log       *zap.Logger
}

// Stats describes one frame.
type Stats struct {
	Rendered    bool
	ShadowDraws int
	ColorDraws  int
	Skipped     int
}

// Scheduler renders frames of one scene at a time. It must run on the
// thread that owns the graphics context.
type Scheduler struct {
	cfg  Config
	deps Deps
	log  *zap.Logger

	sc        *scene.Scene
	last      time.Duration
	started   bool
	wireframe bool
	notReady  bool
	warned    map[*scene.Mesh]bool
}

// New returns a scheduler with no scene.
func New(cfg Config, deps Deps) *Scheduler {
	if cfg.FOVDegrees <= 0 {
		cfg = DefaultConfig()
	}
	if deps.Sync != nil && deps.Programs != nil {
		deps.Sync.SetPrograms(deps.Programs)
	}
	return &Scheduler{
		cfg:    cfg,
		deps:   deps,
		log:    logger.OrNop(deps.Log),
		warned: make(map[*scene.Mesh]bool),
	}
}

// Scene returns the scene being rendered.
func (s *Scheduler) Scene() *scene.Scene {
	return s.sc
}

// SetScene replaces the rendered scene between frames. GPU objects of the
// previous scene are released and the collision guard is reset.
func (s *Scheduler) SetScene(sc *scene.Scene) {
	if s.sc != nil && s.sc != sc && s.deps.Sync != nil {
		s.deps.Sync.Release(s.sc)
	}
	if s.deps.Collision != nil {
		s.deps.Collision.Reset()
	}
	s.sc = sc
	s.started = false
	s.notReady = false
	s.warned = make(map[*scene.Mesh]bool)
}

// Wireframe reports whether every mesh is drawn as lines.
func (s *Scheduler) Wireframe() bool {
	return s.wireframe
}

// ToggleWireframe flips the global wireframe override.
func (s *Scheduler) ToggleWireframe() bool {
	s.wireframe = !s.wireframe
	return s.wireframe
}

// RenderFrame runs one frame at application time now.
func (s *Scheduler) RenderFrame(now time.Duration) Stats {
	var st Stats
	sc := s.sc

	// 1. readiness
	if sc == nil {
		s.skip("frame skipped", scene.ErrNotReady)
		return st
	}
	if err := sc.Ready(); err != nil {
		s.skip("frame skipped", err)
		return st
	}
	if s.notReady {
		s.log.Info("scene ready, rendering resumed")
		s.notReady = false
	}

	// 2. delta time
	var dt float32
	if s.started {
		dt = float32((now - s.last).Seconds())
	}
	s.last, s.started = now, true

	// 3. input
	if s.deps.Input != nil {
		s.deps.Input.HandleInput(sc, now, dt)
	}

	// 4. camera path and collision volumes
	s.advancePath(sc.Camera, now)
	if s.deps.Collision != nil {
		if _, err := s.deps.Collision.Build(sc); err != nil {
			s.log.Error("collision build failed", zap.Error(err))
		}
	}

	// 5. upload
	if sc.VBOsNeedRefresh && s.deps.Sync != nil {
		s.deps.Sync.Sync(sc)
	}

	light := sc.PrimaryLight()
	lightSpace := shadow.LightSpaceMatrix(light)

	// 6. shadow pass
	s.shadowPass(sc, lightSpace, &st)

	// 7. color target and camera
	width, height := int32(1), int32(1)
	if s.deps.Presenter != nil {
		width, height = s.deps.Presenter.Size()
	}
	s.deps.Device.BeginColorPass(width, height)
	aspect := float32(width) / float32(max(height, 1))
	sc.Camera.UpdateMatrices(mgl32.DegToRad(s.cfg.FOVDegrees), aspect, s.cfg.Near, s.cfg.Far)
	view, _ := sc.Camera.View()
	proj, _ := sc.Camera.Projection()

	fu := frameUniforms{
		View:          view,
		Projection:    proj,
		LightSpace:    lightSpace,
		LightColor:    light.RGB().Mul(LightIntensity),
		LightPosition: light.Position(),
		ViewPos:       sc.Camera.Position,
	}

	// 8. entity meshes
	sc.EachEntityMesh(func(e *scene.Entity, m *scene.Mesh) {
		fu.Model = e.World.Mul4(m.Model)
		s.drawColor(m, fu, &st)
	})

	// 9. light visualizers
	fu.LightPosition = mgl32.Vec3{}
	for _, l := range sc.Lights {
		for _, m := range l.Visualizer {
			fu.Model = l.Matrix.Mul4(m.Model)
			s.drawColor(m, fu, &st)
		}
	}

	// 10. present
	if s.deps.Presenter != nil {
		s.deps.Presenter.Present()
	}
	st.Rendered = true
	return st
}

// skip logs the first rejected frame of a run of rejections.
func (s *Scheduler) skip(msg string, err error) {
	s.started = false
	if !s.notReady {
		s.log.Warn(msg, zap.Error(err))
		s.notReady = true
	}
}

func (s *Scheduler) advancePath(cam *scene.Camera, now time.Duration) {
	if cam.Path == nil || cam.Path.State() != animation.StatePlaying {
		return
	}
	sample, ok := cam.Path.Tick(now.Seconds())
	if !ok {
		return
	}
	cam.Position = sample.Position
	cam.Look = sample.Look
	if sample.Finished {
		s.log.Info("camera path finished", zap.Int("checkpoints", cam.Path.Len()))
	}
}

func (s *Scheduler) shadowPass(sc *scene.Scene, lightSpace mgl32.Mat4, st *Stats) {
	dev := s.deps.Device
	if err := dev.BeginShadowPass(); err != nil {
		s.log.Error("shadow pass skipped", zap.Error(err))
		return
	}
	defer dev.EndShadowPass()

	prog := s.deps.Programs.Shadow
	dev.UseProgram(prog)
	s.setUniform(prog, uLightSpace, lightSpace)
	dev.SetPolygonMode(gpu.PolygonFill)

	sc.EachEntityMesh(func(e *scene.Entity, m *scene.Mesh) {
		if m.Type == scene.MeshCollisionBox || !s.drawable(m, st) {
			return
		}
		s.setUniform(prog, uModel, e.World.Mul4(m.Model))
		dev.BindVertexArray(m.Buffers.VAO)
		dev.DrawTriangles(int32(m.VertexCount()))
		st.ShadowDraws++
	})
}

func (s *Scheduler) drawColor(m *scene.Mesh, fu frameUniforms, st *Stats) {
	if !s.drawable(m, st) {
		return
	}
	dev := s.deps.Device

	mode := gpu.PolygonFill
	if s.wireframe || m.RenderMode == scene.RenderWireframe {
		mode = gpu.PolygonLine
	}
	dev.SetPolygonMode(mode)
	dev.BindVertexArray(m.Buffers.VAO)

	kind := m.Material.DrawKind()
	prog := m.Material.Program
	if prog == 0 {
		prog = s.deps.Programs.For(kind)
	}
	dev.UseProgram(prog)

	if kind.Textured() {
		dev.BindTexture(gpu.UnitColor, m.Material.Texture)
		dev.BindTexture(gpu.UnitShadow, dev.ShadowTexture())
	}

	for _, u := range uniformsFor(m.Material, fu) {
		s.setUniform(prog, u.name, u.value)
	}
	dev.DrawTriangles(int32(m.VertexCount()))
	st.ColorDraws++
}

// drawable reports whether m has uploaded buffers. Missing buffers skip the
// draw and are logged once per mesh.
func (s *Scheduler) drawable(m *scene.Mesh, st *Stats) bool {
	if m.Buffers.Allocated() && m.VertexCount() >= 3 {
		return true
	}
	st.Skipped++
	if !s.warned[m] {
		s.warned[m] = true
		s.log.Warn("draw skipped: no vertex array",
			zap.String("mesh", m.Name),
			zap.Int("vertices", m.VertexCount()))
	}
	return false
}

func (s *Scheduler) setUniform(p gpu.Program, name string, v any) {
	if err := s.deps.Device.SetUniform(p, name, v); err != nil {
		s.log.Error("uniform upload failed", zap.String("uniform", name), zap.Error(err))
	}
}
