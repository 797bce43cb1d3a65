// Package controls maps keyboard and mouse input to camera movement, camera
// path recording and viewer hot keys.
package controls

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/cortex/internal/engine/animation"
	"github.com/Faultbox/cortex/internal/engine/camera"
	"github.com/Faultbox/cortex/internal/engine/input"
	"github.com/Faultbox/cortex/internal/logger"
	"github.com/Faultbox/cortex/internal/scene"
)

// Actions are the viewer-level effects of hot keys.
type Actions interface {
	ToggleWireframe() bool
	SetMouseGrab(grab bool)
	CaptureFrame()
	Quit()
}

// Config tunes camera movement and path playback.
type Config struct {
	Camera        camera.Config
	PathSpeed     float32
	SmoothingTail int
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Camera:        camera.DefaultConfig(),
		PathSpeed:     60,
		SmoothingTail: animation.DefaultSmoothingTail,
	}
}

// Controller applies one frame of input to the scene.
//
//	Escape  quit
//	Q       toggle wireframe
//	G       toggle mouse grab
//	E       capture the frame to PNG
//	T       record a camera checkpoint every frame while held
//	R       arm and start path playback
//	B       discard the recorded path
type Controller struct {
	keys    *input.State
	fly     *camera.Fly
	actions Actions
	cfg     Config
	log     *zap.Logger

	grabbed bool
}

// New returns a controller reading keys and calling actions.
func New(keys *input.State, actions Actions, cfg Config, log *zap.Logger) *Controller {
	return &Controller{
		keys:    keys,
		fly:     camera.NewFly(cfg.Camera),
		actions: actions,
		cfg:     cfg,
		log:     logger.OrNop(log),
	}
}

// Grabbed reports whether mouse look is active.
func (c *Controller) Grabbed() bool {
	return c.grabbed
}

// HandleInput implements frame.InputHandler.
func (c *Controller) HandleInput(sc *scene.Scene, now time.Duration, dt float32) {
	k := c.keys
	cam := sc.Camera

	if k.Pressed(input.KeyEscape) {
		c.log.Info("shutdown requested")
		c.actions.Quit()
	}
	if k.Pressed(input.KeyQ) {
		c.log.Debug("wireframe toggled", zap.Bool("enabled", c.actions.ToggleWireframe()))
	}
	if k.Pressed(input.KeyG) {
		c.grabbed = !c.grabbed
		c.actions.SetMouseGrab(c.grabbed)
	}
	if k.Pressed(input.KeyE) {
		c.actions.CaptureFrame()
	}

	c.handlePath(cam, now)

	if cam.Path != nil && cam.Path.State() == animation.StatePlaying {
		return
	}

	ctrl := camera.Controls{
		Forward:  k.Down(input.KeyW),
		Backward: k.Down(input.KeyS),
		Left:     k.Down(input.KeyA),
		Right:    k.Down(input.KeyD),
		Up:       k.Down(input.KeySpace),
		Down:     k.Down(input.KeyShift),
		Scroll:   k.Scroll(),
	}
	if c.grabbed {
		ctrl.LookDX, ctrl.LookDY = k.MouseDelta()
	}
	c.fly.Update(cam, ctrl, dt)

	if ctrl.Scroll != 0 {
		c.log.Debug("camera speed changed", zap.Float32("base_speed", cam.BaseSpeed))
	}
}

func (c *Controller) handlePath(cam *scene.Camera, now time.Duration) {
	k := c.keys

	if k.Down(input.KeyT) {
		if cam.Path == nil {
			cam.Path = animation.NewPath(c.cfg.PathSpeed, c.cfg.SmoothingTail)
		}
		if cam.Path.Record(cam.Position, cam.Look) {
			c.log.Debug("checkpoint recorded", zap.Int("checkpoints", cam.Path.Len()))
		}
	}

	if cam.Path == nil {
		return
	}

	if k.Pressed(input.KeyB) {
		cam.Path.Reset()
		c.log.Info("camera path reset")
	}

	if k.Pressed(input.KeyR) {
		err := cam.Path.Arm()
		if err != nil && !errors.Is(err, animation.ErrAlreadyStarted) {
			c.log.Warn("camera path not armed", zap.Error(err))
			return
		}
		if cam.Path.Start(now.Seconds()) {
			c.log.Info("camera path playing",
				zap.Int("checkpoints", cam.Path.Len()),
				zap.Float32("speed", cam.Path.Speed()))
		}
	}
}
