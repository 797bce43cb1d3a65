// Package app wires the window, GPU device and frame scheduler into the
// interactive viewer.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/cortex/internal/config"
	"github.com/Faultbox/cortex/internal/controls"
	"github.com/Faultbox/cortex/internal/engine/animation"
	"github.com/Faultbox/cortex/internal/engine/camera"
	"github.com/Faultbox/cortex/internal/engine/debug"
	"github.com/Faultbox/cortex/internal/engine/frame"
	"github.com/Faultbox/cortex/internal/engine/gpu/glbackend"
	"github.com/Faultbox/cortex/internal/engine/gpusync"
	"github.com/Faultbox/cortex/internal/engine/input"
	"github.com/Faultbox/cortex/internal/engine/input/sdlinput"
	"github.com/Faultbox/cortex/internal/engine/physics"
	"github.com/Faultbox/cortex/internal/engine/shader"
	"github.com/Faultbox/cortex/internal/engine/texture"
	"github.com/Faultbox/cortex/internal/engine/window"
	"github.com/Faultbox/cortex/internal/importer"
	"github.com/Faultbox/cortex/internal/logger"
	"github.com/Faultbox/cortex/internal/scene"
	"github.com/Faultbox/cortex/internal/viewer"
	"github.com/Faultbox/cortex/internal/watch"
)

// App is the running viewer. It must be created and run on the main thread.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window    *window.Window
	device    *glbackend.Device
	programs  *shader.Library
	textures  *texture.Cache
	sync      *gpusync.Synchronizer
	keys      *input.State
	poller    *sdlinput.Poller
	scheduler *frame.Scheduler
	loader    *viewer.Loader
	capture   *debug.FrameCapture

	captureRequested bool
	quit             bool
}

// New opens the window, builds the GPU resources and loads the initial scene.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:      cfg,
		log:      logger.Named("app"),
		textures: texture.NewCache(),
		keys:     input.New(),
		capture:  debug.NewFrameCapture(cfg.Capture.Dir, cfg.Capture.Prefix),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	a.device, err = glbackend.New(cfg.Renderer.ShadowResolution, logger.Named("gl"))
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("init device: %w", err)
	}

	a.programs, err = shader.Load(a.device)
	if err != nil {
		a.device.Close()
		a.window.Close()
		return nil, fmt.Errorf("load shaders: %w", err)
	}

	a.sync = gpusync.New(a.device, a.textures, logger.Named("gpusync"))
	a.poller = sdlinput.New(a.keys)

	im := importer.New(&importer.SlotCounter{}, importer.ParseTier(cfg.Renderer.ShadingTier), logger.Named("importer"))
	a.loader = viewer.NewLoader(im, viewer.LoaderConfig{
		LightModelPath:  cfg.Scene.LightModelPath,
		ShadowHalfWidth: cfg.Renderer.ShadowHalfWidth,
		CameraSpeed:     cfg.Camera.BaseSpeed,
	}, logger.Named("loader"))

	var collision *physics.Builder
	if cfg.Physics.CollisionBoxes {
		collision = physics.New(logger.Named("physics"))
	}

	ctrl := controls.New(a.keys, a, controls.Config{
		Camera: camera.Config{
			Sensitivity: cfg.Camera.MouseSensitivity,
			SpeedStep:   cfg.Camera.SpeedStep,
			MinSpeed:    cfg.Camera.MinSpeed,
		},
		PathSpeed:     cfg.Animation.Speed,
		SmoothingTail: smoothingTail(cfg.Animation.SmoothingTail),
	}, logger.Named("controls"))

	a.scheduler = frame.New(frame.Config{
		FOVDegrees: cfg.Renderer.FOVDegrees,
		Near:       cfg.Renderer.Near,
		Far:        cfg.Renderer.Far,
	}, frame.Deps{
		Device:    a.device,
		Programs:  a.programs,
		Sync:      a.sync,
		Collision: collision,
		Input:     ctrl,
		Presenter: a,
		Log:       logger.Named("frame"),
	})
	if cfg.Renderer.Wireframe {
		a.scheduler.ToggleWireframe()
	}

	sc, err := a.loader.Load(context.Background(), cfg.Scene.Path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load scene: %w", err)
	}
	a.scheduler.SetScene(sc)

	return a, nil
}

func smoothingTail(n int) int {
	if n < 0 {
		return animation.DefaultSmoothingTail
	}
	return n
}

// Run drives the frame loop until ctx is canceled or a quit is requested.
// Scene reloads are imported on a background goroutine and swapped in
// between frames.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	reloads := make(chan *scene.Scene, 1)

	if a.cfg.Scene.Watch {
		w, err := watch.New(a.cfg.Scene.Path, watch.DefaultDebounce, logger.Named("watch"))
		if err != nil {
			return fmt.Errorf("watch scene: %w", err)
		}
		g.Go(func() error { return w.Run(gctx) })
		g.Go(func() error { return a.reloadLoop(gctx, w.Changes(), reloads) })
	}

	a.log.Info("starting frame loop")
	start := time.Now()
	fpsTimer := start
	frames := 0

	for !a.quit {
		if ctx.Err() != nil {
			break
		}
		if a.poller.Poll() {
			break
		}

		select {
		case sc := <-reloads:
			a.swapScene(sc)
		default:
		}

		st := a.scheduler.RenderFrame(time.Since(start))
		if st.Rendered {
			frames++
		}

		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frames), zap.Int("draws", st.ColorDraws))
			frames = 0
			fpsTimer = time.Now()
		}
	}

	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.log.Info("frame loop stopped")
	return nil
}

func (a *App) reloadLoop(ctx context.Context, changes <-chan struct{}, out chan<- *scene.Scene) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changes:
			sc, err := a.loader.Load(ctx, a.cfg.Scene.Path)
			if err != nil {
				a.log.Warn("scene reload failed", zap.Error(err))
				continue
			}
			// Drop a pending reload the loop has not picked up yet.
			select {
			case <-out:
			default:
			}
			out <- sc
		}
	}
}

// swapScene keeps the viewer's camera across reloads.
func (a *App) swapScene(sc *scene.Scene) {
	if old := a.scheduler.Scene(); old != nil && old.Camera != nil {
		sc.Camera = old.Camera
	}
	a.scheduler.SetScene(sc)
	a.log.Info("scene reloaded", zap.Int("meshes", sc.MeshCount()))
}

// ToggleWireframe flips the color pass polygon mode.
func (a *App) ToggleWireframe() bool {
	return a.scheduler.ToggleWireframe()
}

// SetMouseGrab captures or releases the mouse for look controls.
func (a *App) SetMouseGrab(grab bool) {
	a.window.SetMouseGrab(grab)
}

// CaptureFrame saves the next presented frame to a PNG.
func (a *App) CaptureFrame() {
	a.captureRequested = true
}

// Quit ends the frame loop after the current frame.
func (a *App) Quit() {
	a.quit = true
}

// Size returns the drawable size of the window.
func (a *App) Size() (int32, int32) {
	return a.window.Size()
}

// Present captures the back buffer if requested, then swaps.
func (a *App) Present() {
	if a.captureRequested {
		a.captureRequested = false
		a.saveCapture()
	}
	a.window.Present()
}

func (a *App) saveCapture() {
	width, height := a.window.Size()
	pixels, err := a.device.ReadPixels(width, height)
	if err != nil {
		a.log.Warn("frame capture failed", zap.Error(err))
		return
	}
	path, err := a.capture.SaveRGB(pixels, int(width), int(height))
	if err != nil {
		a.log.Warn("frame capture failed", zap.Error(err))
		return
	}
	a.log.Info("frame captured", zap.String("path", path))
}

// Close releases GPU resources and the window.
func (a *App) Close() {
	if a.scheduler != nil {
		if sc := a.scheduler.Scene(); sc != nil {
			a.sync.Release(sc)
		}
	}
	if a.textures != nil && a.device != nil {
		a.textures.Release(a.device)
	}
	if a.programs != nil && a.device != nil {
		a.programs.Release(a.device)
	}
	if a.device != nil {
		a.device.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
