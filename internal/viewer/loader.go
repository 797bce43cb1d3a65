// Package viewer assembles renderable scenes from files.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/cortex/internal/importer"
	"github.com/Faultbox/cortex/internal/logger"
	"github.com/Faultbox/cortex/internal/scene"
)

// Main light defaults.
const (
	MainLightColor    uint32  = 0xFFFFFF
	MainLightStrength float32 = 10
)

// MainLightPosition is where the main light is placed.
var MainLightPosition = mgl32.Vec3{10, 2, 1}

// LoaderConfig selects the files and light settings of assembled scenes.
type LoaderConfig struct {
	LightModelPath  string
	ShadowHalfWidth float32
	CameraSpeed     float32
}

// Loader imports a scene file and its light visualizer concurrently and
// assembles a scene with one entity, the main light and a camera.
type Loader struct {
	im  *importer.Importer
	cfg LoaderConfig
	log *zap.Logger
}

// NewLoader returns a loader using im for every import.
func NewLoader(im *importer.Importer, cfg LoaderConfig, log *zap.Logger) *Loader {
	return &Loader{im: im, cfg: cfg, log: logger.OrNop(log)}
}

// Load imports path. A missing or broken light model leaves the light
// without a visualizer; a broken scene file fails the load.
func (l *Loader) Load(ctx context.Context, path string) (*scene.Scene, error) {
	start := time.Now()

	var (
		entity *scene.Entity
		bulb   []*scene.Mesh
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e, err := l.im.ImportEntity(path)
		if err != nil {
			return fmt.Errorf("import scene: %w", err)
		}
		entity = e
		return ctx.Err()
	})
	if l.cfg.LightModelPath != "" {
		g.Go(func() error {
			meshes, err := l.im.ImportScene(l.cfg.LightModelPath)
			if err != nil {
				l.log.Warn("light model unavailable", zap.String("path", l.cfg.LightModelPath), zap.Error(err))
				return nil
			}
			bulb = meshes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sc := scene.New()
	sc.AddEntity(entity)
	sc.AddLight(l.mainLight(bulb))

	cam := scene.NewCamera()
	if l.cfg.CameraSpeed > 0 {
		cam.BaseSpeed = l.cfg.CameraSpeed
	}
	sc.Camera = cam

	l.log.Info("scene loaded",
		zap.String("path", path),
		zap.Int("meshes", len(entity.Meshes)),
		zap.Int("light_meshes", len(bulb)),
		zap.Duration("took", time.Since(start)))
	return sc, nil
}

func (l *Loader) mainLight(visualizer []*scene.Mesh) *scene.Light {
	light := scene.NewPointLight(MainLightColor, MainLightStrength, mgl32.Translate3D(MainLightPosition.Elem()))
	if l.cfg.ShadowHalfWidth > 0 {
		light.ShadowHalfWidth = l.cfg.ShadowHalfWidth
	}
	light.SetVisualizer(visualizer)
	return light
}
