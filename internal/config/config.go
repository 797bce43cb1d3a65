// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Scene     SceneConfig     `yaml:"scene"`
	Camera    CameraConfig    `yaml:"camera"`
	Animation AnimationConfig `yaml:"animation"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Capture   CaptureConfig   `yaml:"capture"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RendererConfig holds projection and shadow settings.
type RendererConfig struct {
	FOVDegrees       float32 `yaml:"fov_degrees"`
	Near             float32 `yaml:"near"`
	Far              float32 `yaml:"far"`
	ShadowResolution int32   `yaml:"shadow_resolution"`
	ShadowHalfWidth  float32 `yaml:"shadow_half_width"`
	Wireframe        bool    `yaml:"wireframe"`
	ShadingTier      string  `yaml:"shading_tier"` // pbr, phong or flat
}

// SceneConfig holds the scene files to load.
type SceneConfig struct {
	Path           string `yaml:"path"`
	LightModelPath string `yaml:"light_model_path"`
	Watch          bool   `yaml:"watch"` // Reload the scene when the file changes
}

// CameraConfig holds fly-camera tuning.
type CameraConfig struct {
	BaseSpeed        float32 `yaml:"base_speed"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	SpeedStep        float32 `yaml:"speed_step"`
	MinSpeed         float32 `yaml:"min_speed"`
}

// AnimationConfig holds camera path playback settings.
type AnimationConfig struct {
	Speed         float32 `yaml:"speed"` // Checkpoints per second
	SmoothingTail int     `yaml:"smoothing_tail"`
}

// PhysicsConfig holds collision volume settings.
type PhysicsConfig struct {
	CollisionBoxes bool `yaml:"collision_boxes"`
}

// CaptureConfig holds frame capture settings.
type CaptureConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "cortex",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Renderer: RendererConfig{
			FOVDegrees:       90,
			Near:             0.01,
			Far:              10000,
			ShadowResolution: 4000,
			ShadowHalfWidth:  10,
			ShadingTier:      "pbr",
		},
		Scene: SceneConfig{
			Path:           "models/scene/scene.gltf",
			LightModelPath: "models/light/scene.gltf",
		},
		Camera: CameraConfig{
			BaseSpeed:        1,
			MouseSensitivity: 0.08,
			SpeedStep:        0.1,
			MinSpeed:         0.1,
		},
		Animation: AnimationConfig{
			Speed:         60,
			SmoothingTail: 20,
		},
		Capture: CaptureConfig{
			Dir:    "captures",
			Prefix: "frame",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}
