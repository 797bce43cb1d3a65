package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Renderer.FOVDegrees != 90 {
		t.Errorf("expected fov 90, got %f", cfg.Renderer.FOVDegrees)
	}
	if cfg.Renderer.Near != 0.01 || cfg.Renderer.Far != 10000 {
		t.Errorf("expected clip range 0.01..10000, got %f..%f", cfg.Renderer.Near, cfg.Renderer.Far)
	}
	if cfg.Renderer.ShadowResolution != 4000 {
		t.Errorf("expected shadow resolution 4000, got %d", cfg.Renderer.ShadowResolution)
	}

	if cfg.Camera.MouseSensitivity != 0.08 {
		t.Errorf("expected mouse sensitivity 0.08, got %f", cfg.Camera.MouseSensitivity)
	}
	if cfg.Camera.MinSpeed != 0.1 {
		t.Errorf("expected min speed 0.1, got %f", cfg.Camera.MinSpeed)
	}
	if cfg.Animation.SmoothingTail != 20 {
		t.Errorf("expected smoothing tail 20, got %d", cfg.Animation.SmoothingTail)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

renderer:
  fov_degrees: 70
  shadow_resolution: 2048
  shading_tier: phong

scene:
  path: "assets/sponza/sponza.gltf"
  watch: true

animation:
  speed: 30

physics:
  collision_boxes: true

logging:
  level: "debug"
  log_file: "cortex.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Renderer.FOVDegrees != 70 {
		t.Errorf("expected fov 70, got %f", cfg.Renderer.FOVDegrees)
	}
	if cfg.Renderer.ShadowResolution != 2048 {
		t.Errorf("expected shadow resolution 2048, got %d", cfg.Renderer.ShadowResolution)
	}
	if cfg.Renderer.ShadingTier != "phong" {
		t.Errorf("expected shading tier phong, got %s", cfg.Renderer.ShadingTier)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Renderer.Far != 10000 {
		t.Errorf("expected far plane to keep default, got %f", cfg.Renderer.Far)
	}
	if cfg.Scene.Path != "assets/sponza/sponza.gltf" {
		t.Errorf("unexpected scene path %s", cfg.Scene.Path)
	}
	if !cfg.Scene.Watch {
		t.Error("expected scene watch to be true")
	}
	if cfg.Animation.Speed != 30 {
		t.Errorf("expected animation speed 30, got %f", cfg.Animation.Speed)
	}
	if !cfg.Physics.CollisionBoxes {
		t.Error("expected collision boxes to be enabled")
	}
	if cfg.Logging.LogFile != "cortex.log" {
		t.Errorf("expected log file 'cortex.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"near not positive", func(c *Config) { c.Renderer.Near = 0 }},
		{"far before near", func(c *Config) { c.Renderer.Far = 0.001 }},
		{"no shadow map", func(c *Config) { c.Renderer.ShadowResolution = 0 }},
		{"unknown tier", func(c *Config) { c.Renderer.ShadingTier = "toon" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "scene flag",
			setup: func() { *flagScene = "models/cube/cube.gltf" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Path != "models/cube/cube.gltf" {
					t.Errorf("expected scene path override, got %s", cfg.Scene.Path)
				}
			},
			teardown: func() { *flagScene = "" },
		},
		{
			name: "watch and boxes flags",
			setup: func() {
				*flagWatch = true
				*flagBoxes = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Scene.Watch {
					t.Error("expected watch to be enabled")
				}
				if !cfg.Physics.CollisionBoxes {
					t.Error("expected collision boxes to be enabled")
				}
			},
			teardown: func() {
				*flagWatch = false
				*flagBoxes = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from flag, height from file.
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Scene.Path = "saved.gltf"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Scene.Path != "saved.gltf" {
		t.Errorf("expected saved scene path, got %s", loaded.Scene.Path)
	}
}
