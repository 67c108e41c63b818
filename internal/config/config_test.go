package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/portalview/internal/engine/camera"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test camera defaults
	if cfg.Camera.FOVDegrees != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FOVDegrees)
	}
	if cfg.Camera.Near != 0.1 || cfg.Camera.Far != 100 {
		t.Errorf("expected near/far 0.1/100, got %f/%f", cfg.Camera.Near, cfg.Camera.Far)
	}

	// Test portal defaults
	if cfg.Portal.ClipBias != 0.1 {
		t.Errorf("expected clip bias 0.1, got %f", cfg.Portal.ClipBias)
	}
	if cfg.Portal.TargetSize != 2048 {
		t.Errorf("expected target size 2048, got %d", cfg.Portal.TargetSize)
	}

	// Test input defaults
	if cfg.Input.MoveSpeed != 0.1 {
		t.Errorf("expected move speed 0.1, got %f", cfg.Input.MoveSpeed)
	}
	if cfg.Input.LookSpeed != 1.0/70 {
		t.Errorf("expected look speed 1/70, got %f", cfg.Input.LookSpeed)
	}

	// Test asset defaults
	if cfg.Assets.Dir != "" {
		t.Errorf("expected embedded assets, got dir %s", cfg.Assets.Dir)
	}
	if cfg.Assets.Scene != "scene.yaml" {
		t.Errorf("expected scene.yaml, got %s", cfg.Assets.Scene)
	}
	if cfg.Game.ScreenshotDir != "screenshots" {
		t.Errorf("expected screenshot dir screenshots, got %s", cfg.Game.ScreenshotDir)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestCameraFOV(t *testing.T) {
	c := CameraConfig{FOVDegrees: 90}
	if got := c.FOV(); got < 1.5707 || got > 1.5709 {
		t.Errorf("FOV() = %f, want pi/2", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

camera:
  fov_degrees: 75
  near: 0.05
  far: 500

portal:
  clip_bias: 0.02
  target_size: 1024

input:
  move_speed: 0.25
  look_speed: 0.03

assets:
  dir: "./assets"
  scene: "lab.yaml"

game:
  show_fps: true
  screenshot_dir: "/tmp/shots"

logging:
  level: "debug"
  log_file: "portalview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}

	if cfg.Camera.FOVDegrees != 75 || cfg.Camera.Near != 0.05 || cfg.Camera.Far != 500 {
		t.Errorf("unexpected camera config %+v", cfg.Camera)
	}
	if cfg.Portal.ClipBias != 0.02 || cfg.Portal.TargetSize != 1024 {
		t.Errorf("unexpected portal config %+v", cfg.Portal)
	}
	if cfg.Input.MoveSpeed != 0.25 || cfg.Input.LookSpeed != 0.03 {
		t.Errorf("unexpected input config %+v", cfg.Input)
	}
	if cfg.Assets.Dir != "./assets" || cfg.Assets.Scene != "lab.yaml" {
		t.Errorf("unexpected assets config %+v", cfg.Assets)
	}

	if !cfg.Game.ShowFPS {
		t.Error("expected show_fps to be true")
	}
	if cfg.Game.ScreenshotDir != "/tmp/shots" {
		t.Errorf("expected screenshot dir /tmp/shots, got %s", cfg.Game.ScreenshotDir)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "portalview.log" {
		t.Errorf("expected log file 'portalview.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileStrict(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty file", "", false},
		{"comments only", "# nothing set\n", false},
		{"misspelled key", "portal:\n  clip_bais: 0.2\n", true},
		{"unknown section", "network:\n  port: 80\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg := Default()
			err := loadFromFile(cfg, path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadFromFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && *cfg != *Default() {
				t.Errorf("config changed: %+v", *cfg)
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		wantErr    bool
		wantCamera bool
	}{
		{"default", func(*Config) {}, false, false},
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, true, true},
		{"zero near", func(c *Config) { c.Camera.Near = 0 }, true, true},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }, true, true},
		{"fov 200", func(c *Config) { c.Camera.FOVDegrees = 200 }, true, true},
		{"negative clip bias", func(c *Config) { c.Portal.ClipBias = -0.1 }, true, false},
		{"zero clip bias", func(c *Config) { c.Portal.ClipBias = 0 }, false, false},
		{"zero target", func(c *Config) { c.Portal.TargetSize = 0 }, true, false},
		{"negative look speed", func(c *Config) { c.Input.LookSpeed = -1 }, true, false},
		{"no scene", func(c *Config) { c.Assets.Scene = "" }, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := errors.Is(err, camera.ErrInvalidSetup); got != tt.wantCamera {
				t.Errorf("errors.Is(err, ErrInvalidSetup) = %v, want %v", got, tt.wantCamera)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Portal.ClipBias = 0.05
	cfg.Assets.Dir = "assets"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# portalview configuration") {
		t.Errorf("saved config lacks header:\n%s", data)
	}
	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".config-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("saved config differs:\n got %+v\nwant %+v", *loaded, *cfg)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}

	// The environment variable wins over the working directory.
	envPath := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(envPath, []byte("graphics:\n  width: 640\n"), 0644); err != nil {
		t.Fatalf("failed to create env config: %v", err)
	}
	t.Setenv(EnvConfig, envPath)
	if path = findConfigFile(); path != envPath {
		t.Errorf("findConfigFile() = %s, want %s", path, envPath)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config) error
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) error {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Game.ShowFPS || !cfg.Game.ShowDebug {
					t.Error("expected fps and debug overlay to be enabled with debug flag")
				}
				return nil
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) error {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
				return nil
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) error {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
				return nil
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "assets flag",
			setup: func() {
				*flagAssets = "/srv/portal-assets"
			},
			verify: func(cfg *Config) error {
				if cfg.Assets.Dir != "/srv/portal-assets" {
					t.Errorf("expected assets dir /srv/portal-assets, got %s", cfg.Assets.Dir)
				}
				return nil
			},
			teardown: func() {
				*flagAssets = ""
			},
		},
		{
			name: "scene and log flags",
			setup: func() {
				*flagScene = "lab.yaml"
				*flagLogFile = "/tmp/portalview.log"
			},
			verify: func(cfg *Config) error {
				if cfg.Assets.Scene != "lab.yaml" {
					t.Errorf("expected scene lab.yaml, got %s", cfg.Assets.Scene)
				}
				if cfg.Logging.LogFile != "/tmp/portalview.log" {
					t.Errorf("expected log file /tmp/portalview.log, got %s", cfg.Logging.LogFile)
				}
				return nil
			},
			teardown: func() {
				*flagScene = ""
				*flagLogFile = ""
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) error {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
				return nil
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  near: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, camera.ErrInvalidSetup) {
		t.Errorf("Load() error = %v, want ErrInvalidSetup", err)
	}
}
