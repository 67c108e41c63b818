// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/portalview/internal/engine/camera"
)

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Portal   PortalConfig   `yaml:"portal"`
	Input    InputConfig    `yaml:"input"`
	Assets   AssetsConfig   `yaml:"assets"`
	Game     GameConfig     `yaml:"game"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// CameraConfig holds the perspective setup shared by the main and portal views.
type CameraConfig struct {
	FOVDegrees float32 `yaml:"fov_degrees"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
}

// FOV returns the vertical field of view in radians.
func (c CameraConfig) FOV() float32 {
	return c.FOVDegrees * gomath.Pi / 180
}

// PortalConfig holds portal rendering settings.
type PortalConfig struct {
	ClipBias   float32 `yaml:"clip_bias"`   // offset of the oblique near plane in front of the portal surface
	TargetSize int     `yaml:"target_size"` // offscreen texture edge, pixels
}

// InputConfig holds player control tuning.
type InputConfig struct {
	MoveSpeed float32 `yaml:"move_speed"` // world units per frame at full stick
	LookSpeed float32 `yaml:"look_speed"` // radians per frame at full stick
}

// AssetsConfig points at the asset source.
type AssetsConfig struct {
	Dir   string `yaml:"dir"`   // empty uses the embedded assets
	Scene string `yaml:"scene"` // scene description, relative to Dir
}

// GameConfig holds presentation toggles.
type GameConfig struct {
	ShowFPS       bool   `yaml:"show_fps"`
	ShowDebug     bool   `yaml:"show_debug"`
	ScreenshotDir string `yaml:"screenshot_dir"` // F12 captures; empty writes to the working directory
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Camera: CameraConfig{
			FOVDegrees: 60,
			Near:       camera.DefaultNear,
			Far:        camera.DefaultFar,
		},
		Portal: PortalConfig{
			ClipBias:   0.1,
			TargetSize: 2048,
		},
		Input: InputConfig{
			MoveSpeed: 0.1,
			LookSpeed: 1.0 / 70,
		},
		Assets: AssetsConfig{
			Dir:   "",
			Scene: "scene.yaml",
		},
		Game: GameConfig{
			ShowFPS:       false,
			ShowDebug:     false,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings that would break rendering at startup.
func (c *Config) Validate() error {
	cam := camera.Camera{
		Width:  c.Graphics.Width,
		Height: c.Graphics.Height,
		Aspect: 1,
		Near:   c.Camera.Near,
		Far:    c.Camera.Far,
		FOV:    c.Camera.FOV(),
	}
	if err := cam.Validate(); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	if c.Portal.ClipBias < 0 {
		return fmt.Errorf("portal: clip_bias %g must not be negative", c.Portal.ClipBias)
	}
	if c.Portal.TargetSize <= 0 {
		return fmt.Errorf("portal: target_size %d must be positive", c.Portal.TargetSize)
	}
	if c.Input.MoveSpeed < 0 || c.Input.LookSpeed < 0 {
		return fmt.Errorf("input: speeds must not be negative")
	}
	if c.Assets.Scene == "" {
		return fmt.Errorf("assets: scene must be set")
	}
	return nil
}
