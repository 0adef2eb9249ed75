// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"strings"

	"github.com/Faultbox/scenery/internal/engine/input"
)

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig      `yaml:"window"`
	Scene      SceneConfig       `yaml:"scene"`
	Camera     CameraConfig      `yaml:"camera"`
	Input      InputConfig       `yaml:"input"`
	Animations []AnimationConfig `yaml:"animations"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	FPSLimit   int    `yaml:"fps_limit"`
	ShowFPS    bool   `yaml:"show_fps"`
	// ScreenshotDir receives F12 captures. Empty means the working directory.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// SceneConfig selects the scene descriptor and where its assets live.
type SceneConfig struct {
	Path       string   `yaml:"path"`
	AssetRoots []string `yaml:"asset_roots"` // searched after the descriptor's directory
	Normals    string   `yaml:"normals"`     // "smooth" or "flat"
}

// CameraConfig tunes interactive cameras.
type CameraConfig struct {
	MoveSpeed        float32 `yaml:"move_speed"`
	RotateSpeed      float32 `yaml:"rotate_speed"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
}

// InputConfig holds key bindings.
type InputConfig struct {
	// CameraHotkeys maps key names ("1", "f") to camera names.
	CameraHotkeys map[string]string `yaml:"camera_hotkeys"`
}

// AnimationConfig attaches a constant spin and drift to an actor.
type AnimationConfig struct {
	Actor           string     `yaml:"actor"`
	AngularVelocity [3]float32 `yaml:"angular_velocity"` // radians per second
	LinearVelocity  [3]float32 `yaml:"linear_velocity"`  // units per second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Scenery",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,

			ScreenshotDir: "screenshots",
		},
		Scene: SceneConfig{
			Path:    "scene.json",
			Normals: "smooth",
		},
		Camera: CameraConfig{
			MoveSpeed:        5,
			RotateSpeed:      1.5,
			MouseSensitivity: 0.005,
		},
		Input: InputConfig{
			CameraHotkeys: map[string]string{
				"1": "fixed1",
				"2": "fixed2",
				"3": "fixed3",
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that cannot be fixed by defaults.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Scene.Path == "" {
		return fmt.Errorf("scene.path is empty")
	}
	switch strings.ToLower(c.Scene.Normals) {
	case "", "smooth", "flat":
	default:
		return fmt.Errorf("scene.normals %q: want smooth or flat", c.Scene.Normals)
	}
	if _, err := input.NewBindings(c.Input.CameraHotkeys); err != nil {
		return fmt.Errorf("input.camera_hotkeys: %w", err)
	}
	for i, a := range c.Animations {
		if a.Actor == "" {
			return fmt.Errorf("animations[%d]: actor is empty", i)
		}
	}
	return nil
}
