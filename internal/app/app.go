// Package app wires the window, GL backend, asset manager and input poller
// around a viewer session and runs the frame loop.
package app

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/assets"
	"github.com/Faultbox/scenery/internal/config"
	"github.com/Faultbox/scenery/internal/engine/camera"
	"github.com/Faultbox/scenery/internal/engine/input"
	"github.com/Faultbox/scenery/internal/engine/input/sdlinput"
	"github.com/Faultbox/scenery/internal/engine/renderer/glrenderer"
	"github.com/Faultbox/scenery/internal/engine/screenshot"
	"github.com/Faultbox/scenery/internal/engine/window"
	"github.com/Faultbox/scenery/internal/level"
	"github.com/Faultbox/scenery/internal/logger"
	"github.com/Faultbox/scenery/internal/viewer"
)

// App is the interactive viewer.
type App struct {
	cfg      *config.Config
	window   *window.Window
	renderer *glrenderer.Renderer
	assets   *assets.Manager
	poller   *sdlinput.Poller
	level    *level.Level
	session  *viewer.Session
	shots    *screenshot.Capture
	log      *zap.Logger
}

// New opens the window and loads the configured scene.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg, log: logger.Named("app")}
	a.log.Info("initializing viewer",
		zap.String("scene", cfg.Scene.Path),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	width, height := a.window.DrawableSize()
	a.renderer, err = glrenderer.New(width, height)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	// The descriptor's own directory wins over configured roots.
	a.assets = assets.NewManager(cfg.Scene.AssetRoots...)
	a.assets.AddRoot(filepath.Dir(cfg.Scene.Path))
	a.assets.SetNormalMode(assets.ParseNormalMode(cfg.Scene.Normals))

	a.level, err = level.Load(cfg.Scene.Path, a.assets, a.renderer, level.Options{
		Camera: camera.Options{
			MoveSpeed:        cfg.Camera.MoveSpeed,
			RotateSpeed:      cfg.Camera.RotateSpeed,
			MouseSensitivity: cfg.Camera.MouseSensitivity,
		},
		Width:  width,
		Height: height,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}

	a.session, err = viewer.NewSession(a.level, cfg.Input.CameraHotkeys, cfg.Animations)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.poller = sdlinput.New()
	a.shots = screenshot.New(cfg.Window.ScreenshotDir, "scenery")
	a.window.SetTitle(fmt.Sprintf("%s - %s", cfg.Window.Title, a.level.Name))

	a.log.Info("viewer initialized")
	return a, nil
}

// Run loops until the user quits or a frame fails.
func (a *App) Run() error {
	var minFrame time.Duration
	if a.cfg.Window.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(a.cfg.Window.FPSLimit)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		state := a.poller.Poll()
		if state.Resized {
			// SDL reports window coordinates; the viewport wants pixels.
			state.Width, state.Height = a.window.DrawableSize()
		}

		running, err := a.session.Step(float32(dt), state)
		if err != nil {
			return err
		}
		if !running {
			a.log.Info("quit requested")
			return nil
		}

		if state.Pressed(input.KeyF12) {
			a.capture()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if a.cfg.Window.ShowFPS {
				a.log.Info("fps", zap.Int("count", frameCount))
			} else {
				a.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			}
			frameCount = 0
			fpsTimer = time.Now()
		}

		if minFrame > 0 {
			if spare := minFrame - time.Since(now); spare > 0 {
				time.Sleep(spare)
			}
		}
	}
}

func (a *App) capture() {
	img, err := a.renderer.ReadPixels()
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	path, err := a.shots.Save(img)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases everything in reverse order of creation.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.level != nil {
		if err := a.level.Close(); err != nil {
			a.log.Warn("level close", zap.Error(err))
		}
	}
	if a.assets != nil {
		hits, misses := a.assets.Stats()
		a.log.Debug("asset cache", zap.Int("hits", hits), zap.Int("misses", misses))
		a.assets.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
