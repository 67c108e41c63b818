// Package game implements the main loop: window, renderer, input and the
// state machine.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/portalview/internal/assets"
	"github.com/Faultbox/portalview/internal/config"
	"github.com/Faultbox/portalview/internal/engine/debug"
	"github.com/Faultbox/portalview/internal/engine/input"
	"github.com/Faultbox/portalview/internal/engine/renderer"
	"github.com/Faultbox/portalview/internal/engine/texture"
	"github.com/Faultbox/portalview/internal/engine/window"
	"github.com/Faultbox/portalview/internal/game/overlay"
	"github.com/Faultbox/portalview/internal/game/states"
	"github.com/Faultbox/portalview/internal/logger"
)

// Title is the window title.
const Title = "Portal View"

// Game is the main application instance.
type Game struct {
	config  *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	assets   *assets.Manager
	states   *states.Manager
	ctx      *states.Context

	screenshots *debug.ScreenshotCapture
	capture     bool
}

// New creates the window, renderer and asset manager and schedules the
// loading state.
func New(cfg *config.Config) (*Game, error) {
	log := logger.Named("game")
	log.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("fullscreen", cfg.Graphics.Fullscreen),
	)

	g := &Game{
		config: cfg,
		log:    log,
		states: states.NewManager(),

		screenshots: debug.NewScreenshotCapture(cfg.Game.ScreenshotDir, "portalview"),
	}

	var err error
	g.assets, err = assets.Open(cfg.Assets.Dir, logger.Named("assets"))
	if err != nil {
		return nil, err
	}

	// Create window (this also creates OpenGL context)
	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	dw, dh := g.window.DrawableSize()
	g.renderer, err = renderer.New(renderer.Config{
		Width:  dw,
		Height: dh,
		VSync:  cfg.Graphics.VSync,
	}, logger.Named("renderer"))
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	w, h := g.window.GetSize()
	g.input = input.New(w, h)

	g.ctx = &states.Context{
		Config:     cfg,
		Renderer:   g.renderer,
		Input:      g.input,
		Assets:     g.assets,
		Log:        logger.Named("states"),
		HUD:        overlay.New(w, h),
		HUDTexture: texture.New(),
		Width:      w,
		Height:     h,
	}
	g.states.Change(states.NewLoadingState(g.ctx, g.states))

	log.Info("game initialized successfully")
	return g, nil
}

// Run starts the main loop and returns when the window is closed.
func (g *Game) Run() error {
	g.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var frameLimit time.Duration
	if g.config.Graphics.FPSLimit > 0 {
		frameLimit = time.Second / time.Duration(g.config.Graphics.FPSLimit)
	}

	g.log.Info("starting game loop")

	for g.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		// 1. Process input
		if g.input.Update() {
			// Quit event received
			g.running = false
			break
		}
		if err := g.handleEvents(); err != nil {
			return err
		}
		if !g.running {
			break
		}

		// 2. Update state
		if err := g.states.Update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 3. Render
		if err := g.states.Render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		if g.capture {
			g.capture = false
			g.saveScreenshot()
		}

		// 4. Present (swap buffers)
		g.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if g.config.Game.ShowFPS {
				g.log.Info("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			} else {
				g.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			}
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameLimit > 0 {
			if rest := frameLimit - time.Since(frameStart); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	return nil
}

func (g *Game) handleEvents() error {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			g.renderer.Resize(g.window.DrawableSize())
			g.ctx.Width, g.ctx.Height = event.Width, event.Height
			g.ctx.HUD.Resize(event.Width, event.Height)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
				return nil
			case sdl.SCANCODE_F12:
				g.capture = true
			}
		}
		if err := g.states.HandleEvent(event); err != nil {
			return fmt.Errorf("event error: %w", err)
		}
	}
	return nil
}

// saveScreenshot writes the frame just rendered. Failures are logged only.
func (g *Game) saveScreenshot() {
	pixels, w, h := g.renderer.ReadPixels()
	name, err := g.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("file", name))
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.log.Info("closing game")

	if err := g.states.Close(); err != nil {
		g.log.Warn("leaving state", zap.Error(err))
	}
	if g.ctx != nil && g.ctx.HUDTexture != nil {
		g.ctx.HUDTexture.Delete()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
	if g.assets != nil {
		g.assets.Close()
	}
}
