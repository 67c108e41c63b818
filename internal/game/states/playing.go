package states

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/portalview/internal/engine/camera"
	"github.com/Faultbox/portalview/internal/engine/framebuffer"
	"github.com/Faultbox/portalview/internal/engine/input"
	"github.com/Faultbox/portalview/internal/engine/portal"
	"github.com/Faultbox/portalview/internal/engine/touch"
	"github.com/Faultbox/portalview/internal/game/overlay"
	"github.com/Faultbox/portalview/internal/game/player"
	"github.com/Faultbox/portalview/internal/game/world"
	"github.com/Faultbox/portalview/pkg/math"
)

// PlayingState walks the player through the loaded world.
//
// Each frame runs in a fixed order: input, player update, main pass, then
// for every portal its offscreen pass and composite, and the HUD last.
type PlayingState struct {
	ctx   *Context
	log   *zap.Logger
	scene *loadedScene

	player   *player.Player
	controls *touch.Controls
	portals  *portal.Renderer
	target   *framebuffer.Framebuffer
}

// NewPlayingState creates the playing state for a loaded scene. It takes
// ownership of the scene's GPU resources.
func NewPlayingState(ctx *Context, scene *loadedScene) *PlayingState {
	return &PlayingState{
		ctx:   ctx,
		log:   ctx.Log.Named("playing"),
		scene: scene,
	}
}

// Enter creates the portal target and places the player at the spawn point.
func (s *PlayingState) Enter() error {
	cfg := s.ctx.Config

	size := int32(cfg.Portal.TargetSize)
	target, err := framebuffer.New(size, size)
	if err != nil {
		return fmt.Errorf("portal target: %w", err)
	}
	s.target = target

	s.ctx.Renderer.SetPortalMesh(s.scene.world.PortalMesh)
	s.ctx.Renderer.LightDirection = s.scene.world.Light
	s.portals = portal.NewRenderer(s.ctx.Renderer,
		portal.WithClipBias(cfg.Portal.ClipBias),
		portal.WithLogger(s.ctx.Log.Named("portal")),
	)

	s.player = player.New(camera.New())
	s.player.MoveSpeed = cfg.Input.MoveSpeed
	s.player.LookSpeed = cfg.Input.LookSpeed
	spawn := s.scene.world.Spawn
	s.player.Place(math.Vec3{X: spawn.Position[0], Y: spawn.Position[1], Z: spawn.Position[2]}, spawn.Yaw, spawn.Pitch)

	s.layout()
	tw, th := s.target.Size()
	s.log.Info("entering PlayingState",
		zap.Int("portals", len(s.scene.world.Portals)),
		zap.Int32("targetWidth", tw),
		zap.Int32("targetHeight", th),
	)
	return nil
}

// layout sizes the camera and joysticks for the current window.
func (s *PlayingState) layout() {
	cfg := s.ctx.Config.Camera
	w, h := s.ctx.Renderer.Size()
	s.player.Camera.Setup(w, h, cfg.Near, cfg.Far, cfg.FOV())
	s.controls = touch.NewControls(float32(s.ctx.Width), float32(s.ctx.Height))
}

// Exit releases the portal target and the scene's GPU resources.
func (s *PlayingState) Exit() error {
	if s.target != nil {
		s.target.Destroy()
		s.target = nil
	}
	s.ctx.Renderer.SetPortalMesh(nil)
	s.scene.release(s.ctx.Renderer)
	return nil
}

// Update applies input, moves the player and teleports it through portals.
func (s *PlayingState) Update(dt float64) error {
	s.controls.Update(s.ctx.Input.Touches())
	move, look := s.controls.Axes(s.ctx.Input.KeyboardAxes())

	s.player.HandleInput(move, look)
	if p := s.player.CrossPortals(s.scene.world.PortalList()); p != nil {
		s.log.Debug("player teleported",
			zap.String("portal", p.Name),
			zap.Float32("yaw", s.player.Yaw()),
		)
	}
	s.player.Update()
	return nil
}

// Render draws the main pass, each portal and the HUD.
func (s *PlayingState) Render() error {
	w := s.scene.world
	cam := s.player.Camera

	s.ctx.Renderer.Begin(w.ClearColor.X, w.ClearColor.Y, w.ClearColor.Z)
	s.drawLayer(world.LayerMain, cam)

	through := func(c *camera.Camera) { s.drawLayer(world.LayerPortal, c) }
	for _, e := range w.Portals {
		err := s.portals.Render(e.Portal, cam, s.target, through)
		switch {
		case err == nil, errors.Is(err, portal.ErrUnlinkedPortal):
		case errors.Is(err, math.ErrDegenerateTransform):
			// Skipped for this frame; the renderer has logged it.
		default:
			return fmt.Errorf("rendering portal: %w", err)
		}
	}

	s.ctx.DrawHUD(s.hudFrame())
	return nil
}

func (s *PlayingState) drawLayer(layer world.Layer, cam *camera.Camera) {
	vp := cam.ViewProjection()
	s.scene.world.Visible(layer, func(e *world.Entity) {
		s.ctx.Renderer.DrawMesh(e.Mesh, vp, e.LocalToWorld(), e.WorldToLocal(), e.Color, e.Texture)
	})
}

func (s *PlayingState) hudFrame() overlay.Frame {
	f := overlay.Frame{
		Move:       overlay.StickFrom(s.controls.Move),
		Look:       overlay.StickFrom(s.controls.Look),
		ShowSticks: true,
	}
	if s.ctx.Config.Game.ShowDebug {
		f.Debug = fmt.Sprintf("yaw %.2f  pitch %.2f", s.player.Yaw(), s.player.Pitch())
	}
	return f
}

// HandleEvent re-lays out the view on resize.
func (s *PlayingState) HandleEvent(ev input.Event) error {
	if ev.Type == input.EventWindowResize {
		s.layout()
	}
	return nil
}
