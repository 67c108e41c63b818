package states

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/portalview/internal/assets"
	"github.com/Faultbox/portalview/internal/engine/input"
	"github.com/Faultbox/portalview/internal/engine/model"
	"github.com/Faultbox/portalview/internal/engine/renderer"
	"github.com/Faultbox/portalview/internal/engine/texture"
	"github.com/Faultbox/portalview/internal/game/overlay"
	"github.com/Faultbox/portalview/internal/game/world"
)

type loadResult struct {
	bundle *assets.Bundle
	err    error
}

// LoadingState reads the scene and its assets in the background, showing
// a percentage until everything is ready, then switches to PlayingState.
type LoadingState struct {
	ctx     *Context
	manager *Manager
	log     *zap.Logger

	scene    *world.Scene
	progress assets.Progress
	done     chan loadResult
	cancel   context.CancelFunc

	startTime time.Time
}

// NewLoadingState creates a new loading state.
func NewLoadingState(ctx *Context, manager *Manager) *LoadingState {
	return &LoadingState{
		ctx:     ctx,
		manager: manager,
		log:     ctx.Log.Named("loading"),
	}
}

// Enter parses the scene description and starts the asset loaders.
func (s *LoadingState) Enter() error {
	s.startTime = time.Now()
	name := s.ctx.Config.Assets.Scene

	data, err := s.ctx.Assets.Load(name)
	if err != nil {
		return fmt.Errorf("loading scene: %w", err)
	}
	s.scene, err = world.ParseScene(data)
	if err != nil {
		return fmt.Errorf("scene %s: %w", name, err)
	}

	meshes, images := s.scene.MeshFiles(), s.scene.TextureFiles()
	s.log.Info("entering LoadingState",
		zap.String("scene", name),
		zap.Int("meshes", len(meshes)),
		zap.Int("textures", len(images)),
	)

	s.progress.Expect(len(meshes) + len(images))

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan loadResult, 1)
	go func() {
		b, err := s.ctx.Assets.LoadBundle(ctx, meshes, images, model.BuildOptions{}, &s.progress)
		s.done <- loadResult{bundle: b, err: err}
	}()
	return nil
}

// Exit stops any loaders still running.
func (s *LoadingState) Exit() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// Update switches to the playing state once every asset is decoded. GPU
// uploads happen here, on the render thread.
func (s *LoadingState) Update(dt float64) error {
	var res loadResult
	select {
	case res = <-s.done:
	default:
		return nil
	}
	if res.err != nil {
		return fmt.Errorf("loading assets: %w", res.err)
	}

	loaded, err := upload(s.ctx.Renderer, s.scene, res.bundle)
	if err != nil {
		return err
	}

	s.log.Info("scene ready",
		zap.Int("entities", len(loaded.world.Entities)),
		zap.Int("portals", len(loaded.world.Portals)),
		zap.Duration("elapsed", time.Since(s.startTime)),
	)
	s.manager.Change(NewPlayingState(s.ctx, loaded))
	return nil
}

// Render draws the progress percentage on a black screen.
func (s *LoadingState) Render() error {
	s.ctx.Renderer.Begin(0, 0, 0)
	s.ctx.DrawHUD(overlay.Frame{
		Progress:     s.progress.Percent(),
		ShowProgress: true,
	})
	return nil
}

// HandleEvent ignores input while loading.
func (s *LoadingState) HandleEvent(ev input.Event) error {
	return nil
}

// loadedScene owns the GPU resources of a built world.
type loadedScene struct {
	world    *world.World
	meshes   []*renderer.Mesh
	textures []*texture.Texture
}

func upload(r *renderer.Renderer, scene *world.Scene, b *assets.Bundle) (*loadedScene, error) {
	ls := &loadedScene{}
	res := world.Resources{
		Meshes:   make(map[string]*renderer.Mesh, len(b.Meshes)),
		Textures: make(map[string]*texture.Texture, len(b.Images)),
	}

	for name, m := range b.Meshes {
		gm, err := r.UploadMesh(m)
		if err != nil {
			ls.release(r)
			return nil, fmt.Errorf("mesh %s: %w", name, err)
		}
		ls.meshes = append(ls.meshes, gm)
		res.Meshes[name] = gm
	}
	for name, img := range b.Images {
		tex := texture.FromImage(img)
		ls.textures = append(ls.textures, tex)
		res.Textures[name] = tex
	}

	w, err := world.Build(scene, res)
	if err != nil {
		ls.release(r)
		return nil, fmt.Errorf("building world: %w", err)
	}
	ls.world = w
	return ls, nil
}

func (ls *loadedScene) release(r *renderer.Renderer) {
	for _, m := range ls.meshes {
		r.DeleteMesh(m)
	}
	for _, t := range ls.textures {
		t.Delete()
	}
	ls.meshes, ls.textures = nil, nil
}
