package assets

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/portalview/internal/engine/model"
	"github.com/Faultbox/portalview/internal/engine/texture"
	"github.com/Faultbox/portalview/pkg/formats"
)

// Progress counts finished loads. It is safe to read from the render thread
// while loaders update it.
type Progress struct {
	done  atomic.Int64
	total atomic.Int64
}

// Expect starts counting a load of n items. Callers that render progress
// before the loaders run call it first, so no frame reports a finished load.
func (p *Progress) Expect(n int) {
	p.done.Store(0)
	p.total.Store(int64(n))
}

// Fraction returns completed/total in [0, 1]. An empty load is complete.
func (p *Progress) Fraction() float32 {
	total := p.total.Load()
	if total <= 0 {
		return 1
	}
	return float32(p.done.Load()) / float32(total)
}

// Percent returns the truncated percentage, 0 to 100.
func (p *Progress) Percent() int {
	return int(p.Fraction() * 100)
}

// Done reports whether every scheduled load has finished.
func (p *Progress) Done() bool {
	return p.done.Load() >= p.total.Load()
}

// Bundle holds decoded CPU-side assets keyed by file name.
type Bundle struct {
	Meshes map[string]*model.Mesh
	Images map[string]*image.RGBA
}

// LoadBundle reads, parses and decodes meshes and images concurrently.
// The first failure cancels the remaining loads.
func (m *Manager) LoadBundle(ctx context.Context, meshes, images []string, opts model.BuildOptions, progress *Progress) (*Bundle, error) {
	if progress == nil {
		progress = &Progress{}
	}
	progress.Expect(len(meshes) + len(images))

	b := &Bundle{
		Meshes: make(map[string]*model.Mesh, len(meshes)),
		Images: make(map[string]*image.RGBA, len(images)),
	}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, name := range meshes {
		name := name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mesh, err := m.LoadMesh(name, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			b.Meshes[name] = mesh
			mu.Unlock()
			progress.done.Add(1)
			return nil
		})
	}
	for _, name := range images {
		name := name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := m.LoadImage(name)
			if err != nil {
				return err
			}
			mu.Lock()
			b.Images[name] = img
			mu.Unlock()
			progress.done.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	m.log.Info("assets loaded",
		zap.Int("meshes", len(b.Meshes)),
		zap.Int("images", len(b.Images)),
	)
	return b, nil
}

// LoadMesh reads and parses an OBJ file into vertex data.
func (m *Manager) LoadMesh(name string, opts model.BuildOptions) (*model.Mesh, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	obj, err := formats.ParseOBJ(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	mesh := model.FromOBJ(name, obj, opts)
	if mesh == nil {
		return nil, fmt.Errorf("mesh %s: %w", name, formats.ErrMalformedOBJ)
	}
	return mesh, nil
}

// LoadImage reads and decodes an image file.
func (m *Manager) LoadImage(name string) (*image.RGBA, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	return texture.Decode(name, data)
}
