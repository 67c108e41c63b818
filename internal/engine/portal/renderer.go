package portal

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/portalview/internal/engine/camera"
	"github.com/Faultbox/portalview/pkg/math"
)

// ErrUnlinkedPortal is returned by Render when the visible face has no warp.
// The portal quad is still drawn, without a view through it.
var ErrUnlinkedPortal = errors.New("portal face is not linked")

// DefaultClipBias pulls the clip plane just in front of the portal surface,
// towards the viewer, so geometry touching the far portal is never cut.
const DefaultClipBias = 0.1

// Stage is a step of rendering a single portal.
type Stage int

const (
	StageIdle Stage = iota
	StageDetermineSide
	StageComputeClipPlane
	StageBuildPortalCamera
	StageOffscreenRender
	StageCompositeDraw
)

var stageNames = [...]string{
	StageIdle:              "idle",
	StageDetermineSide:     "determine side",
	StageComputeClipPlane:  "compute clip plane",
	StageBuildPortalCamera: "build portal camera",
	StageOffscreenRender:   "offscreen render",
	StageCompositeDraw:     "composite draw",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Target is an offscreen color buffer the portal view is rendered into.
type Target interface {
	// RenderInto binds the target, clears it, runs draw and restores the
	// previous binding and viewport.
	RenderInto(draw func())
	// Use binds the rendered color for sampling by the portal quad.
	Use()
}

// QuadDrawer draws the portal surface. When linked is false the quad is
// drawn as an inert surface without sampling the target.
type QuadDrawer interface {
	DrawPortal(mvp math.Mat4, linked bool)
}

// SceneFunc draws the scene, without portals, from a camera.
type SceneFunc func(cam *camera.Camera)

// Side describes which face of a portal a viewer sees.
type Side struct {
	Face     Face
	Warp     *Warp
	ToCamera math.Vec3 // face normal pointing at the viewer
	Away     math.Vec3 // face normal pointing into the scene beyond the portal
}

// DetermineSide picks the face of p the viewer is looking at.
func DetermineSide(p *Portal, viewer *camera.Camera) Side {
	n := p.Forward()
	if viewer.Position().Sub(p.Position).Dot(n) > 0 {
		return Side{Face: FaceFront, Warp: &p.Front, ToCamera: n, Away: n.Negate()}
	}
	return Side{Face: FaceBack, Warp: &p.Back, ToCamera: n.Negate(), Away: n}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClipBias sets how far in front of the portal surface the clip plane sits.
func WithClipBias(bias float32) Option {
	return func(r *Renderer) { r.ClipBias = bias }
}

// WithLogger sets the logger used to report skipped portals.
func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// Renderer draws portals one at a time. It reuses a single scratch camera,
// so the camera returned by BuildPortalCamera is only valid until the next call.
type Renderer struct {
	ClipBias float32

	quad    QuadDrawer
	scratch camera.Camera
	stage   Stage
	log     *zap.Logger
}

// NewRenderer creates a portal renderer drawing quads with quad.
func NewRenderer(quad QuadDrawer, opts ...Option) *Renderer {
	r := &Renderer{
		ClipBias: DefaultClipBias,
		quad:     quad,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stage returns the step the renderer is in. It is StageIdle between calls.
func (r *Renderer) Stage() Stage {
	return r.stage
}

// ClipPlane returns the world-space plane for the portal camera's near plane.
// The normal points away from the viewer and the plane sits ClipBias in
// front of the surface; everything nearer the viewer is clipped.
func (r *Renderer) ClipPlane(p *Portal, side Side) (point, normal math.Vec3) {
	return p.Position.Add(side.ToCamera.Scale(r.ClipBias)), side.Away
}

// BuildPortalCamera derives the camera that sees through the visible face of p.
func (r *Renderer) BuildPortalCamera(viewer *camera.Camera, p *Portal) (*camera.Camera, Side, error) {
	r.stage = StageDetermineSide
	side := DetermineSide(p, viewer)
	if !side.Warp.Linked() {
		return nil, side, ErrUnlinkedPortal
	}

	r.stage = StageComputeClipPlane
	point, normal := r.ClipPlane(p, side)

	r.stage = StageBuildPortalCamera
	r.scratch.Copy(viewer)
	if err := r.scratch.ClipOblique(point, normal); err != nil {
		return nil, side, err
	}
	r.scratch.SetView(r.scratch.View().Mul(side.Warp.Delta))

	return &r.scratch, side, nil
}

// Render draws the view through p: the linked scene is rendered into target
// from the portal camera, then the quad is composited with viewer's camera.
//
// An unlinked face draws the inert quad and returns ErrUnlinkedPortal.
// A degenerate clip plane skips the portal for this frame.
func (r *Renderer) Render(p *Portal, viewer *camera.Camera, target Target, scene SceneFunc) error {
	defer func() { r.stage = StageIdle }()

	mvp := viewer.ViewProjection().Mul(p.LocalToWorld())

	cam, side, err := r.BuildPortalCamera(viewer, p)
	switch {
	case errors.Is(err, ErrUnlinkedPortal):
		r.stage = StageCompositeDraw
		r.quad.DrawPortal(mvp, false)
		return fmt.Errorf("portal %q %s face: %w", p.Name, side.Face, err)
	case err != nil:
		r.log.Debug("portal skipped",
			zap.String("portal", p.Name),
			zap.Stringer("face", side.Face),
			zap.Stringer("stage", r.stage),
			zap.Error(err))
		return fmt.Errorf("portal %q %s: %w", p.Name, r.stage, err)
	}

	r.stage = StageOffscreenRender
	target.RenderInto(func() { scene(cam) })

	r.stage = StageCompositeDraw
	target.Use()
	r.quad.DrawPortal(mvp, true)
	return nil
}
