// Package portal links pairs of planar portals and renders the view through them.
package portal

import (
	"github.com/Faultbox/portalview/internal/engine/transform"
	"github.com/Faultbox/portalview/pkg/math"
)

// Face identifies one side of a portal.
type Face int

const (
	FaceFront Face = iota // the side Forward points to
	FaceBack
)

func (f Face) String() string {
	if f == FaceFront {
		return "front"
	}
	return "back"
}

// Warp is one directional link from a face of From to the matching face of To.
//
// Delta maps world space around To into world space around From, so a camera
// looking through From renders with view * Delta. DeltaInv is the reverse.
type Warp struct {
	From, To *Portal
	Delta    math.Mat4
	DeltaInv math.Mat4
}

// Linked reports whether the warp leads anywhere.
func (w *Warp) Linked() bool {
	return w.To != nil
}

// Teleport maps a world-space pose on the From side to the matching pose at To.
func (w *Warp) Teleport(pose math.Mat4) math.Mat4 {
	return w.DeltaInv.Mul(pose)
}

// Portal is a planar window placed in the world. Each face owns a warp.
type Portal struct {
	Name string
	transform.Transform

	Front Warp
	Back  Warp
}

// New creates an unlinked portal at the origin.
func New(name string) *Portal {
	p := &Portal{Name: name, Transform: transform.New()}
	p.Front = Warp{From: p, Delta: math.Identity(), DeltaInv: math.Identity()}
	p.Back = Warp{From: p, Delta: math.Identity(), DeltaInv: math.Identity()}
	return p
}

// Warp returns the warp for a face.
func (p *Portal) Warp(f Face) *Warp {
	if f == FaceFront {
		return &p.Front
	}
	return &p.Back
}

// ConnectWarp links two warps in both directions and computes their deltas
// from the current portal poses.
func ConnectWarp(a, b *Warp) {
	a.To = b.From
	b.To = a.From

	a.Delta = a.From.LocalToWorld().Mul(b.From.WorldToLocal())
	b.Delta = b.From.LocalToWorld().Mul(a.From.WorldToLocal())

	a.DeltaInv = b.Delta
	b.DeltaInv = a.Delta
}

// Connect links the front of each portal to the back of the other.
// A portal may be connected to itself. Moving either portal afterwards
// leaves the deltas stale until Connect is called again.
func Connect(a, b *Portal) {
	ConnectWarp(&a.Front, &b.Back)
	ConnectWarp(&b.Front, &a.Back)
}

// Crossed reports whether the segment prev->next passes through the portal
// quad, which spans [-1, 1] on its local X and Y axes. The returned face is
// the side the segment started on.
func (p *Portal) Crossed(prev, next math.Vec3) (Face, bool) {
	w2l := p.WorldToLocal()
	a := w2l.TransformPoint(prev)
	b := w2l.TransformPoint(next)

	// Forward is local -Z, so the front half-space is z < 0.
	if (a.Z < 0) == (b.Z < 0) || a.Z == b.Z {
		return FaceFront, false
	}

	t := a.Z / (a.Z - b.Z)
	hit := a.Add(b.Sub(a).Scale(t))
	if hit.X < -1 || hit.X > 1 || hit.Y < -1 || hit.Y > 1 {
		return FaceFront, false
	}

	if a.Z < 0 {
		return FaceFront, true
	}
	return FaceBack, true
}
