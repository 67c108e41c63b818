// Package camera provides the perspective camera used for the main view and
// for every portal view.
package camera

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/portalview/pkg/math"
)

// ErrInvalidSetup is returned by Validate for setup parameters that cannot
// produce a usable projection.
var ErrInvalidSetup = errors.New("invalid camera setup")

// Default setup values.
const (
	DefaultNear = 0.1
	DefaultFar  = 100.0
	DefaultFOV  = gomath.Pi / 3
)

// Camera holds a perspective projection and a view matrix.
//
// Aspect is height/width, so the projection scales X by f*Aspect.
type Camera struct {
	Width, Height int
	Aspect        float32
	Near, Far     float32
	FOV           float32 // vertical, radians

	projection math.Mat4
	view       math.Mat4
}

// New creates a camera with default setup and an identity view.
func New() *Camera {
	c := &Camera{view: math.Identity()}
	c.SetupAspect(1, 1, DefaultNear, DefaultFar, DefaultFOV, 1)
	return c
}

// Setup rebuilds the projection for a viewport. Aspect is derived as height/width.
func (c *Camera) Setup(width, height int, near, far, fov float32) {
	aspect := float32(1)
	if width > 0 {
		aspect = float32(height) / float32(width)
	}
	c.SetupAspect(width, height, near, far, fov, aspect)
}

// SetupAspect rebuilds the projection with an explicit aspect (height/width).
func (c *Camera) SetupAspect(width, height int, near, far, fov, aspect float32) {
	c.Width, c.Height = width, height
	c.Near, c.Far, c.FOV, c.Aspect = near, far, fov, aspect

	f := float32(1 / gomath.Tan(float64(fov)/2))
	nf := 1 / (near - far)

	c.projection = math.Mat4{
		f * aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (near + far) * nf, -1,
		0, 0, 2 * near * far * nf, 0,
	}
}

// Validate checks the setup parameters. It is meant for configuration time;
// the frame loop assumes a valid camera.
func (c *Camera) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalidSetup, c.Width, c.Height)
	case c.Near <= 0:
		return fmt.Errorf("%w: near %g must be positive", ErrInvalidSetup, c.Near)
	case c.Far <= c.Near:
		return fmt.Errorf("%w: far %g must exceed near %g", ErrInvalidSetup, c.Far, c.Near)
	case c.FOV <= 0 || c.FOV >= gomath.Pi:
		return fmt.Errorf("%w: fov %g outside (0, pi)", ErrInvalidSetup, c.FOV)
	case c.Aspect <= 0:
		return fmt.Errorf("%w: aspect %g must be positive", ErrInvalidSetup, c.Aspect)
	}
	return nil
}

// SetTransform places the camera at (x, y, z) with pitch rx and yaw ry.
// The view is Rx(rx) * Ry(ry) * T(-x, -y, -z).
func (c *Camera) SetTransform(x, y, z, rx, ry float32) {
	c.view = math.RotateX(rx).Mul(math.RotateY(ry)).Mul(math.Translate(-x, -y, -z))
}

// View returns the world-to-camera matrix.
func (c *Camera) View() math.Mat4 { return c.view }

// SetView replaces the view matrix.
func (c *Camera) SetView(m math.Mat4) { c.view = m }

// Projection returns the projection matrix.
func (c *Camera) Projection() math.Mat4 { return c.projection }

// SetProjection replaces the projection matrix.
func (c *Camera) SetProjection(m math.Mat4) { c.projection = m }

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.projection.Mul(c.view)
}

// Position returns the camera's world position. A singular view, which
// SetTransform never builds, reports the origin.
func (c *Camera) Position() math.Vec3 {
	inv, err := c.view.Invert()
	if err != nil {
		return math.Vec3{}
	}
	return inv.Translation()
}

// Copy makes c an independent clone of other: setup, view and projection.
func (c *Camera) Copy(other *Camera) {
	*c = *other
}

// ClipOblique replaces the near plane with the world-space plane through
// point with the given normal, keeping everything on the side the normal
// points into. The plane is flipped if needed so the eye is always clipped.
//
// The projection is left untouched on error.
func (c *Camera) ClipOblique(point, normal math.Vec3) error {
	if normal.Length() < math.Epsilon {
		return fmt.Errorf("clip plane normal: %w", math.ErrDegenerateTransform)
	}

	cpos, err := c.view.MulPoint(point)
	if err != nil {
		return fmt.Errorf("clip plane point: %w", err)
	}
	cnorm := c.view.TransformDirection(normal.Normalize())

	plane := cnorm.Vec4(-cpos.Dot(cnorm))
	switch {
	case gomath.Abs(float64(plane[3])) < math.Epsilon:
		return fmt.Errorf("eye lies on clip plane: %w", math.ErrDegenerateTransform)
	case plane[3] > 0:
		plane = plane.Scale(-1)
	}

	p := c.projection
	q := math.Vec4{
		(sign(plane[0]) + p[8]) / p[0],
		(sign(plane[1]) + p[9]) / p[5],
		-1,
		(1 + p[10]) / p[14],
	}

	d := plane.Dot(q)
	if gomath.Abs(float64(d)) < math.Epsilon {
		return fmt.Errorf("clip plane parallel to view: %w", math.ErrDegenerateTransform)
	}
	plane = plane.Scale(2 / d)

	c.projection[2] = plane[0]
	c.projection[6] = plane[1]
	c.projection[10] = plane[2] + 1
	c.projection[14] = plane[3]
	return nil
}

// InverseProjection returns the full inverse of the projection matrix.
func (c *Camera) InverseProjection() (math.Mat4, error) {
	return c.projection.Invert()
}

// Unproject maps a point in normalized device coordinates back to view space.
func (c *Camera) Unproject(ndc math.Vec3) (math.Vec3, error) {
	inv, err := c.InverseProjection()
	if err != nil {
		return math.Vec3{}, err
	}
	return inv.MulPoint(ndc)
}

// ClipSpace returns the homogeneous clip coordinates of a world point.
func (c *Camera) ClipSpace(world math.Vec3) math.Vec4 {
	return c.ViewProjection().MulVec4(world.Vec4(1))
}

// Contains reports whether a world point falls inside the clip volume,
// including the near plane set by ClipOblique.
func (c *Camera) Contains(world math.Vec3) bool {
	v := c.ClipSpace(world)
	w := v[3]
	if w <= 0 {
		return false
	}
	for _, x := range v[:3] {
		if x < -w || x > w {
			return false
		}
	}
	return true
}

func sign(x float32) float32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
