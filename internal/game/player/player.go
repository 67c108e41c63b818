// Package player implements the first-person viewer that walks through portals.
package player

import (
	gomath "math"

	"github.com/Faultbox/portalview/internal/engine/camera"
	"github.com/Faultbox/portalview/internal/engine/portal"
	"github.com/Faultbox/portalview/internal/engine/transform"
	"github.com/Faultbox/portalview/pkg/math"
)

// Default tuning, per frame at full stick deflection.
const (
	DefaultMoveSpeed = 0.1
	DefaultLookSpeed = 1.0 / 70
)

const maxPitch = gomath.Pi / 2

// Player is the viewer. Rotation.X is pitch and Rotation.Y is yaw; the
// camera sits at Position.
type Player struct {
	transform.Transform
	Camera *camera.Camera

	MoveSpeed float32
	LookSpeed float32

	prev math.Vec3
}

// New creates a player driving cam.
func New(cam *camera.Camera) *Player {
	return &Player{
		Transform: transform.New(),
		Camera:    cam,
		MoveSpeed: DefaultMoveSpeed,
		LookSpeed: DefaultLookSpeed,
	}
}

// Place moves the player without treating it as a step.
func (p *Player) Place(pos math.Vec3, yaw, pitch float32) {
	p.Position = pos
	p.prev = pos
	p.Rotation = math.Vec3{X: clampPitch(pitch), Y: yaw}
}

// Yaw returns the heading in radians.
func (p *Player) Yaw() float32 { return p.Rotation.Y }

// Pitch returns the vertical look angle in radians.
func (p *Player) Pitch() float32 { return p.Rotation.X }

// HandleInput applies one frame of stick input. move is in screen axes
// (x right, y down) and is turned by the current yaw, so pushing up walks
// where the camera faces. look.x turns, look.y pitches.
func (p *Player) HandleInput(move, look math.Vec2) {
	p.prev = p.Position

	vel := move.Scale(p.MoveSpeed).Rotate(p.Rotation.Y)
	p.Position.X += vel.X
	p.Position.Z += vel.Y

	p.Rotation.Y += look.X * p.LookSpeed
	p.Rotation.X = clampPitch(p.Rotation.X + look.Y*p.LookSpeed)
}

// Update pushes the pose into the camera.
func (p *Player) Update() {
	pos := p.Position
	p.Camera.SetTransform(pos.X, pos.Y, pos.Z, p.Rotation.X, p.Rotation.Y)
}

// Pose returns the position and heading as a matrix. Pitch is not part of
// the pose; it survives a teleport unchanged.
func (p *Player) Pose() math.Mat4 {
	return math.TranslateVec(p.Position).Mul(math.RotateY(-p.Rotation.Y))
}

// CrossPortals teleports the player if the last step passed through a
// linked portal face. It returns the portal crossed, or nil.
func (p *Player) CrossPortals(portals []*portal.Portal) *portal.Portal {
	for _, pt := range portals {
		face, ok := pt.Crossed(p.prev, p.Position)
		if !ok {
			continue
		}
		warp := pt.Warp(face)
		if !warp.Linked() {
			continue
		}
		p.teleport(warp)
		return pt
	}
	return nil
}

func (p *Player) teleport(w *portal.Warp) {
	pose := w.Teleport(p.Pose())

	pos := pose.Translation()
	fwd := pose.TransformDirection(math.Vec3{Z: -1})
	yaw := float32(gomath.Atan2(float64(fwd.X), float64(-fwd.Z)))

	p.Place(pos, yaw, p.Rotation.X)
}

func clampPitch(x float32) float32 {
	switch {
	case x > maxPitch:
		return maxPitch
	case x < -maxPitch:
		return -maxPitch
	}
	return x
}
