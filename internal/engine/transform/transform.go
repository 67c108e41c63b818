// Package transform provides the position/rotation/scale pose shared by
// every object placed in the world.
package transform

import (
	"github.com/Faultbox/portalview/pkg/math"
)

// Transform is a pose built from a position, Euler angles and a scale.
// Rotation holds pitch (X), yaw (Y) and roll (Z) in radians.
type Transform struct {
	Position math.Vec3
	Rotation math.Vec3
	Scale    math.Vec3
}

// New returns a transform at the origin with unit scale.
func New() Transform {
	return Transform{Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
}

// At returns a unit-scale transform at the given position and yaw.
func At(pos math.Vec3, yaw float32) Transform {
	t := New()
	t.Position = pos
	t.Rotation.Y = yaw
	return t
}

// RotationMatrix returns Ry(yaw) * Rx(pitch) * Rz(roll).
func (t *Transform) RotationMatrix() math.Mat4 {
	return math.RotateY(t.Rotation.Y).
		Mul(math.RotateX(t.Rotation.X)).
		Mul(math.RotateZ(t.Rotation.Z))
}

// LocalToWorld composes translation, rotation (Y, X, Z) and scale, in that order.
func (t *Transform) LocalToWorld() math.Mat4 {
	return math.TranslateVec(t.Position).
		Mul(t.RotationMatrix()).
		Mul(math.Scale(t.Scale.X, t.Scale.Y, t.Scale.Z))
}

// WorldToLocal is the exact inverse of LocalToWorld.
// Every scale component must be non-zero.
func (t *Transform) WorldToLocal() math.Mat4 {
	return math.Scale(1/t.Scale.X, 1/t.Scale.Y, 1/t.Scale.Z).
		Mul(math.RotateZ(-t.Rotation.Z)).
		Mul(math.RotateX(-t.Rotation.X)).
		Mul(math.RotateY(-t.Rotation.Y)).
		Mul(math.TranslateVec(t.Position.Negate()))
}

// Forward returns the world-space heading (local -Z), ignoring position and scale.
func (t *Transform) Forward() math.Vec3 {
	return t.RotationMatrix().ZAxis().Negate()
}
