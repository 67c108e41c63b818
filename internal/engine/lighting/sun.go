// Package lighting provides the directional light used by the mesh shader.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/portalview/pkg/math"
)

// Overhead is the light direction used when a scene sets none.
var Overhead = math.Vec3{Y: 1}

// SunDirection converts an azimuth (rotation about +Y, from +Z towards +X)
// and an elevation above the horizon, both in degrees, to a unit vector
// pointing towards the sun.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := float64(azimuth) * gomath.Pi / 180
	el := float64(elevation) * gomath.Pi / 180

	return math.Vec3{
		X: float32(gomath.Cos(el) * gomath.Sin(az)),
		Y: float32(gomath.Sin(el)),
		Z: float32(gomath.Cos(el) * gomath.Cos(az)),
	}
}
