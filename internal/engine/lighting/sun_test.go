package lighting

import (
	"testing"

	"github.com/Faultbox/portalview/pkg/math"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name               string
		azimuth, elevation float32
		want               math.Vec3
	}{
		{"zenith", 0, 90, math.Vec3{Y: 1}},
		{"horizon south", 0, 0, math.Vec3{Z: 1}},
		{"horizon east", 90, 0, math.Vec3{X: 1}},
		{"west at 45", -90, 45, math.Vec3{X: -0.70710677, Y: 0.70710677}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.azimuth, tt.elevation)
			if !got.ApproxEqual(tt.want, 1e-6) {
				t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.azimuth, tt.elevation, got, tt.want)
			}
			if l := got.Length(); l < 0.99999 || l > 1.00001 {
				t.Errorf("length = %v, want 1", l)
			}
		})
	}
}
