package math

import (
	"errors"
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
	if got := m.Translation(); got != (Vec3{5, 10, 15}) {
		t.Errorf("Translation() = %v, want (5, 10, 15)", got)
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformPoint(Vec3{1, 2, 3})

	expected := Vec3{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestTransformPointScale(t *testing.T) {
	m := Scale(2, 2, 2)
	result := m.TransformPoint(Vec3{1, 2, 3})

	expected := Vec3{2, 4, 6}
	if result != expected {
		t.Errorf("TransformPoint with scale: got %v, want %v", result, expected)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(4, 5, 6).Mul(RotateY(float32(math.Pi)))
	got := m.TransformDirection(Vec3{0, 0, 1})
	if !got.ApproxEqual(Vec3{0, 0, -1}, 1e-6) {
		t.Errorf("TransformDirection: got %v, want (0, 0, -1)", got)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	result := m.TransformPoint(Vec3{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if abs(result.X) > 0.001 || abs(result.Y) > 0.001 || abs(result.Z+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestZAxis(t *testing.T) {
	if got := Identity().ZAxis(); got != (Vec3{0, 0, 1}) {
		t.Errorf("Identity ZAxis = %v, want (0, 0, 1)", got)
	}

	// Yaw of 90 degrees turns local +Z onto world +X.
	got := RotateY(float32(math.Pi / 2)).ZAxis()
	if !got.ApproxEqual(Vec3{1, 0, 0}, 1e-6) {
		t.Errorf("RotateY(pi/2) ZAxis = %v, want (1, 0, 0)", got)
	}
}

func TestMulPoint(t *testing.T) {
	// Bottom row (0, 0, 0.5, 0) makes w = z/2.
	m := Identity()
	m[11] = 0.5
	m[15] = 0

	got, err := m.MulPoint(Vec3{2, 4, 8})
	if err != nil {
		t.Fatalf("MulPoint: %v", err)
	}
	if !got.ApproxEqual(Vec3{0.5, 1, 2}, 1e-6) {
		t.Errorf("MulPoint = %v, want (0.5, 1, 2)", got)
	}
}

func TestMulPointZeroW(t *testing.T) {
	proj := Perspective(float32(math.Pi/3), 1, 0.1, 100)

	// A point on the eye plane (z = 0) has w = 0 under a perspective matrix.
	got, err := proj.MulPoint(Vec3{1, 1, 0})
	if !errors.Is(err, ErrDegenerateTransform) {
		t.Fatalf("MulPoint with w=0: err = %v, want ErrDegenerateTransform", err)
	}
	for _, c := range []float32{got.X, got.Y, got.Z} {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			t.Errorf("MulPoint leaked non-finite value %v", got)
		}
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1.0, 0.1, 100.0)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 5}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	if m[15] != 1 {
		t.Errorf("LookAt [15] should be 1, got %f", m[15])
	}
	if got := m.TransformPoint(eye); !got.ApproxEqual(Vec3{}, 1e-5) {
		t.Errorf("LookAt maps eye to %v, want origin", got)
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(1, 2, 3)
	tr := m.Transpose()
	if tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("Transpose moved translation to %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("Transpose twice should give the original matrix")
	}
}

func TestInvert(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"translate", Translate(-10, 0.1, 32.5)},
		{"rotate", RotateAxis(Vec3{0, 1, 0}, 0.1)},
		{"scale", Scale(10, 0.1, -0.45)},
		{"compound", Translate(-1, -1, -1).Mul(RotateX(0.334)).Mul(RotateY(1.2)).Mul(Scale(2, 3, 4))},
		{"perspective", Perspective(1.0, 1.5, 0.1, 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := tt.m.Invert()
			if err != nil {
				t.Fatalf("Invert: %v", err)
			}
			if !tt.m.Mul(inv).ApproxEqual(Identity(), 1e-4) {
				t.Errorf("M * M^-1 is not identity: %v", tt.m.Mul(inv))
			}
		})
	}
}

func TestInvertSingular(t *testing.T) {
	_, err := Scale(1, 0, 1).Invert()
	if !errors.Is(err, ErrDegenerateTransform) {
		t.Errorf("Invert singular: err = %v, want ErrDegenerateTransform", err)
	}
	if Scale(1, 0, 1).Inverse() != Identity() {
		t.Error("Inverse of singular matrix should fall back to identity")
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
