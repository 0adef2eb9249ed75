package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I = %v, want %v", result, m)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		p    Vec3
		want Vec3
	}{
		{"translate", Translate(10, 20, 30), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scale", Scale(2, 2, 2), Vec3{1, 2, 3}, Vec3{2, 4, 6}},
		{"identity", Identity(), Vec3{-1, 0, 4}, Vec3{-1, 0, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformPoint(tt.p); got != tt.want {
				t.Errorf("TransformPoint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	result := m.TransformPoint(Vec3{1, 0, 0})
	if !near3(result, Vec3{0, 0, -1}) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestRotateEulerOrder(t *testing.T) {
	// X first sends +Y to +Z, then Y sends +Z to +X.
	r := Vec3{float32(math.Pi / 2), float32(math.Pi / 2), 0}
	got := RotateEuler(r).TransformDirection(Vec3{0, 1, 0})
	if !near3(got, Vec3{1, 0, 0}) {
		t.Errorf("RotateEuler X then Y: got %v, want (1, 0, 0)", got)
	}
}

func TestComposeOrder(t *testing.T) {
	// Scale then rotate then translate: (1,0,0) -> (2,0,0) -> (0,0,-2) -> (5,0,-2).
	m := Compose(Vec3{5, 0, 0}, Vec3{0, float32(math.Pi / 2), 0}, Vec3{2, 2, 2})
	got := m.TransformPoint(Vec3{1, 0, 0})
	if !near3(got, Vec3{5, 0, -2}) {
		t.Errorf("Compose: got %v, want (5, 0, -2)", got)
	}
}

func TestComposeIdentity(t *testing.T) {
	m := Compose(Vec3{}, Vec3{}, Splat(1))
	if m != Identity() {
		t.Errorf("Compose(origin, zero, one) = %v, want identity", m)
	}
}

func TestComposeDeterministic(t *testing.T) {
	p, r, s := Vec3{1.5, -2, 3}, Vec3{0.3, 1.1, -0.7}, Vec3{1, 2, 0.5}
	a := Compose(p, r, s)
	b := Compose(p, r, s)
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			t.Fatalf("element %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(1, 2, 3)
	tr := m.Transpose()
	if tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("Transpose moved translation to %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("Transpose twice should be identity operation")
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1, 0.1, 100)
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

	// The eye maps to the view-space origin.
	if got := m.TransformPoint(eye); !near3(got, Vec3{}) {
		t.Errorf("LookAt eye in view space = %v, want origin", got)
	}
	// The target lies in front of the camera (negative Z).
	if got := m.TransformPoint(Vec3{}); !near3(got, Vec3{0, 0, -5}) {
		t.Errorf("LookAt target in view space = %v, want (0, 0, -5)", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func near3(a, b Vec3) bool {
	return abs(a.X-b.X) < 1e-4 && abs(a.Y-b.Y) < 1e-4 && abs(a.Z-b.Z) < 1e-4
}
