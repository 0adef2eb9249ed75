package camera

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/scenery/internal/engine/input"
	"github.com/Faultbox/scenery/pkg/math"
)

func testParams() Params {
	return Params{
		Eye:    math.Vec4{X: 0, Y: 0, Z: 10, W: 1},
		At:     math.Vec4{W: 1},
		Up:     math.Vec4{Y: 1},
		Near:   0.1,
		Far:    100,
		Width:  800,
		Height: 600,
	}
}

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-3
}

func nearVec(a, b math.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestNewTypes(t *testing.T) {
	tests := []struct {
		typ  string
		want string
	}{
		{"fixed", TypeFixed},
		{"orbiting", TypeOrbiting},
		{"firstPerson", TypeFirstPerson},
		{"first_person", TypeFirstPerson},
	}
	for _, tt := range tests {
		c, err := New("main", tt.typ, testParams(), DefaultOptions())
		if err != nil {
			t.Fatalf("New(%q) error: %v", tt.typ, err)
		}
		if c.Type() != tt.want {
			t.Errorf("New(%q).Type() = %q, want %q", tt.typ, c.Type(), tt.want)
		}
		if c.Name() != "main" {
			t.Errorf("Name() = %q", c.Name())
		}
	}
}

func TestNewUnknownType(t *testing.T) {
	_, err := New("main", "isometric", testParams(), DefaultOptions())
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestFixedView(t *testing.T) {
	c := NewFixed("main", testParams())
	want := math.LookAt(math.Vec3{Z: 10}, math.Vec3{}, math.Vec3{Y: 1})
	if c.View() != want {
		t.Errorf("View() = %v, want %v", c.View(), want)
	}
	if c.Eye() != (math.Vec3{Z: 10}) {
		t.Errorf("Eye() = %v", c.Eye())
	}

	var in input.State
	in.Press(input.KeyW)
	c.Update(1, &in)
	if c.View() != want {
		t.Error("fixed camera moved on input")
	}
}

func TestProjectionAndReshape(t *testing.T) {
	c := NewFixed("main", testParams())
	want := math.Perspective(DefaultFovY, 800.0/600.0, 0.1, 100)
	if c.Projection() != want {
		t.Errorf("Projection() mismatch")
	}

	c.Reshape(1000, 500)
	want = math.Perspective(DefaultFovY, 2, 0.1, 100)
	if c.Projection() != want {
		t.Errorf("Projection() after Reshape mismatch")
	}

	// Degenerate sizes fall back to square.
	c.Reshape(0, 0)
	want = math.Perspective(DefaultFovY, 1, 0.1, 100)
	if c.Projection() != want {
		t.Errorf("Projection() after zero Reshape mismatch")
	}
}

func TestFirstPersonInitialDirection(t *testing.T) {
	c := NewFirstPerson("fp", testParams(), DefaultOptions())
	if !nearVec(c.Forward(), math.Vec3{Z: -1}) {
		t.Errorf("Forward() = %v, want -Z", c.Forward())
	}
	want := math.LookAt(math.Vec3{Z: 10}, math.Vec3{}, math.Vec3{Y: 1})
	got := c.View()
	for i := range got {
		if !near(got[i], want[i]) {
			t.Fatalf("View()[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestFirstPersonMovement(t *testing.T) {
	opts := Options{MoveSpeed: 2, RotateSpeed: 1, MouseSensitivity: 0.01}

	tests := []struct {
		name string
		key  input.Key
		want math.Vec3
	}{
		{"forward", input.KeyW, math.Vec3{Z: 8}},
		{"back", input.KeyS, math.Vec3{Z: 12}},
		{"right", input.KeyD, math.Vec3{X: 2, Z: 10}},
		{"left", input.KeyA, math.Vec3{X: -2, Z: 10}},
		{"up", input.KeySpace, math.Vec3{Y: 2, Z: 10}},
		{"down", input.KeyShift, math.Vec3{Y: -2, Z: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFirstPerson("fp", testParams(), opts)
			var in input.State
			in.Press(tt.key)
			c.Update(1, &in)
			if !nearVec(c.Eye(), tt.want) {
				t.Errorf("Eye() = %v, want %v", c.Eye(), tt.want)
			}
		})
	}
}

func TestFirstPersonPitchClamp(t *testing.T) {
	c := NewFirstPerson("fp", testParams(), DefaultOptions())
	c.Rotate(10, 0)
	pitch, _ := c.Rotation()
	if pitch > maxPitch {
		t.Errorf("pitch = %f, want <= %f", pitch, maxPitch)
	}
	c.Rotate(-20, 0)
	pitch, _ = c.Rotation()
	if pitch < -maxPitch {
		t.Errorf("pitch = %f, want >= %f", pitch, -maxPitch)
	}
}

func TestFirstPersonMouseLookOnlyWhileHeld(t *testing.T) {
	c := NewFirstPerson("fp", testParams(), DefaultOptions())
	in := input.State{MouseDX: 100}
	c.Update(0.016, &in)
	if _, yaw := c.Rotation(); yaw != 0 {
		t.Errorf("yaw changed without mouse look: %f", yaw)
	}

	in.MouseLook = true
	c.Update(0.016, &in)
	if _, yaw := c.Rotation(); yaw <= 0 {
		t.Errorf("yaw = %f, want > 0", yaw)
	}
}

func TestOrbitInitialEye(t *testing.T) {
	p := testParams()
	p.Eye = math.Vec4{X: 3, Y: 4, Z: 0, W: 1}
	c := NewOrbit("orbit", p, DefaultOptions())
	if !nearVec(c.Eye(), math.Vec3{X: 3, Y: 4}) {
		t.Errorf("Eye() = %v, want (3,4,0)", c.Eye())
	}
	if !near(c.Distance, 5) {
		t.Errorf("Distance = %f, want 5", c.Distance)
	}
}

func TestOrbitDragKeepsDistance(t *testing.T) {
	c := NewOrbit("orbit", testParams(), DefaultOptions())
	in := input.State{MouseLook: true, MouseDX: 50, MouseDY: 20}
	c.Update(0.016, &in)

	if got := c.Eye().Distance(c.Center); !near(got, 10) {
		t.Errorf("distance after drag = %f, want 10", got)
	}
	if nearVec(c.Eye(), math.Vec3{Z: 10}) {
		t.Error("drag did not move the camera")
	}
}

func TestOrbitZoomClamped(t *testing.T) {
	c := NewOrbit("orbit", testParams(), DefaultOptions())
	c.HandleZoom(1000)
	if c.Distance != c.MinDistance {
		t.Errorf("Distance = %f, want MinDistance %f", c.Distance, c.MinDistance)
	}
	c.HandleZoom(-1000)
	if c.Distance != c.MaxDistance {
		t.Errorf("Distance = %f, want MaxDistance %f", c.Distance, c.MaxDistance)
	}
}

func TestUpdateIsolatedPerCamera(t *testing.T) {
	a := NewFirstPerson("a", testParams(), DefaultOptions())
	b := NewFirstPerson("b", testParams(), DefaultOptions())
	var in input.State
	in.Press(input.KeyW)
	a.Update(1, &in)

	if b.Eye() != (math.Vec3{Z: 10}) {
		t.Errorf("b moved: %v", b.Eye())
	}
	if a.Eye() == b.Eye() {
		t.Error("a did not move")
	}
}
