package level

import (
	gomath "math"

	"github.com/Faultbox/scenery/internal/engine/lighting"
	"github.com/Faultbox/scenery/internal/engine/model"
	"github.com/Faultbox/scenery/internal/engine/renderer"
	"github.com/Faultbox/scenery/internal/engine/transform"
	"github.com/Faultbox/scenery/pkg/math"
)

// Mesh is a geometry resource created through the backend.
type Mesh struct {
	Path       string
	Handle     renderer.MeshHandle
	IndexCount int
	Bounds     model.Bounds
}

// Texture is an image resource created through the backend.
type Texture struct {
	Path   string
	Handle renderer.TextureHandle
}

// Behavior advances an actor by dt seconds.
type Behavior func(a *Actor, dt float32)

// Actor is a placed instance of shared mesh, material and texture
// resources. It holds handles, never the resources themselves.
type Actor struct {
	Name        string
	Mesh        Handle[Mesh]
	Material    Handle[lighting.Material]
	DiffuseMap  Handle[Texture]
	SpecularMap Handle[Texture] // zero when absent

	transform.Transform

	Behaviors []Behavior
}

// AddBehavior appends b to the actor's per-frame hooks.
func (a *Actor) AddBehavior(b Behavior) {
	a.Behaviors = append(a.Behaviors, b)
}

// Update runs every behavior once.
func (a *Actor) Update(dt float32) {
	for _, b := range a.Behaviors {
		b(a, dt)
	}
}

// Spin rotates by angular (radians per second) on each axis.
func Spin(angular math.Vec3) Behavior {
	return func(a *Actor, dt float32) {
		a.Rotate(angular.Scale(dt))
	}
}

// Drift translates by linear (units per second).
func Drift(linear math.Vec3) Behavior {
	return func(a *Actor, dt float32) {
		a.Translate(linear.Scale(dt))
	}
}

// Billboard is a quad that turns about the Y axis to face the camera.
type Billboard struct {
	Name       string
	Material   Handle[lighting.Material]
	DiffuseMap Handle[Texture]
	Position   math.Vec3
	Size       math.Vec2

	mesh       renderer.MeshHandle
	indexCount int
	yaw        float32
	world      math.Mat4
}

// Face turns the billboard toward eye. An eye directly above or below
// keeps the previous yaw.
func (b *Billboard) Face(eye math.Vec3) {
	dx, dz := eye.X-b.Position.X, eye.Z-b.Position.Z
	if dx != 0 || dz != 0 {
		b.yaw = float32(gomath.Atan2(float64(dx), float64(dz)))
	}
	b.world = math.Translate(b.Position.X, b.Position.Y, b.Position.Z).Mul(math.RotateY(b.yaw))
}

// Yaw returns the current rotation about Y in radians.
func (b *Billboard) Yaw() float32 { return b.yaw }

// World returns the billboard's world matrix.
func (b *Billboard) World() math.Mat4 { return b.world }
