// Package transform holds position, rotation and scale and keeps the
// derived world matrix in step with them.
package transform

import "github.com/Faultbox/scenery/pkg/math"

// Transform is a position, Euler rotation (radians) and scale together with
// the world matrix derived from them. The world matrix is recomputed on every
// mutation and is never stale.
type Transform struct {
	position math.Vec3
	rotation math.Vec3
	scale    math.Vec3
	world    math.Mat4
}

// New creates a transform and computes its world matrix.
func New(position, rotation, scale math.Vec3) Transform {
	t := Transform{position: position, rotation: rotation, scale: scale}
	t.recompute()
	return t
}

// Identity is a transform at the origin with unit scale.
func Identity() Transform {
	return New(math.Vec3{}, math.Vec3{}, math.Splat(1))
}

func (t *Transform) recompute() {
	t.world = math.Compose(t.position, t.rotation, t.scale)
}

// Position returns the translation component.
func (t *Transform) Position() math.Vec3 { return t.position }

// Rotation returns the Euler angles in radians.
func (t *Transform) Rotation() math.Vec3 { return t.rotation }

// ScaleFactor returns the scale component.
func (t *Transform) ScaleFactor() math.Vec3 { return t.scale }

// World returns the world matrix.
func (t *Transform) World() math.Mat4 { return t.world }

// SetPosition replaces the translation.
func (t *Transform) SetPosition(p math.Vec3) {
	t.position = p
	t.recompute()
}

// SetRotation replaces the Euler angles.
func (t *Transform) SetRotation(r math.Vec3) {
	t.rotation = r
	t.recompute()
}

// SetScale replaces the scale.
func (t *Transform) SetScale(s math.Vec3) {
	t.scale = s
	t.recompute()
}

// Translate adds d to the position.
func (t *Transform) Translate(d math.Vec3) {
	t.SetPosition(t.position.Add(d))
}

// Rotate adds d to the Euler angles. Rotate(a) then Rotate(b) is the same
// as SetRotation(a+b); rotations are not composed as matrices.
func (t *Transform) Rotate(d math.Vec3) {
	t.SetRotation(t.rotation.Add(d))
}

// Scale adds d to the scale components.
func (t *Transform) Scale(d math.Vec3) {
	t.SetScale(t.scale.Add(d))
}
