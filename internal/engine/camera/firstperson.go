package camera

import (
	gomath "math"

	"github.com/Faultbox/scenery/internal/engine/input"
	"github.com/Faultbox/scenery/pkg/math"
)

// maxPitch keeps the look direction away from the up axis.
const maxPitch = float32(gomath.Pi/2 - 0.01)

// FirstPerson moves freely. W/S/A/D translate along the look direction,
// Space/Shift move along up, arrows and mouse look rotate.
type FirstPerson struct {
	lens
	opts Options

	position math.Vec3
	yaw      float32 // around Y, zero looks down -Z
	pitch    float32
	up       math.Vec3
	view     math.Mat4
}

// NewFirstPerson creates a first-person camera at eye looking towards at.
func NewFirstPerson(name string, p Params, opts Options) *FirstPerson {
	c := &FirstPerson{lens: newLens(name, p), opts: opts, up: p.Up.XYZ()}
	c.SetPosition(p.Eye.XYZ())
	c.LookAt(p.At.XYZ())
	return c
}

func (c *FirstPerson) Type() string    { return TypeFirstPerson }
func (c *FirstPerson) Eye() math.Vec3  { return c.position }
func (c *FirstPerson) View() math.Mat4 { return c.view }

// Forward returns the unit look direction.
func (c *FirstPerson) Forward() math.Vec3 {
	cp := float32(gomath.Cos(float64(c.pitch)))
	return math.Vec3{
		X: cp * float32(gomath.Sin(float64(c.yaw))),
		Y: float32(gomath.Sin(float64(c.pitch))),
		Z: -cp * float32(gomath.Cos(float64(c.yaw))),
	}
}

// Right returns the unit direction to the camera's right.
func (c *FirstPerson) Right() math.Vec3 {
	return c.Forward().Cross(c.up).Normalize()
}

// Rotation returns pitch and yaw in radians.
func (c *FirstPerson) Rotation() (pitch, yaw float32) {
	return c.pitch, c.yaw
}

// Translate moves the camera by d in world space.
func (c *FirstPerson) Translate(d math.Vec3) {
	c.SetPosition(c.position.Add(d))
}

// SetPosition places the camera.
func (c *FirstPerson) SetPosition(p math.Vec3) {
	c.position = p
	c.updateView()
}

// Rotate adds to pitch and yaw.
func (c *FirstPerson) Rotate(pitch, yaw float32) {
	c.SetRotation(c.pitch+pitch, c.yaw+yaw)
}

// SetRotation sets pitch and yaw; pitch is clamped short of straight up or down.
func (c *FirstPerson) SetRotation(pitch, yaw float32) {
	c.pitch = clamp(pitch, -maxPitch, maxPitch)
	c.yaw = yaw
	c.updateView()
}

// LookTo points the camera along dir.
func (c *FirstPerson) LookTo(dir math.Vec3) {
	dir = dir.Normalize()
	if dir == (math.Vec3{}) {
		return
	}
	pitch := float32(gomath.Asin(float64(dir.Y)))
	yaw := float32(gomath.Atan2(float64(dir.X), float64(-dir.Z)))
	c.SetRotation(pitch, yaw)
}

// LookAt points the camera at target.
func (c *FirstPerson) LookAt(target math.Vec3) {
	c.LookTo(target.Sub(c.position))
}

func (c *FirstPerson) updateView() {
	c.view = math.LookTo(c.position, c.Forward(), c.up)
}

// Update integrates rotation then translation for this frame.
func (c *FirstPerson) Update(dt float32, in *input.State) {
	if in == nil {
		return
	}

	yaw := in.Axis(input.KeyRight, input.KeyLeft) * c.opts.RotateSpeed * dt
	pitch := in.Axis(input.KeyUp, input.KeyDown) * c.opts.RotateSpeed * dt
	if in.MouseLook {
		yaw += in.MouseDX * c.opts.MouseSensitivity
		pitch -= in.MouseDY * c.opts.MouseSensitivity
	}
	if yaw != 0 || pitch != 0 {
		c.Rotate(pitch, yaw)
	}

	step := c.opts.MoveSpeed * dt
	move := c.Forward().Scale(in.Axis(input.KeyW, input.KeyS)).
		Add(c.Right().Scale(in.Axis(input.KeyD, input.KeyA))).
		Add(c.up.Normalize().Scale(in.Axis(input.KeySpace, input.KeyShift)))
	if move != (math.Vec3{}) {
		c.Translate(move.Scale(step))
	}
}
