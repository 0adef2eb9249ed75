package camera

import (
	gomath "math"

	"github.com/Faultbox/scenery/internal/engine/input"
	"github.com/Faultbox/scenery/pkg/math"
)

// Orbit circles a center point. Dragging with the look button held rotates
// it; the movement keys change pitch and distance.
type Orbit struct {
	lens

	Center math.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSpeed       float32
	KeySpeed        float32

	up   math.Vec3
	view math.Mat4
}

// NewOrbit creates an orbit camera whose initial position is the
// descriptor's eye, circling the descriptor's target.
func NewOrbit(name string, p Params, opts Options) *Orbit {
	eye, at := p.Eye.XYZ(), p.At.XYZ()
	offset := eye.Sub(at)
	dist := offset.Length()

	c := &Orbit{
		lens:            newLens(name, p),
		Center:          at,
		Distance:        dist,
		MinDistance:     dist * 0.1,
		MaxDistance:     dist * 10,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: opts.MouseSensitivity,
		ZoomSpeed:       opts.MoveSpeed,
		KeySpeed:        opts.RotateSpeed,
		up:              p.Up.XYZ(),
	}
	if dist > 0 {
		c.RotationX = float32(gomath.Asin(float64(offset.Y / dist)))
		c.RotationY = float32(gomath.Atan2(float64(offset.X), float64(offset.Z)))
	}
	c.updateView()
	return c
}

func (c *Orbit) Type() string { return TypeOrbiting }

// Eye returns the camera position in world space.
func (c *Orbit) Eye() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))
	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

func (c *Orbit) View() math.Mat4 { return c.view }

func (c *Orbit) updateView() {
	c.view = math.LookAt(c.Eye(), c.Center, c.up)
}

// Update applies drag rotation and key zoom/pitch.
func (c *Orbit) Update(dt float32, in *input.State) {
	if in == nil {
		return
	}
	if in.MouseLook {
		c.HandleDrag(in.MouseDX, in.MouseDY)
	}
	c.RotationY += in.Axis(input.KeyRight, input.KeyLeft) * c.KeySpeed * dt
	c.RotationX += in.Axis(input.KeyUp, input.KeyDown) * c.KeySpeed * dt
	c.HandleZoom(in.Axis(input.KeyW, input.KeyS) * c.ZoomSpeed * dt)
	c.clamp()
	c.updateView()
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *Orbit) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity
	c.clamp()
}

// HandleZoom moves towards the center by delta units.
func (c *Orbit) HandleZoom(delta float32) {
	c.Distance -= delta
	c.clamp()
}

func (c *Orbit) clamp() {
	c.RotationX = clamp(c.RotationX, c.MinPitch, c.MaxPitch)
	if c.MaxDistance > 0 {
		c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
	}
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
