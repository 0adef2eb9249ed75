package camera

import (
	"github.com/Faultbox/scenery/internal/engine/input"
	"github.com/Faultbox/scenery/pkg/math"
)

// Fixed looks from eye at a fixed target and ignores input.
type Fixed struct {
	lens
	eye, at, up math.Vec3
	view        math.Mat4
}

// NewFixed creates a fixed look-at camera.
func NewFixed(name string, p Params) *Fixed {
	c := &Fixed{lens: newLens(name, p), eye: p.Eye.XYZ(), at: p.At.XYZ(), up: p.Up.XYZ()}
	c.view = math.LookAt(c.eye, c.at, c.up)
	return c
}

func (c *Fixed) Type() string                      { return TypeFixed }
func (c *Fixed) Eye() math.Vec3                    { return c.eye }
func (c *Fixed) View() math.Mat4                   { return c.view }
func (c *Fixed) Update(dt float32, in *input.State) {}
