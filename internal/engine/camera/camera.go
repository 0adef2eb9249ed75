// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/scenery/internal/engine/input"
	"github.com/Faultbox/scenery/pkg/math"
)

// Camera type names used in scene descriptors.
const (
	TypeFixed       = "fixed"
	TypeOrbiting    = "orbiting"
	TypeFirstPerson = "firstPerson"
)

// ErrUnknownType is returned by New for an unrecognised type string.
var ErrUnknownType = errors.New("unknown camera type")

// Camera supplies the view and projection for a frame.
type Camera interface {
	Name() string
	Type() string
	Eye() math.Vec3
	View() math.Mat4
	Projection() math.Mat4
	// Update advances the camera by dt seconds using the frame's input.
	Update(dt float32, in *input.State)
	// Reshape recomputes the projection for a new viewport size.
	Reshape(width, height int)
}

// Params describe a camera as stored in a scene descriptor.
type Params struct {
	Eye, At, Up math.Vec4
	Near, Far   float32
	// FovY is the vertical field of view in radians; zero selects DefaultFovY.
	FovY          float32
	Width, Height int
}

// DefaultFovY is a 90 degree vertical field of view.
const DefaultFovY = float32(gomath.Pi / 2)

// Options tune interactive cameras.
type Options struct {
	MoveSpeed        float32 // units per second
	RotateSpeed      float32 // radians per second for key rotation
	MouseSensitivity float32 // radians per pixel
}

// DefaultOptions returns the interactive defaults.
func DefaultOptions() Options {
	return Options{
		MoveSpeed:        5,
		RotateSpeed:      1.5,
		MouseSensitivity: 0.005,
	}
}

// New creates a camera of the named type.
func New(name, typ string, p Params, opts Options) (Camera, error) {
	switch typ {
	case TypeFixed:
		return NewFixed(name, p), nil
	case TypeOrbiting:
		return NewOrbit(name, p, opts), nil
	case TypeFirstPerson, "first_person":
		return NewFirstPerson(name, p, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
}

// lens holds the projection state shared by every camera type.
type lens struct {
	name       string
	fovY       float32
	near, far  float32
	aspect     float32
	projection math.Mat4
}

func newLens(name string, p Params) lens {
	l := lens{name: name, fovY: p.FovY, near: p.Near, far: p.Far}
	if l.fovY <= 0 {
		l.fovY = DefaultFovY
	}
	l.Reshape(p.Width, p.Height)
	return l
}

func (l *lens) Name() string { return l.name }

func (l *lens) Projection() math.Mat4 { return l.projection }

func (l *lens) Reshape(width, height int) {
	l.aspect = 1
	if width > 0 && height > 0 {
		l.aspect = float32(width) / float32(height)
	}
	l.projection = math.Perspective(l.fovY, l.aspect, l.near, l.far)
}
