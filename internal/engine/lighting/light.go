// Package lighting defines the light sources a scene can hold.
//
// Light is a closed sum type: only Directional, Point and Spot implement it,
// and each reports a fixed Kind, so the discriminant can never disagree with
// the payload. Consumers switch on the concrete type.
package lighting

import (
	"fmt"

	"github.com/Faultbox/scenery/pkg/math"
)

// Kind identifies the variant of a light.
type Kind uint32

// Kind values. The numeric values are written into the frame buffer.
const (
	KindDirectional Kind = iota
	KindPoint
	KindSpot
)

// String returns the kind name used in descriptors and error messages.
func (k Kind) String() string {
	switch k {
	case KindDirectional:
		return "directional"
	case KindPoint:
		return "point"
	case KindSpot:
		return "spot"
	default:
		return fmt.Sprintf("kind(%d)", uint32(k))
	}
}

// Colors is the block every light carries.
type Colors struct {
	Diffuse  math.Vec4
	Ambient  math.Vec4
	Specular math.Vec4
}

// Light is implemented by Directional, Point and Spot only.
type Light interface {
	Kind() Kind
	Color() Colors
	light()
}

// Directional is a light at infinity.
type Directional struct {
	Colors
	// DirectionToLight points from the lit surface towards the light.
	DirectionToLight math.Vec3
}

// Point is a positional light with distance attenuation.
type Point struct {
	Colors
	Position math.Vec3
	Range    float32
	// Attenuation holds the constant, linear and quadratic factors.
	Attenuation math.Vec3
}

// Spot is a point light restricted to a cone.
type Spot struct {
	Point
	Direction math.Vec3
	SpotPower float32
}

func (Directional) Kind() Kind { return KindDirectional }
func (Point) Kind() Kind       { return KindPoint }
func (Spot) Kind() Kind        { return KindSpot }

func (d Directional) Color() Colors { return d.Colors }
func (p Point) Color() Colors       { return p.Colors }
func (s Spot) Color() Colors        { return s.Colors }

func (Directional) light() {}
func (Point) light()       {}
func (Spot) light()        {}
