package lighting

import "github.com/Faultbox/scenery/pkg/math"

// Material describes how a surface responds to light. Materials are
// immutable after load and shared by every actor that names them.
type Material struct {
	Diffuse         math.Vec4
	Ambient         math.Vec4
	Specular        math.Vec4
	SpecularFalloff float32
}

// DefaultMaterial is a white diffuse surface with a dim ambient term.
func DefaultMaterial() Material {
	return Material{
		Diffuse:         math.RGBA(1, 1, 1, 1),
		Ambient:         math.RGBA(0.2, 0.2, 0.2, 1),
		Specular:        math.RGBA(1, 1, 1, 1),
		SpecularFalloff: 10,
	}
}
