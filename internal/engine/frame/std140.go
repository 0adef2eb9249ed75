package frame

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/scenery/internal/engine/lighting"
	"github.com/Faultbox/scenery/pkg/math"
)

// std140 layout of the FrameData block.
//
//	offset    0  mat4 world
//	offset   64  mat4 view
//	offset  128  mat4 projection
//	offset  192  Material (64 bytes)
//	offset  256  DirectionalLight[4] (64 bytes each)
//	offset  512  PointLight[8]       (80 bytes each)
//	offset 1152  SpotLight[8]        (96 bytes each)
//	offset 1920  vec4 eyeWorldPos
//	offset 1936  uint counts[3] + pad
//
// Each light record ends its last vec3 row with its kind as a uint.
const (
	offsetWorld       = 0
	offsetView        = 64
	offsetProjection  = 128
	offsetMaterial    = 192
	offsetDirectional = 256
	offsetPoint       = offsetDirectional + MaxDirectionalLights*directionalStride
	offsetSpot        = offsetPoint + MaxPointLights*pointStride
	offsetEye         = offsetSpot + MaxSpotLights*spotStride
	offsetCounts      = offsetEye + 16

	directionalStride = 64
	pointStride       = 80
	spotStride        = 96

	// Size is the byte size of the marshalled image.
	Size = offsetCounts + 16
)

type writer struct {
	buf []byte
	off int
}

func (w *writer) f32(v float32) {
	binary.LittleEndian.PutUint32(w.buf[w.off:], gomath.Float32bits(v))
	w.off += 4
}

func (w *writer) u32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[w.off:], v)
	w.off += 4
}

func (w *writer) vec3(v math.Vec3) {
	w.f32(v.X)
	w.f32(v.Y)
	w.f32(v.Z)
}

func (w *writer) vec4(v math.Vec4) {
	w.f32(v.X)
	w.f32(v.Y)
	w.f32(v.Z)
	w.f32(v.W)
}

func (w *writer) mat4(m math.Mat4) {
	for _, v := range m {
		w.f32(v)
	}
}

func (w *writer) colors(c lighting.Colors) {
	w.vec4(c.Diffuse)
	w.vec4(c.Ambient)
	w.vec4(c.Specular)
}

func (w *writer) seek(off int) { w.off = off }

// Marshal returns the std140 image of img. Unused light slots are written
// as zeros.
func (img *Image) Marshal() []byte {
	buf := make([]byte, Size)
	img.MarshalTo(buf)
	return buf
}

// MarshalTo writes the std140 image into buf, which must be at least Size
// bytes long.
func (img *Image) MarshalTo(buf []byte) {
	w := &writer{buf: buf[:Size]}
	clear(w.buf)

	w.seek(offsetWorld)
	w.mat4(img.World)
	w.mat4(img.View)
	w.mat4(img.Projection)

	w.seek(offsetMaterial)
	w.vec4(img.Material.Diffuse)
	w.vec4(img.Material.Ambient)
	w.vec4(img.Material.Specular)
	w.f32(img.Material.SpecularFalloff)
	w.u32(0)
	w.u32(0)
	w.u32(0)

	for i, d := range img.Directional[:img.DirectionalCount] {
		w.seek(offsetDirectional + i*directionalStride)
		w.colors(d.Colors)
		w.vec3(d.DirectionToLight)
		w.u32(uint32(lighting.KindDirectional))
	}

	for i, p := range img.Point[:img.PointCount] {
		w.seek(offsetPoint + i*pointStride)
		writePoint(w, p)
	}

	for i, s := range img.Spot[:img.SpotCount] {
		w.seek(offsetSpot + i*spotStride)
		writePoint(w, s.Point)
		// Overwrite the kind tag written for the embedded point.
		w.off -= 4
		w.u32(uint32(lighting.KindSpot))
		w.vec3(s.Direction)
		w.f32(s.SpotPower)
	}

	w.seek(offsetEye)
	w.vec4(img.EyeWorldPos)

	w.seek(offsetCounts)
	w.u32(uint32(img.DirectionalCount))
	w.u32(uint32(img.PointCount))
	w.u32(uint32(img.SpotCount))
	w.u32(0)
}

func writePoint(w *writer, p lighting.Point) {
	w.colors(p.Colors)
	w.vec3(p.Position)
	w.f32(p.Range)
	w.vec3(p.Attenuation)
	w.u32(uint32(lighting.KindPoint))
}
