// Package model holds CPU-side mesh data ready for GPU upload.
package model

import "github.com/Faultbox/scenery/pkg/math"

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
// The layout matches vertex attribute locations 0, 1 and 2.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// VertexSize is the byte stride of Vertex.
const VertexSize = 8 * 4

// Mesh holds indexed triangle data.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// ComputeBounds recalculates m.Bounds from the vertex positions.
func (m *Mesh) ComputeBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = Bounds{}
		return
	}
	first := vec(m.Vertices[0].Position)
	b := Bounds{Min: first, Max: first}
	for _, v := range m.Vertices[1:] {
		p := vec(v.Position)
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	m.Bounds = b
}

// IndexCount returns the number of indices to draw.
func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

// HasNormals reports whether any vertex carries a non-zero normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal != [3]float32{} {
			return true
		}
	}
	return false
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
