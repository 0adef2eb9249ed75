package model

import (
	"fmt"

	"github.com/Faultbox/scenery/pkg/math"
)

// CalculateFlatNormals assigns each triangle's face normal to its three
// vertices. Vertices shared between triangles end up with the normal of the
// last triangle that touches them.
func CalculateFlatNormals(m *Mesh) error {
	return eachTriangle(m, func(a, b, c uint32) {
		n := faceNormal(m, a, b, c).Normalize().Array()
		m.Vertices[a].Normal = n
		m.Vertices[b].Normal = n
		m.Vertices[c].Normal = n
	})
}

// CalculateSmoothNormals sums the area-weighted face normals of every
// triangle touching a vertex and normalizes the result.
func CalculateSmoothNormals(m *Mesh) error {
	for i := range m.Vertices {
		m.Vertices[i].Normal = [3]float32{}
	}
	err := eachTriangle(m, func(a, b, c uint32) {
		n := faceNormal(m, a, b, c)
		for _, i := range [3]uint32{a, b, c} {
			m.Vertices[i].Normal = vec(m.Vertices[i].Normal).Add(n).Array()
		}
	})
	if err != nil {
		return err
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = vec(m.Vertices[i].Normal).Normalize().Array()
	}
	return nil
}

func faceNormal(m *Mesh, a, b, c uint32) math.Vec3 {
	pa := vec(m.Vertices[a].Position)
	pb := vec(m.Vertices[b].Position)
	pc := vec(m.Vertices[c].Position)
	return pb.Sub(pa).Cross(pc.Sub(pa))
}

func eachTriangle(m *Mesh, fn func(a, b, c uint32)) error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	n := uint32(len(m.Vertices))
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if a >= n || b >= n || c >= n {
			return fmt.Errorf("triangle %d references vertex out of range (%d vertices)", i/3, n)
		}
		fn(a, b, c)
	}
	return nil
}
