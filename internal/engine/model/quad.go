package model

// Quad builds a w by h rectangle in the XY plane facing +Z. The bottom edge
// is centered on the origin so a billboard stands on its position.
func Quad(w, h float32) *Mesh {
	hw := w / 2
	n := [3]float32{0, 0, 1}
	m := &Mesh{
		Vertices: []Vertex{
			{Position: [3]float32{-hw, h, 0}, Normal: n, TexCoord: [2]float32{0, 0}},
			{Position: [3]float32{hw, h, 0}, Normal: n, TexCoord: [2]float32{1, 0}},
			{Position: [3]float32{-hw, 0, 0}, Normal: n, TexCoord: [2]float32{0, 1}},
			{Position: [3]float32{hw, 0, 0}, Normal: n, TexCoord: [2]float32{1, 1}},
		},
		Indices: []uint32{0, 2, 1, 1, 2, 3},
	}
	m.ComputeBounds()
	return m
}
