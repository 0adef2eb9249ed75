package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrOBJNoGeometry   = errors.New("obj: no faces")
	ErrOBJBadIndex     = errors.New("obj: face index out of range")
	ErrOBJBadStatement = errors.New("obj: malformed statement")
)

// OBJCorner is one face corner. Indices are 0-based; -1 means absent.
type OBJCorner struct {
	V, VT, VN int
}

// OBJVertex is a fully resolved vertex.
type OBJVertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// OBJ is a parsed Wavefront OBJ file. Polygons are fan-triangulated while
// parsing, so Triangles always holds whole triangles.
type OBJ struct {
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Triangles [][3]OBJCorner
}

// HasNormals reports whether every corner references a normal.
func (o *OBJ) HasNormals() bool {
	for _, tri := range o.Triangles {
		for _, c := range tri {
			if c.VN < 0 {
				return false
			}
		}
	}
	return len(o.Triangles) > 0
}

// Build resolves the corners into a vertex/index list. Identical corners
// share one vertex.
func (o *OBJ) Build() ([]OBJVertex, []uint32) {
	seen := make(map[OBJCorner]uint32)
	var vertices []OBJVertex
	indices := make([]uint32, 0, len(o.Triangles)*3)

	for _, tri := range o.Triangles {
		for _, c := range tri {
			if idx, ok := seen[c]; ok {
				indices = append(indices, idx)
				continue
			}
			v := OBJVertex{Position: o.Positions[c.V]}
			if c.VN >= 0 {
				v.Normal = o.Normals[c.VN]
			}
			if c.VT >= 0 {
				v.TexCoord = o.TexCoords[c.VT]
			}
			idx := uint32(len(vertices))
			vertices = append(vertices, v)
			seen[c] = idx
			indices = append(indices, idx)
		}
	}
	return vertices, indices
}

// ParseOBJ parses OBJ text. Only v, vt, vn and f statements are used;
// grouping, materials and smoothing statements are ignored.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	obj := &OBJ{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		var err error
		switch fields[0] {
		case "v":
			var p [3]float32
			err = parseFloats(fields[1:], p[:])
			obj.Positions = append(obj.Positions, p)
		case "vn":
			var n [3]float32
			err = parseFloats(fields[1:], n[:])
			obj.Normals = append(obj.Normals, n)
		case "vt":
			var uv [2]float32
			err = parseFloats(fields[1:], uv[:])
			obj.TexCoords = append(obj.TexCoords, uv)
		case "f":
			err = obj.addFace(fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(obj.Triangles) == 0 {
		return nil, ErrOBJNoGeometry
	}
	return obj, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()
	return ParseOBJ(f)
}

func parseFloats(fields []string, out []float32) error {
	if len(fields) < len(out) {
		return fmt.Errorf("%w: want %d values, got %d", ErrOBJBadStatement, len(out), len(fields))
	}
	for i := range out {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrOBJBadStatement, err)
		}
		out[i] = float32(v)
	}
	return nil
}

func (o *OBJ) addFace(tokens []string) error {
	if len(tokens) < 3 {
		return fmt.Errorf("%w: face with %d corners", ErrOBJBadStatement, len(tokens))
	}
	corners := make([]OBJCorner, len(tokens))
	for i, tok := range tokens {
		c, err := o.parseCorner(tok)
		if err != nil {
			return err
		}
		corners[i] = c
	}
	// Fan triangulation: 0-1-2, 0-2-3, ...
	for i := 1; i+1 < len(corners); i++ {
		o.Triangles = append(o.Triangles, [3]OBJCorner{corners[0], corners[i], corners[i+1]})
	}
	return nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn". Negative indices
// count back from the most recent element.
func (o *OBJ) parseCorner(tok string) (OBJCorner, error) {
	parts := strings.Split(tok, "/")
	c := OBJCorner{V: -1, VT: -1, VN: -1}
	counts := [3]int{len(o.Positions), len(o.TexCoords), len(o.Normals)}
	dst := [3]*int{&c.V, &c.VT, &c.VN}

	if len(parts) > 3 || parts[0] == "" {
		return c, fmt.Errorf("%w: face corner %q", ErrOBJBadStatement, tok)
	}
	for i, s := range parts {
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return c, fmt.Errorf("%w: face corner %q", ErrOBJBadStatement, tok)
		}
		switch {
		case n > 0:
			n--
		case n < 0:
			n += counts[i]
		default:
			return c, fmt.Errorf("%w: zero index in %q", ErrOBJBadIndex, tok)
		}
		if n < 0 || n >= counts[i] {
			return c, fmt.Errorf("%w: %q", ErrOBJBadIndex, tok)
		}
		*dst[i] = n
	}
	return c, nil
}
