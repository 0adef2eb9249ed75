package level

import (
	"bytes"
	"encoding/json"
	"fmt"
	gomath "math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scenery/internal/engine/camera"
	"github.com/Faultbox/scenery/internal/engine/lighting"
	"github.com/Faultbox/scenery/pkg/math"
)

// AssetDesc names a file-backed resource.
type AssetDesc struct {
	Name string
	Path string
}

// MaterialDesc is a named material.
type MaterialDesc struct {
	Name     string
	Material lighting.Material
}

// ActorDesc places a mesh instance.
type ActorDesc struct {
	Name        string
	Mesh        string
	Material    string
	DiffuseMap  string
	SpecularMap string // empty when absent
	Position    math.Vec3
	Rotation    math.Vec3
	Scale       math.Vec3
}

// BillboardDesc places a camera-facing quad.
type BillboardDesc struct {
	Name       string
	Material   string
	DiffuseMap string
	Position   math.Vec3
	Size       math.Vec2
}

// CameraDesc describes one camera.
type CameraDesc struct {
	Name   string
	Type   string
	Params camera.Params
}

// DirectionalDesc is a named directional light.
type DirectionalDesc struct {
	Name  string
	Light lighting.Directional
}

// PointDesc is a named point light.
type PointDesc struct {
	Name  string
	Light lighting.Point
}

// SpotDesc is a named spot light.
type SpotDesc struct {
	Name  string
	Light lighting.Spot
}

// Descriptor is a validated scene description.
type Descriptor struct {
	Name          string
	DefaultCamera string

	Meshes            []AssetDesc
	Materials         []MaterialDesc
	Textures          []AssetDesc
	Actors            []ActorDesc
	Billboards        []BillboardDesc
	Cameras           []CameraDesc
	DirectionalLights []DirectionalDesc
	PointLights       []PointDesc
	SpotLights        []SpotDesc
}

// Descriptor formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatOf picks the descriptor format from a file extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", &ParseError{File: path, Reason: "unsupported descriptor extension"}
	}
}

// ReadDescriptor reads and validates a descriptor file.
func ReadDescriptor(path string) (*Descriptor, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{File: path, Reason: err.Error()}
	}
	desc, err := ParseDescriptor(data, format)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.File = path
		}
		return nil, err
	}
	return desc, nil
}

// ParseDescriptor decodes data into a generic tree, then extracts and
// validates every field. The first problem aborts extraction.
func ParseDescriptor(data []byte, format string) (*Descriptor, error) {
	var root any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&root); err != nil {
			return nil, &ParseError{Reason: err.Error()}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, &ParseError{Reason: err.Error()}
		}
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unknown format %q", format)}
	}

	m, ok := root.(map[string]any)
	if !ok {
		return nil, &ParseError{Reason: "top level is not an object"}
	}

	x := &extractor{}
	desc := x.descriptor(node{m: m})
	if x.err != nil {
		return nil, x.err
	}
	return desc, nil
}

// node is an object in the generic tree together with its path.
type node struct {
	path string
	m    map[string]any
}

func (n node) field(key string) string {
	if n.path == "" {
		return key
	}
	return n.path + "." + key
}

type extractor struct {
	err error
}

func (x *extractor) fail(path, format string, args ...any) {
	if x.err == nil {
		x.err = &ParseError{Path: path, Reason: fmt.Sprintf(format, args...)}
	}
}

func (x *extractor) str(n node, key string) string {
	v, ok := n.m[key]
	if !ok {
		x.fail(n.field(key), "missing required field")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		x.fail(n.field(key), "expected string, got %T", v)
	}
	return s
}

func (x *extractor) optStr(n node, key string) string {
	if v, ok := n.m[key]; !ok || v == nil {
		return ""
	}
	return x.str(n, key)
}

func (x *extractor) num(n node, key string) float32 {
	v, ok := n.m[key]
	if !ok {
		x.fail(n.field(key), "missing required field")
		return 0
	}
	f, ok := toFloat(v)
	if !ok {
		x.fail(n.field(key), "expected finite number, got %T %v", v, v)
	}
	return f
}

func (x *extractor) optNum(n node, key string, def float32) float32 {
	if _, ok := n.m[key]; !ok {
		return def
	}
	return x.num(n, key)
}

// toFloat accepts any numeric scalar the JSON or YAML decoder produces and
// rejects values that are not finite as float32.
func toFloat(v any) (float32, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		var err error
		if f, err = t.Float64(); err != nil {
			return 0, false
		}
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint64:
		f = float64(t)
	default:
		return 0, false
	}
	if gomath.IsNaN(f) || gomath.IsInf(f, 0) || gomath.Abs(f) > gomath.MaxFloat32 {
		return 0, false
	}
	return float32(f), true
}

// array returns the elements of an optional array of objects.
func (x *extractor) array(n node, key string) []node {
	v, ok := n.m[key]
	if !ok || v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		x.fail(n.field(key), "expected array, got %T", v)
		return nil
	}
	out := make([]node, 0, len(list))
	for i, e := range list {
		path := fmt.Sprintf("%s[%d]", n.field(key), i)
		m, ok := e.(map[string]any)
		if !ok {
			x.fail(path, "expected object, got %T", e)
			return nil
		}
		out = append(out, node{path: path, m: m})
	}
	return out
}

func (x *extractor) vec3(n node, prefix string) math.Vec3 {
	return math.Vec3{
		X: x.num(n, prefix+"_x"),
		Y: x.num(n, prefix+"_y"),
		Z: x.num(n, prefix+"_z"),
	}
}

func (x *extractor) optVec3(n node, prefix string, def math.Vec3) math.Vec3 {
	return math.Vec3{
		X: x.optNum(n, prefix+"_x", def.X),
		Y: x.optNum(n, prefix+"_y", def.Y),
		Z: x.optNum(n, prefix+"_z", def.Z),
	}
}

// vec4 reads prefix_x..z and an optional prefix_w.
func (x *extractor) vec4(n node, prefix string, w float32) math.Vec4 {
	v := x.vec3(n, prefix)
	return math.Vec4{X: v.X, Y: v.Y, Z: v.Z, W: x.optNum(n, prefix+"_w", w)}
}

func (x *extractor) rgba(n node, prefix string) math.Vec4 {
	return math.Vec4{
		X: x.num(n, prefix+"_r"),
		Y: x.num(n, prefix+"_g"),
		Z: x.num(n, prefix+"_b"),
		W: x.num(n, prefix+"_a"),
	}
}

func (x *extractor) colors(n node) lighting.Colors {
	return lighting.Colors{
		Diffuse:  x.rgba(n, "diffuse"),
		Ambient:  x.rgba(n, "ambient"),
		Specular: x.rgba(n, "specular"),
	}
}

func (x *extractor) point(n node) lighting.Point {
	return lighting.Point{
		Colors:   x.colors(n),
		Position: x.vec3(n, "position"),
		Range:    x.num(n, "range"),
		Attenuation: math.Vec3{
			X: x.num(n, "attenuation_r"),
			Y: x.num(n, "attenuation_g"),
			Z: x.num(n, "attenuation_b"),
		},
	}
}

// checkView rejects camera parameters that give a degenerate view or
// projection matrix.
func (x *extractor) checkView(e node, p camera.Params) {
	forward := p.At.XYZ().Sub(p.Eye.XYZ())
	switch {
	case p.Near <= 0:
		x.fail(e.field("nearDepth"), "nearDepth must be positive")
	case p.Near >= p.Far:
		x.fail(e.field("farDepth"), "farDepth must exceed nearDepth")
	case forward.Length() < degenerateEpsilon:
		x.fail(e.field("at"), "eye and at coincide")
	case p.Up.XYZ().Length() < degenerateEpsilon:
		x.fail(e.field("up"), "up vector is zero")
	case forward.Normalize().Cross(p.Up.XYZ().Normalize()).Length() < degenerateEpsilon:
		x.fail(e.field("up"), "up is parallel to the view direction")
	}
}

const degenerateEpsilon = 1e-6

func (x *extractor) assets(n node, key string) []AssetDesc {
	var out []AssetDesc
	for _, e := range x.array(n, key) {
		out = append(out, AssetDesc{Name: x.str(e, "name"), Path: x.str(e, "path")})
	}
	return out
}

func (x *extractor) descriptor(root node) *Descriptor {
	d := &Descriptor{
		Name:          x.str(root, "name"),
		DefaultCamera: x.str(root, "defaultCamera"),
		Meshes:        x.assets(root, "meshes"),
		Textures:      x.assets(root, "textures"),
	}

	for _, e := range x.array(root, "materials") {
		d.Materials = append(d.Materials, MaterialDesc{
			Name: x.str(e, "name"),
			Material: lighting.Material{
				Diffuse:         x.rgba(e, "diffuse"),
				Ambient:         x.rgba(e, "ambient"),
				Specular:        x.rgba(e, "specular"),
				SpecularFalloff: x.num(e, "specularFalloff"),
			},
		})
	}

	for _, e := range x.array(root, "actors") {
		d.Actors = append(d.Actors, ActorDesc{
			Name:        x.str(e, "name"),
			Mesh:        x.str(e, "mesh"),
			Material:    x.str(e, "material"),
			DiffuseMap:  x.str(e, "diffuseMap"),
			SpecularMap: x.optStr(e, "specularMap"),
			Position:    x.vec3(e, "position"),
			Rotation:    x.optVec3(e, "rotation", math.Vec3{}),
			Scale:       x.optVec3(e, "scale", math.Splat(1)),
		})
	}

	for _, e := range x.array(root, "billboards") {
		d.Billboards = append(d.Billboards, BillboardDesc{
			Name:       x.str(e, "name"),
			Material:   x.str(e, "material"),
			DiffuseMap: x.str(e, "diffuseMap"),
			Position:   x.vec3(e, "position"),
			Size:       math.Vec2{X: x.num(e, "size_x"), Y: x.num(e, "size_y")},
		})
	}

	for _, e := range x.array(root, "cameras") {
		c := CameraDesc{
			Name: x.str(e, "name"),
			Type: x.str(e, "type"),
			Params: camera.Params{
				Eye:  x.vec4(e, "eye", 1),
				At:   x.vec4(e, "at", 1),
				Up:   x.vec4(e, "up", 0),
				Near: x.num(e, "nearDepth"),
				Far:  x.num(e, "farDepth"),
			},
		}
		if fov := x.optNum(e, "fov", 0); fov > 0 {
			c.Params.FovY = fov * gomath.Pi / 180
		}
		if x.err == nil {
			x.checkView(e, c.Params)
		}
		d.Cameras = append(d.Cameras, c)
	}

	for _, e := range x.array(root, "directionalLights") {
		d.DirectionalLights = append(d.DirectionalLights, DirectionalDesc{
			Name: x.str(e, "name"),
			Light: lighting.Directional{
				Colors:           x.colors(e),
				DirectionToLight: x.vec3(e, "direction"),
			},
		})
	}

	for _, e := range x.array(root, "pointLights") {
		d.PointLights = append(d.PointLights, PointDesc{
			Name:  x.str(e, "name"),
			Light: x.point(e),
		})
	}

	for _, e := range x.array(root, "spotLights") {
		d.SpotLights = append(d.SpotLights, SpotDesc{
			Name: x.str(e, "name"),
			Light: lighting.Spot{
				Point:     x.point(e),
				Direction: x.vec3(e, "direction"),
				SpotPower: x.num(e, "spot"),
			},
		})
	}

	return d
}
