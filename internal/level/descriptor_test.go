package level

import (
	"errors"
	gomath "math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Faultbox/scenery/internal/engine/lighting"
	"github.com/Faultbox/scenery/pkg/math"
)

func TestReadDescriptorJSON(t *testing.T) {
	d, err := ReadDescriptor("testdata/scene.json")
	if err != nil {
		t.Fatalf("ReadDescriptor() error: %v", err)
	}

	if d.Name != "crate room" || d.DefaultCamera != "fixed1" {
		t.Errorf("header = %q/%q", d.Name, d.DefaultCamera)
	}
	if len(d.Meshes) != 1 || d.Meshes[0] != (AssetDesc{Name: "cube", Path: "cube.obj"}) {
		t.Errorf("Meshes = %+v", d.Meshes)
	}
	if len(d.Textures) != 2 {
		t.Errorf("Textures = %+v", d.Textures)
	}

	wantMat := lighting.Material{
		Diffuse:         math.Vec4{X: 1, Y: 0.5, Z: 0.25, W: 1},
		Ambient:         math.Vec4{X: 0.1, Y: 0.1, Z: 0.1, W: 1},
		Specular:        math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
		SpecularFalloff: 32,
	}
	if d.Materials[0].Material != wantMat {
		t.Errorf("Material = %+v, want %+v", d.Materials[0].Material, wantMat)
	}

	a := d.Actors[0]
	if a.SpecularMap != "crateSpecular" || a.Scale != math.Splat(1) {
		t.Errorf("Actor = %+v", a)
	}

	bb := d.Billboards[0]
	if bb.Size != (math.Vec2{X: 2, Y: 3}) || bb.Position != (math.Vec3{X: 4}) {
		t.Errorf("Billboard = %+v", bb)
	}

	walker := d.Cameras[1]
	if walker.Type != "firstPerson" {
		t.Errorf("camera type = %q", walker.Type)
	}
	if walker.Params.Eye.W != 1 || walker.Params.Up.W != 0 {
		t.Errorf("default w components wrong: eye %v up %v", walker.Params.Eye, walker.Params.Up)
	}
	if gomath.Abs(float64(walker.Params.FovY)-gomath.Pi/3) > 1e-6 {
		t.Errorf("FovY = %f, want pi/3", walker.Params.FovY)
	}
	if d.Cameras[0].Params.FovY != 0 {
		t.Errorf("FovY without fov key = %f, want 0", d.Cameras[0].Params.FovY)
	}

	spot := d.SpotLights[0].Light
	if spot.SpotPower != 8 || spot.Direction != (math.Vec3{Y: -1}) || spot.Range != 30 {
		t.Errorf("Spot = %+v", spot)
	}
	point := d.PointLights[0].Light
	if point.Attenuation != (math.Vec3{X: 1, Y: 0.1, Z: 0.01}) {
		t.Errorf("Attenuation = %v", point.Attenuation)
	}
}

func TestReadDescriptorYAMLMatchesJSON(t *testing.T) {
	fromJSON, err := ReadDescriptor("testdata/scene.json")
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	fromYAML, err := ReadDescriptor("testdata/scene.yaml")
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !reflect.DeepEqual(fromJSON, fromYAML) {
		t.Errorf("descriptors differ:\njson: %+v\nyaml: %+v", fromJSON, fromYAML)
	}
}

func TestParseDescriptorOptionalArrays(t *testing.T) {
	d, err := ParseDescriptor([]byte(`{"name": "empty", "defaultCamera": "main"}`), FormatJSON)
	if err != nil {
		t.Fatalf("ParseDescriptor() error: %v", err)
	}
	if len(d.Meshes)+len(d.Actors)+len(d.Cameras)+len(d.PointLights) != 0 {
		t.Errorf("expected empty descriptor, got %+v", d)
	}
}

func TestParseDescriptorActorDefaults(t *testing.T) {
	src := `{"name": "defaults", "defaultCamera": "c", "actors": [
		{"name": "a", "mesh": "m", "material": "x", "diffuseMap": "t",
		 "position_x": 1, "position_y": 2, "position_z": 3}]}`
	d, err := ParseDescriptor([]byte(src), FormatJSON)
	if err != nil {
		t.Fatalf("ParseDescriptor() error: %v", err)
	}
	a := d.Actors[0]
	if a.Rotation != (math.Vec3{}) || a.Scale != math.Splat(1) || a.SpecularMap != "" {
		t.Errorf("defaults not applied: %+v", a)
	}
}

func TestParseDescriptorErrors(t *testing.T) {
	actor := `{"name": "a", "mesh": "m", "material": "x", "diffuseMap": "t", "position_x": 0, "position_y": 0, "position_z": 0}`
	cam := func(fields string) string {
		return `{"name": "s", "defaultCamera": "c", "cameras": [{"name": "c", "type": "fixed", ` + fields + `}]}`
	}
	yamlCam := func(fields string) string {
		return "name: s\ndefaultCamera: c\ncameras:\n  - name: c\n    type: fixed\n" + fields
	}
	tests := []struct {
		name   string
		format string
		src    string
		path   string
	}{
		{"missing name", FormatJSON, `{"defaultCamera": "c", "cameras": []}`, "name"},
		{"missing default camera", FormatJSON, `{"name": "s"}`, "defaultCamera"},
		{"missing field path", FormatJSON, `{"name": "s", "defaultCamera": "c", "actors": [` + actor + `, {"name": "b", "mesh": "m", "material": "x", "diffuseMap": "t", "position_x": 0, "position_z": 0}]}`, "actors[1].position_y"},
		{"wrong type", FormatJSON, `{"name": "s", "defaultCamera": "c", "meshes": [{"name": "m", "path": 5}]}`, "meshes[0].path"},
		{"not an array", FormatJSON, `{"name": "s", "defaultCamera": "c", "meshes": {"name": "m"}}`, "meshes"},
		{"element not object", FormatJSON, `{"name": "s", "defaultCamera": "c", "textures": ["a"]}`, "textures[0]"},
		{"number as string", FormatJSON, `{"name": "s", "defaultCamera": "c", "materials": [{"name": "m", "diffuse_r": "1"}]}`, "materials[0].diffuse_r"},
		{"json overflow", FormatJSON, `{"name": "s", "defaultCamera": "c", "materials": [{"name": "m", "diffuse_r": 1e40}]}`, "materials[0].diffuse_r"},
		{"bad depth range", FormatJSON, cam(`"eye_x": 0, "eye_y": 0, "eye_z": 1, "at_x": 0, "at_y": 0, "at_z": 0, "up_x": 0, "up_y": 1, "up_z": 0, "nearDepth": 10, "farDepth": 1`), "cameras[0].farDepth"},
		{"non-positive near", FormatJSON, cam(`"eye_x": 0, "eye_y": 0, "eye_z": 1, "at_x": 0, "at_y": 0, "at_z": 0, "up_x": 0, "up_y": 1, "up_z": 0, "nearDepth": 0, "farDepth": 10`), "cameras[0].nearDepth"},
		{"eye equals at", FormatJSON, cam(`"eye_x": 1, "eye_y": 2, "eye_z": 3, "at_x": 1, "at_y": 2, "at_z": 3, "up_x": 0, "up_y": 1, "up_z": 0, "nearDepth": 0.1, "farDepth": 10`), "cameras[0].at"},
		{"zero up", FormatJSON, cam(`"eye_x": 0, "eye_y": 0, "eye_z": 1, "at_x": 0, "at_y": 0, "at_z": 0, "up_x": 0, "up_y": 0, "up_z": 0, "nearDepth": 0.1, "farDepth": 10`), "cameras[0].up"},
		{"up parallel to view", FormatJSON, cam(`"eye_x": 0, "eye_y": 5, "eye_z": 0, "at_x": 0, "at_y": 0, "at_z": 0, "up_x": 0, "up_y": 1, "up_z": 0, "nearDepth": 0.1, "farDepth": 10`), "cameras[0].up"},
		{"yaml missing name", FormatYAML, "defaultCamera: c\n", "name"},
		{"yaml nan", FormatYAML, yamlCam("    eye_x: .nan\n    eye_y: 0\n    eye_z: 1\n"), "cameras[0].eye_x"},
		{"yaml inf", FormatYAML, yamlCam("    eye_x: 0\n    eye_y: 0\n    eye_z: .inf\n"), "cameras[0].eye_z"},
		{"yaml negative near", FormatYAML, yamlCam("    eye_x: 0\n    eye_y: 0\n    eye_z: 1\n    at_x: 0\n    at_y: 0\n    at_z: 0\n    up_x: 0\n    up_y: 1\n    up_z: 0\n    nearDepth: -1\n    farDepth: 10\n"), "cameras[0].nearDepth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescriptor([]byte(tt.src), tt.format)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Path != tt.path {
				t.Errorf("Path = %q, want %q", pe.Path, tt.path)
			}
		})
	}
}

func TestParseDescriptorMalformed(t *testing.T) {
	for _, src := range []string{`{`, `[1, 2]`, `"scene"`} {
		if _, err := ParseDescriptor([]byte(src), FormatJSON); !errors.Is(err, ErrParse) {
			t.Errorf("ParseDescriptor(%q) = %v, want ErrParse", src, err)
		}
	}
	if _, err := ParseDescriptor([]byte("a: [b"), FormatYAML); !errors.Is(err, ErrParse) {
		t.Errorf("bad yaml: got %v, want ErrParse", err)
	}
}

func TestReadDescriptorFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadDescriptor(filepath.Join(dir, "scene.toml")); !errors.Is(err, ErrParse) {
		t.Errorf("unsupported extension: got %v", err)
	}
	if _, err := ReadDescriptor(filepath.Join(dir, "missing.json")); !errors.Is(err, ErrParse) {
		t.Errorf("missing file: got %v", err)
	}

	path := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(path, []byte("name: bad\nmeshes: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadDescriptor(path)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.File != path || pe.Path != "defaultCamera" {
		t.Errorf("ReadDescriptor() = %v, want defaultCamera error in %s", err, path)
	}
}
