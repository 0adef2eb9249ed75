package renderer

import (
	"image"
	"strings"
	"testing"

	"github.com/Faultbox/scenery/internal/engine/frame"
	"github.com/Faultbox/scenery/internal/engine/model"
	"github.com/Faultbox/scenery/pkg/math"
)

func TestHeadlessRecordsFrame(t *testing.T) {
	h := NewHeadless()
	mesh, err := h.CreateMesh("quad", model.Quad(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	tex, err := h.CreateTexture("white", image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if err != nil {
		t.Fatal(err)
	}

	if err := h.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	var img frame.Image
	img.World = math.Translate(1, 0, 0)
	if err := h.UploadFrame(&img); err != nil {
		t.Fatal(err)
	}
	// Later changes to img must not leak into the recorded submission.
	if err := h.Draw(DrawCall{Mesh: mesh, IndexCount: 6, DiffuseMap: tex}); err != nil {
		t.Fatal(err)
	}
	img.World = math.Identity()

	subs := h.Submissions()
	if len(subs) != 1 {
		t.Fatalf("Submissions() = %d, want 1", len(subs))
	}
	if subs[0].Frame.World != math.Translate(1, 0, 0) {
		t.Errorf("recorded world = %v", subs[0].Frame.World)
	}
	if h.MeshName(mesh) != "quad" || h.TextureName(tex) != "white" {
		t.Errorf("names = %q, %q", h.MeshName(mesh), h.TextureName(tex))
	}
}

func TestHeadlessDrawErrors(t *testing.T) {
	h := NewHeadless()
	mesh, _ := h.CreateMesh("quad", model.Quad(1, 1))

	if err := h.Draw(DrawCall{Mesh: mesh, IndexCount: 6}); err == nil {
		t.Error("expected error drawing before upload")
	}
	_ = h.BeginFrame()
	_ = h.UploadFrame(&frame.Image{})

	tests := []struct {
		name string
		call DrawCall
		want string
	}{
		{"unknown mesh", DrawCall{Mesh: 99, IndexCount: 3}, "unknown mesh"},
		{"too many indices", DrawCall{Mesh: mesh, IndexCount: 7}, "indices requested"},
		{"unknown texture", DrawCall{Mesh: mesh, IndexCount: 6, SpecularMap: 5}, "unknown texture"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Draw(tt.call)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Draw() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestHeadlessRelease(t *testing.T) {
	h := NewHeadless()
	mesh, _ := h.CreateMesh("quad", model.Quad(1, 1))
	tex, _ := h.CreateTexture("t", image.NewRGBA(image.Rect(0, 0, 2, 2)))

	if err := h.ReleaseMesh(mesh); err != nil {
		t.Fatal(err)
	}
	if err := h.ReleaseMesh(mesh); err == nil {
		t.Error("double release should fail")
	}
	if err := h.ReleaseTexture(tex); err != nil {
		t.Fatal(err)
	}
	if h.LiveMeshes() != 0 || h.LiveTextures() != 0 {
		t.Errorf("live = %d meshes, %d textures", h.LiveMeshes(), h.LiveTextures())
	}
	if h.ReleasedMeshes != 1 || h.ReleasedTextures != 1 {
		t.Errorf("released = %d, %d", h.ReleasedMeshes, h.ReleasedTextures)
	}
}

func TestHeadlessInjectedFailure(t *testing.T) {
	h := NewHeadless()
	h.FailTexture = func(name string) bool { return name == "broken" }
	if _, err := h.CreateTexture("broken", image.NewRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("expected injected failure")
	}
	if _, err := h.CreateMesh("empty", &model.Mesh{}); err == nil {
		t.Error("expected error for empty mesh")
	}
}
