package renderer

import (
	"fmt"
	"image"

	"github.com/Faultbox/scenery/internal/engine/frame"
	"github.com/Faultbox/scenery/internal/engine/model"
)

// Submission is a draw call together with the frame image that was bound
// when it was issued.
type Submission struct {
	Call  DrawCall
	Frame frame.Image
}

// Headless is a Backend without a device. It tracks live resources and
// records uploads and draws so callers can inspect a frame.
type Headless struct {
	// FailMesh and FailTexture, when set, make creation fail for matching names.
	FailMesh    func(name string) bool
	FailTexture func(name string) bool

	nextMesh    MeshHandle
	nextTexture TextureHandle
	meshes      map[MeshHandle]int // index count
	meshNames   map[MeshHandle]string
	textures    map[TextureHandle]string

	frames      int
	current     frame.Image
	uploaded    bool
	submissions []Submission
	width       int
	height      int

	// Released counts release calls per kind.
	ReleasedMeshes   int
	ReleasedTextures int
}

// NewHeadless creates a headless backend.
func NewHeadless() *Headless {
	return &Headless{
		meshes:    make(map[MeshHandle]int),
		meshNames: make(map[MeshHandle]string),
		textures:  make(map[TextureHandle]string),
	}
}

// CreateMesh registers mesh and returns a new handle.
func (h *Headless) CreateMesh(name string, mesh *model.Mesh) (MeshHandle, error) {
	if h.FailMesh != nil && h.FailMesh(name) {
		return 0, fmt.Errorf("create mesh %q: injected failure", name)
	}
	if mesh == nil || mesh.IndexCount() == 0 {
		return 0, fmt.Errorf("create mesh %q: no indices", name)
	}
	h.nextMesh++
	h.meshes[h.nextMesh] = mesh.IndexCount()
	h.meshNames[h.nextMesh] = name
	return h.nextMesh, nil
}

// CreateTexture registers img and returns a new handle.
func (h *Headless) CreateTexture(name string, img *image.RGBA) (TextureHandle, error) {
	if h.FailTexture != nil && h.FailTexture(name) {
		return 0, fmt.Errorf("create texture %q: injected failure", name)
	}
	if img == nil || img.Rect.Empty() {
		return 0, fmt.Errorf("create texture %q: empty image", name)
	}
	h.nextTexture++
	h.textures[h.nextTexture] = name
	return h.nextTexture, nil
}

// ReleaseMesh frees a mesh. Releasing an unknown handle is an error.
func (h *Headless) ReleaseMesh(m MeshHandle) error {
	if _, ok := h.meshes[m]; !ok {
		return fmt.Errorf("release mesh %d: unknown handle", m)
	}
	delete(h.meshes, m)
	delete(h.meshNames, m)
	h.ReleasedMeshes++
	return nil
}

// ReleaseTexture frees a texture. Releasing an unknown handle is an error.
func (h *Headless) ReleaseTexture(t TextureHandle) error {
	if _, ok := h.textures[t]; !ok {
		return fmt.Errorf("release texture %d: unknown handle", t)
	}
	delete(h.textures, t)
	h.ReleasedTextures++
	return nil
}

// BeginFrame starts a new recording and drops the previous one.
func (h *Headless) BeginFrame() error {
	h.frames++
	h.submissions = h.submissions[:0]
	h.uploaded = false
	return nil
}

// UploadFrame copies img.
func (h *Headless) UploadFrame(img *frame.Image) error {
	h.current = *img
	h.uploaded = true
	return nil
}

// Draw records call against the last uploaded frame image.
func (h *Headless) Draw(call DrawCall) error {
	if !h.uploaded {
		return fmt.Errorf("draw: no frame uploaded")
	}
	count, ok := h.meshes[call.Mesh]
	if !ok {
		return fmt.Errorf("draw: unknown mesh %d", call.Mesh)
	}
	if call.IndexCount > count {
		return fmt.Errorf("draw: %d indices requested, mesh has %d", call.IndexCount, count)
	}
	for _, t := range []TextureHandle{call.DiffuseMap, call.SpecularMap} {
		if _, ok := h.textures[t]; t != 0 && !ok {
			return fmt.Errorf("draw: unknown texture %d", t)
		}
	}
	h.submissions = append(h.submissions, Submission{Call: call, Frame: h.current})
	return nil
}

// Resize records the viewport size.
func (h *Headless) Resize(width, height int) {
	h.width, h.height = width, height
}

// Frames returns the number of BeginFrame calls.
func (h *Headless) Frames() int { return h.frames }

// Submissions returns the draws recorded since the last BeginFrame.
func (h *Headless) Submissions() []Submission { return h.submissions }

// LastFrame returns the most recently uploaded frame image.
func (h *Headless) LastFrame() frame.Image { return h.current }

// LiveMeshes returns the number of meshes not yet released.
func (h *Headless) LiveMeshes() int { return len(h.meshes) }

// LiveTextures returns the number of textures not yet released.
func (h *Headless) LiveTextures() int { return len(h.textures) }

// MeshName returns the name a live mesh was created with.
func (h *Headless) MeshName(m MeshHandle) string { return h.meshNames[m] }

// TextureName returns the name a live texture was created with.
func (h *Headless) TextureName(t TextureHandle) string { return h.textures[t] }

// Viewport returns the last size passed to Resize.
func (h *Headless) Viewport() (width, height int) { return h.width, h.height }

var _ Backend = (*Headless)(nil)
