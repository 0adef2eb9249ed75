// Package renderer defines the boundary between the scene and a graphics
// device, plus a headless backend that records what it is asked to do.
package renderer

import (
	"image"

	"github.com/Faultbox/scenery/internal/engine/frame"
	"github.com/Faultbox/scenery/internal/engine/model"
)

// MeshHandle identifies geometry buffers owned by a backend. Zero is never
// a valid handle.
type MeshHandle uint32

// TextureHandle identifies a texture owned by a backend. Zero means "no
// texture".
type TextureHandle uint32

// DrawCall is one indexed draw. World and material come from the frame
// image uploaded immediately before it.
type DrawCall struct {
	Mesh        MeshHandle
	IndexCount  int
	DiffuseMap  TextureHandle
	SpecularMap TextureHandle
}

// Backend creates GPU resources and issues draws. Every method is called
// from the render thread only.
type Backend interface {
	CreateMesh(name string, mesh *model.Mesh) (MeshHandle, error)
	CreateTexture(name string, img *image.RGBA) (TextureHandle, error)
	ReleaseMesh(h MeshHandle) error
	ReleaseTexture(h TextureHandle) error

	// BeginFrame clears the target.
	BeginFrame() error
	// UploadFrame copies the frame image into the uniform buffer.
	UploadFrame(img *frame.Image) error
	Draw(call DrawCall) error
	// Resize changes the viewport.
	Resize(width, height int)
}
