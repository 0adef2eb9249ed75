// Package glrenderer implements renderer.Backend on OpenGL 4.1 core.
package glrenderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/engine/frame"
	"github.com/Faultbox/scenery/internal/engine/model"
	"github.com/Faultbox/scenery/internal/engine/renderer"
	"github.com/Faultbox/scenery/internal/engine/renderer/glrenderer/shaders"
	"github.com/Faultbox/scenery/internal/engine/screenshot"
	"github.com/Faultbox/scenery/internal/engine/shader"
	"github.com/Faultbox/scenery/internal/engine/texture"
	"github.com/Faultbox/scenery/internal/logger"
)

const frameBinding = 0

type glMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	name          string
}

// Renderer draws through a current GL context.
type Renderer struct {
	program *shader.Program
	ubo     uint32
	staging []byte

	locDiffuseMap     int32
	locSpecularMap    int32
	locHasDiffuseMap  int32
	locHasSpecularMap int32

	meshes      map[renderer.MeshHandle]*glMesh
	textures    map[renderer.TextureHandle]uint32
	nextMesh    renderer.MeshHandle
	nextTexture renderer.TextureHandle

	ClearColor [4]float32

	width, height int

	log *zap.Logger
}

var _ renderer.Backend = (*Renderer)(nil)

// New loads GL entry points, compiles the scene program and allocates the
// frame uniform buffer. A GL context must be current.
func New(width, height int) (*Renderer, error) {
	log := logger.Named("renderer")

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := shader.Build("scene", shaders.SceneVertexShader, shaders.SceneFragmentShader)
	if err != nil {
		return nil, err
	}
	if err := program.BindBlock("FrameData", frameBinding); err != nil {
		program.Delete()
		return nil, err
	}
	if size, err := program.BlockSize("FrameData"); err == nil && int(size) > frame.Size {
		program.Delete()
		return nil, fmt.Errorf("FrameData block is %d bytes, image is %d", size, frame.Size)
	}

	r := &Renderer{
		program:           program,
		staging:           make([]byte, frame.Size),
		locDiffuseMap:     program.Uniform("uDiffuseMap"),
		locSpecularMap:    program.Uniform("uSpecularMap"),
		locHasDiffuseMap:  program.Uniform("uHasDiffuseMap"),
		locHasSpecularMap: program.Uniform("uHasSpecularMap"),
		meshes:            make(map[renderer.MeshHandle]*glMesh),
		textures:          make(map[renderer.TextureHandle]uint32),
		ClearColor:        [4]float32{0.1, 0.1, 0.15, 1},
		log:               log,
	}

	gl.GenBuffers(1, &r.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, frame.Size, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, frameBinding, r.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	program.Use()
	gl.Uniform1i(r.locDiffuseMap, 0)
	gl.Uniform1i(r.locSpecularMap, 1)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r.Resize(width, height)
	return r, nil
}

// CreateMesh uploads interleaved vertices and uint32 indices.
func (r *Renderer) CreateMesh(name string, mesh *model.Mesh) (renderer.MeshHandle, error) {
	if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return 0, fmt.Errorf("mesh %s: no geometry", name)
	}

	m := &glMesh{indexCount: int32(len(mesh.Indices)), name: name}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*model.VertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, model.VertexSize, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, model.VertexSize, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, model.VertexSize, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	if err := glError(); err != nil {
		r.deleteMesh(m)
		return 0, fmt.Errorf("mesh %s: %w", name, err)
	}

	r.nextMesh++
	r.meshes[r.nextMesh] = m
	r.log.Debug("mesh created", zap.String("name", name),
		zap.Int("vertices", len(mesh.Vertices)), zap.Int("indices", len(mesh.Indices)))
	return r.nextMesh, nil
}

// CreateTexture uploads img with mipmaps. Rows are flipped to GL's
// bottom-up order.
func (r *Renderer) CreateTexture(name string, img *image.RGBA) (renderer.TextureHandle, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, fmt.Errorf("texture %s: empty image", name)
	}
	flipped := texture.FlipVertical(img)
	b := flipped.Bounds()

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&flipped.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := glError(); err != nil {
		gl.DeleteTextures(1, &id)
		return 0, fmt.Errorf("texture %s: %w", name, err)
	}

	r.nextTexture++
	r.textures[r.nextTexture] = id
	r.log.Debug("texture created", zap.String("name", name), zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
	return r.nextTexture, nil
}

// ReleaseMesh frees the buffers behind h.
func (r *Renderer) ReleaseMesh(h renderer.MeshHandle) error {
	m, ok := r.meshes[h]
	if !ok {
		return fmt.Errorf("release mesh %d: unknown handle", h)
	}
	r.deleteMesh(m)
	delete(r.meshes, h)
	return nil
}

// ReleaseTexture frees the texture behind h.
func (r *Renderer) ReleaseTexture(h renderer.TextureHandle) error {
	id, ok := r.textures[h]
	if !ok {
		return fmt.Errorf("release texture %d: unknown handle", h)
	}
	gl.DeleteTextures(1, &id)
	delete(r.textures, h)
	return nil
}

func (r *Renderer) deleteMesh(m *glMesh) {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}

// BeginFrame clears color and depth.
func (r *Renderer) BeginFrame() error {
	c := r.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.program.Use()
	return nil
}

// UploadFrame replaces the contents of the frame uniform buffer.
func (r *Renderer) UploadFrame(img *frame.Image) error {
	img.MarshalTo(r.staging)
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, frame.Size, unsafe.Pointer(&r.staging[0]))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return glError()
}

// Draw binds the call's textures and issues an indexed draw.
func (r *Renderer) Draw(call renderer.DrawCall) error {
	m, ok := r.meshes[call.Mesh]
	if !ok {
		return fmt.Errorf("draw: unknown mesh %d", call.Mesh)
	}
	count := m.indexCount
	if call.IndexCount > 0 && int32(call.IndexCount) < count {
		count = int32(call.IndexCount)
	}

	hasDiffuse := r.bindTexture(gl.TEXTURE0, call.DiffuseMap)
	hasSpecular := r.bindTexture(gl.TEXTURE1, call.SpecularMap)
	gl.Uniform1i(r.locHasDiffuseMap, boolToInt(hasDiffuse))
	gl.Uniform1i(r.locHasSpecularMap, boolToInt(hasSpecular))

	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	return glError()
}

func (r *Renderer) bindTexture(unit uint32, h renderer.TextureHandle) bool {
	gl.ActiveTexture(unit)
	id, ok := r.textures[h]
	if h == 0 || !ok {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		return false
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
	return true
}

// Resize sets the viewport.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// ReadPixels copies the back buffer into an image. Call it after the
// frame's draws and before the buffer swap.
func (r *Renderer) ReadPixels() (*image.RGBA, error) {
	pixels := make([]byte, r.width*r.height*4)
	if len(pixels) == 0 {
		return nil, fmt.Errorf("empty viewport")
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if err := glError(); err != nil {
		return nil, fmt.Errorf("read pixels: %w", err)
	}
	return screenshot.FromPixels(pixels, r.width, r.height)
}

// Close frees every resource still owned by the renderer.
func (r *Renderer) Close() {
	for h, m := range r.meshes {
		r.deleteMesh(m)
		delete(r.meshes, h)
	}
	for h, id := range r.textures {
		gl.DeleteTextures(1, &id)
		delete(r.textures, h)
	}
	if r.ubo != 0 {
		gl.DeleteBuffers(1, &r.ubo)
		r.ubo = 0
	}
	r.program.Delete()
}

func glError() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
