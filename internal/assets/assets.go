// Package assets loads meshes and textures referenced by scene descriptors.
package assets

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/engine/model"
	"github.com/Faultbox/scenery/internal/engine/texture"
	"github.com/Faultbox/scenery/internal/logger"
)

// ErrNotFound is returned when no search root contains the requested path.
var ErrNotFound = errors.New("asset not found")

// NormalMode selects how normals are generated for meshes without them.
type NormalMode int

// Normal generation modes.
const (
	SmoothNormals NormalMode = iota
	FlatNormals
)

// Manager resolves asset paths against a list of search roots and decodes
// them. Decoded results are cached by path.
type Manager struct {
	roots   []string
	normals NormalMode
	meshes  *Cache[*model.Mesh]
	images  *Cache[*image.RGBA]
	log     *zap.Logger
	mu      sync.RWMutex
}

// NewManager creates a new asset manager. Relative paths are resolved
// against roots; later roots take priority.
func NewManager(roots ...string) *Manager {
	return &Manager{
		roots:  append([]string(nil), roots...),
		meshes: NewCache[*model.Mesh](),
		images: NewCache[*image.RGBA](),
		log:    logger.Named("assets"),
	}
}

// AddRoot adds a search root with the highest priority.
func (m *Manager) AddRoot(dir string) {
	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
}

// SetNormalMode selects the normal generation used for meshes without normals.
func (m *Manager) SetNormalMode(mode NormalMode) {
	m.normals = mode
}

// Resolve returns the filesystem path for an asset path.
func (m *Manager) Resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return path, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		candidate := filepath.Join(m.roots[i], filepath.FromSlash(path))
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, path)
}

// LoadMesh loads a mesh from an OBJ, glTF or GLB file.
func (m *Manager) LoadMesh(path string) (*model.Mesh, error) {
	if mesh, ok := m.meshes.Get(path); ok {
		return mesh, nil
	}

	resolved, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}

	var mesh *model.Mesh
	switch ext := strings.ToLower(filepath.Ext(resolved)); ext {
	case ".obj":
		mesh, err = loadOBJ(resolved)
	case ".gltf", ".glb":
		mesh, err = loadGLTF(resolved)
	default:
		err = fmt.Errorf("unsupported mesh format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load mesh %s: %w", path, err)
	}

	if !mesh.HasNormals() {
		if m.normals == FlatNormals {
			err = model.CalculateFlatNormals(mesh)
		} else {
			err = model.CalculateSmoothNormals(mesh)
		}
		if err != nil {
			return nil, fmt.Errorf("load mesh %s: normals: %w", path, err)
		}
	}
	mesh.ComputeBounds()

	m.log.Debug("mesh loaded",
		zap.String("path", path),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("indices", len(mesh.Indices)))
	m.meshes.Set(path, mesh)
	return mesh, nil
}

// LoadTexture loads and decodes an image file.
func (m *Manager) LoadTexture(path string) (*image.RGBA, error) {
	if img, ok := m.images.Get(path); ok {
		return img, nil
	}

	resolved, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	img, err := texture.DecodeFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", path, err)
	}

	m.log.Debug("texture loaded",
		zap.String("path", path),
		zap.Int("width", img.Rect.Dx()),
		zap.Int("height", img.Rect.Dy()))
	m.images.Set(path, img)
	return img, nil
}

// Stats returns combined cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	mh, mm := m.meshes.Stats()
	ih, im := m.images.Stats()
	return mh + ih, mm + im
}

// Close drops all cached data.
func (m *Manager) Close() {
	m.meshes.Clear()
	m.images.Clear()
}

// ParseNormalMode maps "flat" to FlatNormals and anything else to
// SmoothNormals.
func ParseNormalMode(s string) NormalMode {
	if strings.EqualFold(s, "flat") {
		return FlatNormals
	}
	return SmoothNormals
}
