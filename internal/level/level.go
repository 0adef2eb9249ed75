// Package level loads a scene descriptor into named registries and turns
// them into a frame image and draw calls every frame.
package level

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/engine/camera"
	"github.com/Faultbox/scenery/internal/engine/frame"
	"github.com/Faultbox/scenery/internal/engine/lighting"
	"github.com/Faultbox/scenery/internal/engine/renderer"
)

// State is the level lifecycle stage.
type State int

const (
	StateLoaded State = iota
	StateRunning
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Level owns every resource, actor, light and camera of one scene.
type Level struct {
	Name string

	Meshes            *Registry[Mesh]
	Textures          *Registry[Texture]
	Materials         *Registry[lighting.Material]
	Actors            *Registry[Actor]
	Billboards        *Registry[Billboard]
	Cameras           *Registry[camera.Camera]
	DirectionalLights *Registry[lighting.Directional]
	PointLights       *Registry[lighting.Point]
	SpotLights        *Registry[lighting.Spot]

	active  Handle[camera.Camera]
	backend renderer.Backend

	// Backend resources, each released exactly once.
	meshHandles    []renderer.MeshHandle
	textureHandles []renderer.TextureHandle

	image   frame.Image
	scratch []lighting.Light
	state   State
	log     *zap.Logger
}

func newLevel(name string, backend renderer.Backend, log *zap.Logger) *Level {
	return &Level{
		Name:              name,
		Meshes:            NewRegistry[Mesh]("mesh"),
		Textures:          NewRegistry[Texture]("texture"),
		Materials:         NewRegistry[lighting.Material]("material"),
		Actors:            NewRegistry[Actor]("actor"),
		Billboards:        NewRegistry[Billboard]("billboard"),
		Cameras:           NewRegistry[camera.Camera]("camera"),
		DirectionalLights: NewRegistry[lighting.Directional]("directional light"),
		PointLights:       NewRegistry[lighting.Point]("point light"),
		SpotLights:        NewRegistry[lighting.Spot]("spot light"),
		backend:           backend,
		log:               log,
	}
}

// State returns the lifecycle stage.
func (l *Level) State() State { return l.state }

// Actor returns the named actor.
func (l *Level) Actor(name string) (*Actor, error) {
	return l.Actors.Lookup(name)
}

// ActiveCamera returns the camera supplying view and projection.
func (l *Level) ActiveCamera() camera.Camera {
	if c := l.Cameras.Get(l.active); c != nil {
		return *c
	}
	return nil
}

// SetActiveCamera switches to the named camera. The previous camera keeps
// its state.
func (l *Level) SetActiveCamera(name string) error {
	if l.state == StateClosed {
		return ErrClosed
	}
	h, err := l.Cameras.Find(name)
	if err != nil {
		return err
	}
	if h != l.active {
		l.active = h
		l.log.Debug("active camera changed", zap.String("camera", name))
	}
	return nil
}

// Resize reshapes every camera and the backend viewport.
func (l *Level) Resize(width, height int) {
	if l.state == StateClosed {
		return
	}
	_ = l.Cameras.Each(func(_ string, c *camera.Camera) error {
		(*c).Reshape(width, height)
		return nil
	})
	l.backend.Resize(width, height)
}

// LastFrame returns a copy of the image of the last frame whose lights were
// all stored. A frame rejected for light overflow leaves it unchanged.
func (l *Level) LastFrame() frame.Image { return l.image }

// Close releases every backend resource the level created. Calling it
// again does nothing.
func (l *Level) Close() error {
	if l.state == StateClosed {
		return nil
	}
	l.state = StateClosed
	err := l.release()
	l.log.Info("level closed", zap.String("level", l.Name), zap.Error(err))
	return err
}

func (l *Level) release() error {
	var err error
	for _, h := range l.meshHandles {
		if e := l.backend.ReleaseMesh(h); e != nil {
			err = multierr.Append(err, &BackendError{Op: "release mesh", Err: e})
		}
	}
	for _, h := range l.textureHandles {
		if e := l.backend.ReleaseTexture(h); e != nil {
			err = multierr.Append(err, &BackendError{Op: "release texture", Err: e})
		}
	}
	l.meshHandles = nil
	l.textureHandles = nil
	return err
}
