package level

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/engine/camera"
	"github.com/Faultbox/scenery/internal/engine/model"
	"github.com/Faultbox/scenery/internal/engine/renderer"
	"github.com/Faultbox/scenery/internal/engine/transform"
	"github.com/Faultbox/scenery/internal/logger"
	"github.com/Faultbox/scenery/pkg/math"
)

// AssetLoader reads mesh and texture files.
type AssetLoader interface {
	LoadMesh(path string) (*model.Mesh, error)
	LoadTexture(path string) (*image.RGBA, error)
}

// Options tune level construction.
type Options struct {
	// Camera tunes interactive cameras.
	Camera camera.Options
	// Width and Height seed every camera's aspect ratio.
	Width, Height int
}

// DefaultOptions returns options for a 1280x720 viewport.
func DefaultOptions() Options {
	return Options{Camera: camera.DefaultOptions(), Width: 1280, Height: 720}
}

// Load reads the descriptor at path and builds a level from it.
func Load(path string, assets AssetLoader, backend renderer.Backend, opts Options) (*Level, error) {
	desc, err := ReadDescriptor(path)
	if err != nil {
		return nil, err
	}
	return Build(desc, assets, backend, opts)
}

// Build creates a level from a validated descriptor. Loading is all or
// nothing: on failure every backend resource already created is released
// and no level is returned.
func Build(desc *Descriptor, assets AssetLoader, backend renderer.Backend, opts Options) (*Level, error) {
	log := logger.Named("level")
	b := &builder{
		l:        newLevel(desc.Name, backend, log),
		assets:   assets,
		backend:  backend,
		opts:     opts,
		meshes:   make(map[string]Mesh),
		textures: make(map[string]Texture),
	}

	steps := []func(*Descriptor) error{
		b.loadMeshes,
		b.loadMaterials,
		b.loadTextures,
		b.loadActors,
		b.loadBillboards,
		b.loadDirectionalLights,
		b.loadPointLights,
		b.loadSpotLights,
		b.loadCameras,
		b.selectDefaultCamera,
	}
	for _, step := range steps {
		if err := step(desc); err != nil {
			if rerr := b.l.release(); rerr != nil {
				log.Warn("release after failed load", zap.Error(rerr))
			}
			return nil, err
		}
	}

	l := b.l
	log.Info("level loaded",
		zap.String("level", l.Name),
		zap.Int("meshes", l.Meshes.Len()),
		zap.Int("materials", l.Materials.Len()),
		zap.Int("textures", l.Textures.Len()),
		zap.Int("actors", l.Actors.Len()),
		zap.Int("billboards", l.Billboards.Len()),
		zap.Int("cameras", l.Cameras.Len()),
		zap.Int("directional_lights", l.DirectionalLights.Len()),
		zap.Int("point_lights", l.PointLights.Len()),
		zap.Int("spot_lights", l.SpotLights.Len()),
	)
	return l, nil
}

type builder struct {
	l       *Level
	assets  AssetLoader
	backend renderer.Backend
	opts    Options

	// per-path dedupe
	meshes   map[string]Mesh
	textures map[string]Texture
}

func (b *builder) loadMeshes(d *Descriptor) error {
	for _, m := range d.Meshes {
		if b.l.Meshes.Has(m.Name) {
			return &DuplicateNameError{Registry: "mesh", Name: m.Name}
		}
		mesh, ok := b.meshes[m.Path]
		if !ok {
			data, err := b.assets.LoadMesh(m.Path)
			if err != nil {
				return &BackendError{Op: "load mesh", Name: m.Path, Err: err}
			}
			h, err := b.backend.CreateMesh(m.Name, data)
			if err != nil {
				return &BackendError{Op: "create mesh", Name: m.Name, Err: err}
			}
			b.l.meshHandles = append(b.l.meshHandles, h)
			mesh = Mesh{Path: m.Path, Handle: h, IndexCount: data.IndexCount(), Bounds: data.Bounds}
			b.meshes[m.Path] = mesh
		}
		if _, err := b.l.Meshes.Add(m.Name, mesh); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) loadMaterials(d *Descriptor) error {
	for _, m := range d.Materials {
		if _, err := b.l.Materials.Add(m.Name, m.Material); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) loadTextures(d *Descriptor) error {
	for _, t := range d.Textures {
		if b.l.Textures.Has(t.Name) {
			return &DuplicateNameError{Registry: "texture", Name: t.Name}
		}
		tex, ok := b.textures[t.Path]
		if !ok {
			img, err := b.assets.LoadTexture(t.Path)
			if err != nil {
				return &BackendError{Op: "load texture", Name: t.Path, Err: err}
			}
			h, err := b.backend.CreateTexture(t.Name, img)
			if err != nil {
				return &BackendError{Op: "create texture", Name: t.Name, Err: err}
			}
			b.l.textureHandles = append(b.l.textureHandles, h)
			tex = Texture{Path: t.Path, Handle: h}
			b.textures[t.Path] = tex
		}
		if _, err := b.l.Textures.Add(t.Name, tex); err != nil {
			return err
		}
	}
	return nil
}

// resolve looks name up in r and reports a miss as a ReferenceError.
func resolve[T any](r *Registry[T], name, owner string) (Handle[T], error) {
	h, err := r.Find(name)
	if errors.Is(err, ErrUnknownName) {
		return h, &ReferenceError{Kind: r.Kind(), Name: name, Owner: owner}
	}
	return h, err
}

func (b *builder) loadActors(d *Descriptor) error {
	for _, a := range d.Actors {
		actor, err := b.newActor(a)
		if err != nil {
			return err
		}
		if _, err := b.l.Actors.Add(a.Name, actor); err != nil {
			return err
		}
	}
	return nil
}

// newActor resolves an actor's references against what is loaded so far.
func (b *builder) newActor(a ActorDesc) (Actor, error) {
	owner := fmt.Sprintf("actor %q", a.Name)
	actor := Actor{
		Name:      a.Name,
		Transform: transform.New(a.Position, a.Rotation, a.Scale),
	}

	var err error
	if actor.Mesh, err = resolve(b.l.Meshes, a.Mesh, owner); err != nil {
		return Actor{}, err
	}
	if actor.Material, err = resolve(b.l.Materials, a.Material, owner); err != nil {
		return Actor{}, err
	}
	if actor.DiffuseMap, err = resolve(b.l.Textures, a.DiffuseMap, owner); err != nil {
		return Actor{}, err
	}
	if a.SpecularMap != "" {
		if actor.SpecularMap, err = resolve(b.l.Textures, a.SpecularMap, owner); err != nil {
			return Actor{}, err
		}
	}
	return actor, nil
}

func (b *builder) loadBillboards(d *Descriptor) error {
	for _, bd := range d.Billboards {
		if b.l.Billboards.Has(bd.Name) {
			return &DuplicateNameError{Registry: "billboard", Name: bd.Name}
		}
		owner := fmt.Sprintf("billboard %q", bd.Name)
		bb := Billboard{Name: bd.Name, Position: bd.Position, Size: bd.Size}

		var err error
		if bb.Material, err = resolve(b.l.Materials, bd.Material, owner); err != nil {
			return err
		}
		if bb.DiffuseMap, err = resolve(b.l.Textures, bd.DiffuseMap, owner); err != nil {
			return err
		}

		quad := model.Quad(bd.Size.X, bd.Size.Y)
		h, err := b.backend.CreateMesh(bd.Name+".quad", quad)
		if err != nil {
			return &BackendError{Op: "create mesh", Name: bd.Name + ".quad", Err: err}
		}
		b.l.meshHandles = append(b.l.meshHandles, h)
		bb.mesh = h
		bb.indexCount = quad.IndexCount()
		bb.Face(bd.Position.Add(math.Vec3{Z: 1}))

		if _, err := b.l.Billboards.Add(bd.Name, bb); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) loadDirectionalLights(d *Descriptor) error {
	for _, dl := range d.DirectionalLights {
		if _, err := b.l.DirectionalLights.Add(dl.Name, dl.Light); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) loadPointLights(d *Descriptor) error {
	for _, pl := range d.PointLights {
		if _, err := b.l.PointLights.Add(pl.Name, pl.Light); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) loadSpotLights(d *Descriptor) error {
	for _, sl := range d.SpotLights {
		if _, err := b.l.SpotLights.Add(sl.Name, sl.Light); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) loadCameras(d *Descriptor) error {
	for _, cd := range d.Cameras {
		if b.l.Cameras.Has(cd.Name) {
			return &DuplicateNameError{Registry: "camera", Name: cd.Name}
		}
		p := cd.Params
		p.Width, p.Height = b.opts.Width, b.opts.Height
		c, err := camera.New(cd.Name, cd.Type, p, b.opts.Camera)
		if err != nil {
			if errors.Is(err, camera.ErrUnknownType) {
				return &CameraTypeError{Camera: cd.Name, Type: cd.Type}
			}
			return err
		}
		if _, err := b.l.Cameras.Add(cd.Name, c); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) selectDefaultCamera(d *Descriptor) error {
	h, err := resolve(b.l.Cameras, d.DefaultCamera, "defaultCamera")
	if err != nil {
		return err
	}
	b.l.active = h
	return nil
}
