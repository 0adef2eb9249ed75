package level

import (
	"github.com/Faultbox/scenery/internal/engine/frame"
	"github.com/Faultbox/scenery/internal/engine/input"
	"github.com/Faultbox/scenery/internal/engine/lighting"
	"github.com/Faultbox/scenery/internal/engine/renderer"
	"github.com/Faultbox/scenery/pkg/math"
)

// Update advances every actor once in registry order, then the active
// camera, then turns billboards toward the camera.
func (l *Level) Update(dt float32, in *input.State) error {
	if l.state == StateClosed {
		return ErrClosed
	}
	l.state = StateRunning

	_ = l.Actors.Each(func(_ string, a *Actor) error {
		a.Update(dt)
		return nil
	})

	cam := l.ActiveCamera()
	cam.Update(dt, in)

	eye := cam.Eye()
	return l.Billboards.Each(func(_ string, b *Billboard) error {
		b.Face(eye)
		return nil
	})
}

// Draw builds the frame image and submits one draw per actor, then one
// per billboard. The lights are stored before anything reaches the
// backend, so an overflow drops the whole frame.
func (l *Level) Draw() error {
	if l.state == StateClosed {
		return ErrClosed
	}
	l.state = StateRunning

	// Built aside so a rejected frame leaves the previous image intact.
	var img frame.Image
	cam := l.ActiveCamera()
	img.World = math.Identity()
	img.View = cam.View()
	img.Projection = cam.Projection()

	if err := storeLights(l, &img, lighting.KindDirectional, l.DirectionalLights); err != nil {
		return err
	}
	if err := storeLights(l, &img, lighting.KindPoint, l.PointLights); err != nil {
		return err
	}
	if err := storeLights(l, &img, lighting.KindSpot, l.SpotLights); err != nil {
		return err
	}

	img.EyeWorldPos = math.Point(cam.Eye())
	l.image = img

	if err := l.backend.BeginFrame(); err != nil {
		return &BackendError{Op: "begin frame", Err: err}
	}

	err := l.Actors.Each(func(name string, a *Actor) error {
		mesh := l.Meshes.Get(a.Mesh)
		call := renderer.DrawCall{
			Mesh:       mesh.Handle,
			IndexCount: mesh.IndexCount,
			DiffuseMap: l.textureHandle(a.DiffuseMap),
		}
		call.SpecularMap = l.textureHandle(a.SpecularMap)
		return l.submit(name, a.World(), *l.Materials.Get(a.Material), call)
	})
	if err != nil {
		return err
	}

	return l.Billboards.Each(func(name string, b *Billboard) error {
		call := renderer.DrawCall{
			Mesh:       b.mesh,
			IndexCount: b.indexCount,
			DiffuseMap: l.textureHandle(b.DiffuseMap),
		}
		return l.submit(name, b.World(), *l.Materials.Get(b.Material), call)
	})
}

// submit layers the per-draw world and material onto the shared image,
// uploads it and issues the draw.
func (l *Level) submit(name string, world math.Mat4, mat lighting.Material, call renderer.DrawCall) error {
	l.image.World = world
	l.image.Material = mat
	if err := l.backend.UploadFrame(&l.image); err != nil {
		return &BackendError{Op: "upload frame", Name: name, Err: err}
	}
	if err := l.backend.Draw(call); err != nil {
		return &BackendError{Op: "draw", Name: name, Err: err}
	}
	return nil
}

func (l *Level) textureHandle(h Handle[Texture]) renderer.TextureHandle {
	if t := l.Textures.Get(h); t != nil {
		return t.Handle
	}
	return 0
}

// storeLights copies one light registry into the frame image in registry
// order. More lights than the image holds is an error, never a truncation.
func storeLights[T lighting.Light](l *Level, img *frame.Image, kind lighting.Kind, r *Registry[T]) error {
	l.scratch = l.scratch[:0]
	_ = r.Each(func(_ string, v *T) error {
		l.scratch = append(l.scratch, *v)
		return nil
	})
	return img.StoreLights(kind, l.scratch)
}

// Capacity returns how many lights of kind a frame can hold.
func Capacity(kind lighting.Kind) int { return frame.Capacity(kind) }
