package viewer

import (
	"errors"
	"image"
	"testing"

	"github.com/Faultbox/scenery/internal/config"
	"github.com/Faultbox/scenery/internal/engine/input"
	"github.com/Faultbox/scenery/internal/engine/lighting"
	"github.com/Faultbox/scenery/internal/engine/model"
	"github.com/Faultbox/scenery/internal/engine/renderer"
	"github.com/Faultbox/scenery/internal/level"
	"github.com/Faultbox/scenery/pkg/math"
)

type quadAssets struct{}

func (quadAssets) LoadMesh(string) (*model.Mesh, error) { return model.Quad(1, 1), nil }

func (quadAssets) LoadTexture(string) (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func camera(name string, z float32) level.CameraDesc {
	c := level.CameraDesc{Name: name, Type: "fixed"}
	c.Params.Eye = math.Vec4{Z: z, W: 1}
	c.Params.At = math.Vec4{W: 1}
	c.Params.Up = math.Vec4{Y: 1}
	c.Params.Near, c.Params.Far = 0.1, 100
	return c
}

func newLevel(t *testing.T) (*level.Level, *renderer.Headless) {
	t.Helper()
	d := &level.Descriptor{
		DefaultCamera: "fixed1",
		Meshes:        []level.AssetDesc{{Name: "cube", Path: "cube.obj"}},
		Materials:     []level.MaterialDesc{{Name: "m", Material: lighting.DefaultMaterial()}},
		Textures:      []level.AssetDesc{{Name: "t", Path: "t.png"}},
		Actors: []level.ActorDesc{{
			Name: "box", Mesh: "cube", Material: "m", DiffuseMap: "t", Scale: math.Splat(1),
		}},
		Cameras: []level.CameraDesc{camera("fixed1", 10), camera("fixed2", 20)},
	}
	backend := renderer.NewHeadless()
	l, err := level.Build(d, quadAssets{}, backend, level.DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l, backend
}

func TestStepDrawsFrame(t *testing.T) {
	l, backend := newLevel(t)
	s, err := NewSession(l, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		ok, err := s.Step(0.016, nil)
		if err != nil || !ok {
			t.Fatalf("Step() = %v, %v", ok, err)
		}
	}
	if s.Frames() != 3 || backend.Frames() != 3 {
		t.Errorf("frames = %d/%d, want 3", s.Frames(), backend.Frames())
	}
}

func TestStepQuit(t *testing.T) {
	l, backend := newLevel(t)
	s, _ := NewSession(l, nil, nil)

	var in input.State
	in.Press(input.KeyEscape)
	if ok, _ := s.Step(0.016, &in); ok {
		t.Error("Escape did not stop the session")
	}
	if ok, _ := s.Step(0.016, &input.State{Quit: true}); ok {
		t.Error("Quit did not stop the session")
	}
	if backend.Frames() != 0 {
		t.Error("frame drawn after quit")
	}
}

func TestStepCameraHotkey(t *testing.T) {
	l, _ := newLevel(t)
	s, err := NewSession(l, map[string]string{"2": "fixed2", "3": "fixed3"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	var in input.State
	in.Press(input.Key2)
	s.Step(0.016, &in)
	if got := l.ActiveCamera().Name(); got != "fixed2" {
		t.Errorf("active camera = %q, want fixed2", got)
	}

	// Unknown camera names keep the current camera.
	in.BeginFrame()
	in.Release(input.Key2)
	in.Press(input.Key3)
	if ok, err := s.Step(0.016, &in); !ok || err != nil {
		t.Fatalf("Step() = %v, %v", ok, err)
	}
	if got := l.ActiveCamera().Name(); got != "fixed2" {
		t.Errorf("active camera = %q, want fixed2", got)
	}
}

func TestStepResize(t *testing.T) {
	l, backend := newLevel(t)
	s, _ := NewSession(l, nil, nil)

	var in input.State
	in.Resize(640, 480)
	s.Step(0.016, &in)
	if w, h := backend.Viewport(); w != 640 || h != 480 {
		t.Errorf("Viewport() = %dx%d, want 640x480", w, h)
	}
}

func TestAnimations(t *testing.T) {
	l, _ := newLevel(t)
	anims := []config.AnimationConfig{{Actor: "box", AngularVelocity: [3]float32{0, 2, 0}, LinearVelocity: [3]float32{1, 0, 0}}}
	s, err := NewSession(l, nil, anims)
	if err != nil {
		t.Fatal(err)
	}

	s.Step(0.5, nil)
	box, _ := l.Actor("box")
	if box.Rotation() != (math.Vec3{Y: 1}) || box.Position() != (math.Vec3{X: 0.5}) {
		t.Errorf("box rotation %v position %v", box.Rotation(), box.Position())
	}
}

func TestAnimateUnknownActor(t *testing.T) {
	l, _ := newLevel(t)
	err := Animate(l, []config.AnimationConfig{{Actor: "ghost"}})
	if !errors.Is(err, level.ErrUnknownName) {
		t.Errorf("Animate() = %v, want ErrUnknownName", err)
	}
}

func TestStepAfterClose(t *testing.T) {
	l, _ := newLevel(t)
	s, _ := NewSession(l, nil, nil)
	l.Close()

	if _, err := s.Step(0.016, nil); !errors.Is(err, level.ErrClosed) {
		t.Errorf("Step() after Close = %v, want ErrClosed", err)
	}
}
