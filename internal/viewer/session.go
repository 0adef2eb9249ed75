// Package viewer steps a loaded level one frame at a time: hotkeys,
// scripted animations, Update, then Draw. It has no window or GPU
// dependency, so the interactive app and the headless checker share it.
package viewer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/config"
	"github.com/Faultbox/scenery/internal/engine/input"
	"github.com/Faultbox/scenery/internal/level"
	"github.com/Faultbox/scenery/internal/logger"
	"github.com/Faultbox/scenery/pkg/math"
)

// Session drives one level.
type Session struct {
	level   *level.Level
	hotkeys *input.Bindings
	frames  int
	log     *zap.Logger
}

// NewSession binds camera hotkeys and attaches animations to l.
func NewSession(l *level.Level, hotkeys map[string]string, anims []config.AnimationConfig) (*Session, error) {
	b, err := input.NewBindings(hotkeys)
	if err != nil {
		return nil, err
	}
	if err := Animate(l, anims); err != nil {
		return nil, err
	}
	return &Session{level: l, hotkeys: b, log: logger.Named("viewer")}, nil
}

// Animate gives each named actor a constant spin and drift.
func Animate(l *level.Level, anims []config.AnimationConfig) error {
	for i, a := range anims {
		actor, err := l.Actor(a.Actor)
		if err != nil {
			return fmt.Errorf("animations[%d]: %w", i, err)
		}
		if v := vec(a.AngularVelocity); v != (math.Vec3{}) {
			actor.AddBehavior(level.Spin(v))
		}
		if v := vec(a.LinearVelocity); v != (math.Vec3{}) {
			actor.AddBehavior(level.Drift(v))
		}
	}
	return nil
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// Level returns the level being driven.
func (s *Session) Level() *level.Level { return s.level }

// Frames returns the number of completed frames.
func (s *Session) Frames() int { return s.frames }

// Step runs one frame. It returns false once the user asked to quit.
// A nil state is treated as no input.
func (s *Session) Step(dt float32, in *input.State) (bool, error) {
	if in == nil {
		in = &input.State{}
	}
	if in.Quit || in.Pressed(input.KeyEscape) {
		return false, nil
	}

	if name, ok := s.hotkeys.Triggered(in); ok {
		// A hotkey for a camera this scene lacks is not an error.
		if err := s.level.SetActiveCamera(name); err != nil {
			s.log.Warn("camera hotkey ignored", zap.String("camera", name), zap.Error(err))
		} else {
			s.log.Info("camera switched", zap.String("camera", name))
		}
	}
	if in.Resized {
		s.level.Resize(in.Width, in.Height)
	}

	if err := s.level.Update(dt, in); err != nil {
		return false, fmt.Errorf("update: %w", err)
	}
	if err := s.level.Draw(); err != nil {
		return false, fmt.Errorf("draw: %w", err)
	}
	s.frames++
	return true, nil
}
