package lighting

import (
	"testing"

	"github.com/Faultbox/scenery/pkg/math"
)

func TestKindMatchesVariant(t *testing.T) {
	tests := []struct {
		light Light
		want  Kind
	}{
		{Directional{}, KindDirectional},
		{Point{}, KindPoint},
		{Spot{}, KindSpot},
		{&Spot{SpotPower: 8}, KindSpot},
	}
	for _, tt := range tests {
		if got := tt.light.Kind(); got != tt.want {
			t.Errorf("%T.Kind() = %v, want %v", tt.light, got, tt.want)
		}
	}
}

func TestSpotEmbedsPoint(t *testing.T) {
	s := Spot{
		Point: Point{
			Colors:   Colors{Diffuse: math.RGBA(1, 0.5, 0.25, 1)},
			Position: math.Vec3{X: 1, Y: 2, Z: 3},
			Range:    10,
		},
		Direction: math.Vec3{Y: -1},
		SpotPower: 16,
	}
	if s.Position != (math.Vec3{X: 1, Y: 2, Z: 3}) || s.Range != 10 {
		t.Errorf("promoted point fields = %v, %v", s.Position, s.Range)
	}
	if s.Color().Diffuse != math.RGBA(1, 0.5, 0.25, 1) {
		t.Errorf("Color().Diffuse = %v", s.Color().Diffuse)
	}
}

func TestKindString(t *testing.T) {
	if KindPoint.String() != "point" {
		t.Errorf("KindPoint.String() = %q", KindPoint.String())
	}
	if Kind(9).String() != "kind(9)" {
		t.Errorf("Kind(9).String() = %q", Kind(9).String())
	}
}
