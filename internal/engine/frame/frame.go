// Package frame builds the per-frame uniform buffer image the shaders read.
//
// The image has fixed-capacity light arrays. It is reset at the start of
// every frame, filled from the scene, and marshalled into a std140 byte
// layout that matches the FrameData uniform block in the GLSL shaders.
package frame

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scenery/internal/engine/lighting"
	"github.com/Faultbox/scenery/pkg/math"
)

// Light capacities of the uniform block.
const (
	MaxDirectionalLights = 4
	MaxPointLights       = 8
	MaxSpotLights        = 8
)

// ErrLightOverflow is matched by every *OverflowError.
var ErrLightOverflow = errors.New("light overflow")

// OverflowError reports more lights of one kind than the image can hold.
// Nothing of that kind is written when it is returned.
type OverflowError struct {
	Kind     lighting.Kind
	Count    int
	Capacity int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("too many %s lights: %d registered, capacity %d", e.Kind, e.Count, e.Capacity)
}

// Is reports whether target is ErrLightOverflow.
func (e *OverflowError) Is(target error) bool {
	return target == ErrLightOverflow
}

// Capacity returns the array capacity for a light kind.
func Capacity(k lighting.Kind) int {
	switch k {
	case lighting.KindDirectional:
		return MaxDirectionalLights
	case lighting.KindPoint:
		return MaxPointLights
	case lighting.KindSpot:
		return MaxSpotLights
	}
	return 0
}

// Image is the CPU copy of the uniform block.
type Image struct {
	World      math.Mat4
	View       math.Mat4
	Projection math.Mat4
	Material   lighting.Material

	Directional [MaxDirectionalLights]lighting.Directional
	Point       [MaxPointLights]lighting.Point
	Spot        [MaxSpotLights]lighting.Spot

	EyeWorldPos math.Vec4

	DirectionalCount int
	PointCount       int
	SpotCount        int
}

// Reset zeroes the whole image.
func (img *Image) Reset() {
	*img = Image{}
}

// Count returns the number of stored lights of kind k.
func (img *Image) Count(k lighting.Kind) int {
	switch k {
	case lighting.KindDirectional:
		return img.DirectionalCount
	case lighting.KindPoint:
		return img.PointCount
	case lighting.KindSpot:
		return img.SpotCount
	}
	return 0
}

// StoreLights replaces the lights of one kind with lights, in order.
// Every element must be of kind k. If len(lights) exceeds the capacity for
// k an *OverflowError is returned and the image is left unchanged.
func (img *Image) StoreLights(k lighting.Kind, lights []lighting.Light) error {
	capacity := Capacity(k)
	if len(lights) > capacity {
		return &OverflowError{Kind: k, Count: len(lights), Capacity: capacity}
	}
	for _, l := range lights {
		if l.Kind() != k {
			return fmt.Errorf("store %s lights: got %s light", k, l.Kind())
		}
	}

	switch k {
	case lighting.KindDirectional:
		img.Directional = [MaxDirectionalLights]lighting.Directional{}
		img.DirectionalCount = 0
	case lighting.KindPoint:
		img.Point = [MaxPointLights]lighting.Point{}
		img.PointCount = 0
	case lighting.KindSpot:
		img.Spot = [MaxSpotLights]lighting.Spot{}
		img.SpotCount = 0
	}
	for _, l := range lights {
		img.put(l)
	}
	return nil
}

func (img *Image) put(l lighting.Light) {
	switch v := l.(type) {
	case lighting.Directional:
		img.Directional[img.DirectionalCount] = v
		img.DirectionalCount++
	case *lighting.Directional:
		img.put(*v)
	case lighting.Point:
		img.Point[img.PointCount] = v
		img.PointCount++
	case *lighting.Point:
		img.put(*v)
	case lighting.Spot:
		img.Spot[img.SpotCount] = v
		img.SpotCount++
	case *lighting.Spot:
		img.put(*v)
	}
}
