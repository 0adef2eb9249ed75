// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SceneVertexShader transforms lit scene geometry.
//
//go:embed scene.vert
var SceneVertexShader string

// SceneFragmentShader shades with the FrameData light arrays.
//
//go:embed scene.frag
var SceneFragmentShader string
