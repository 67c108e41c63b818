// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader is the vertex shader for lit, colored meshes.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader is the fragment shader for lit, colored meshes.
//
//go:embed mesh.frag
var MeshFragmentShader string

// PortalVertexShader is the vertex shader for portal quads.
//
//go:embed portal.vert
var PortalVertexShader string

// PortalFragmentShader samples the offscreen portal view in screen space.
//
//go:embed portal.frag
var PortalFragmentShader string

// OverlayVertexShader draws a full-screen triangle pair.
//
//go:embed overlay.vert
var OverlayVertexShader string

// OverlayFragmentShader blends the HUD texture over the frame.
//
//go:embed overlay.frag
var OverlayFragmentShader string
