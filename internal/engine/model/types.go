// Package model turns parsed OBJ geometry into vertex data ready for GPU upload.
package model

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// MaterialGroup is a run of indices drawn with one material.
type MaterialGroup struct {
	Material   string
	StartIndex int32
	IndexCount int32
}

// Mesh holds the complete mesh data ready for GPU upload.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Groups   []MaterialGroup
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// SmoothNormals averages normals of vertices sharing a position.
	SmoothNormals bool
	// ReverseWinding flips triangle winding and normals, turning an
	// outward-facing box into a room.
	ReverseWinding bool
}
