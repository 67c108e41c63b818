package model

import (
	"github.com/Faultbox/portalview/pkg/formats"
	"github.com/Faultbox/portalview/pkg/math"
)

// FromOBJ builds a single mesh from every geometry in obj, one material
// group per geometry. Returns nil when obj has no triangles.
func FromOBJ(name string, obj *formats.OBJ, opts BuildOptions) *Mesh {
	var vertices []Vertex
	var indices []uint32
	var groups []MaterialGroup

	bounds := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}

	for i := range obj.Geometries {
		verts := geometryVertices(&obj.Geometries[i], opts.ReverseWinding)
		if len(verts) == 0 {
			continue
		}

		base := uint32(len(vertices))
		groups = append(groups, MaterialGroup{
			Material:   obj.Geometries[i].Material,
			StartIndex: int32(len(indices)),
			IndexCount: int32(len(verts)),
		})
		for j := range verts {
			updateBounds(&bounds, verts[j].Position)
			indices = append(indices, base+uint32(j))
		}
		vertices = append(vertices, verts...)
	}

	if len(vertices) == 0 {
		return nil
	}

	if opts.SmoothNormals {
		SmoothNormals(vertices)
	}

	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
		Groups:   groups,
		Bounds:   bounds,
	}
}

// FromGeometry builds a mesh from a single geometry.
func FromGeometry(name string, g *formats.Geometry, opts BuildOptions) *Mesh {
	return FromOBJ(name, &formats.OBJ{Geometries: []formats.Geometry{*g}}, opts)
}

// geometryVertices interleaves the flat streams of g. Missing normals are
// replaced by face normals; missing texture coordinates are zero.
func geometryVertices(g *formats.Geometry, reverse bool) []Vertex {
	n := g.VertexCount() / 3 * 3
	hasNormals := len(g.Normal) >= n*3
	hasUVs := len(g.TexCoord) >= n*2

	vertices := make([]Vertex, 0, n)
	for tri := 0; tri < n; tri += 3 {
		order := [3]int{tri, tri + 1, tri + 2}
		if reverse {
			order = [3]int{tri + 2, tri + 1, tri}
		}

		var face [3]Vertex
		for k, idx := range order {
			v := &face[k]
			copy(v.Position[:], g.Position[idx*3:idx*3+3])
			if hasNormals {
				copy(v.Normal[:], g.Normal[idx*3:idx*3+3])
				if reverse {
					v.Normal = [3]float32{-v.Normal[0], -v.Normal[1], -v.Normal[2]}
				}
			}
			if hasUVs {
				copy(v.TexCoord[:], g.TexCoord[idx*2:idx*2+2])
			}
		}

		if !hasNormals {
			normal := faceNormal(face[0].Position, face[1].Position, face[2].Position)
			for k := range face {
				face[k].Normal = normal
			}
		}

		vertices = append(vertices, face[:]...)
	}
	return vertices
}

// SmoothNormals averages normals at shared vertex positions.
// This reduces faceted appearance on models.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	// Average normals for vertices at same position
	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum [3]float32
		for _, idx := range idxs {
			sum[0] += vertices[idx].Normal[0]
			sum[1] += vertices[idx].Normal[1]
			sum[2] += vertices[idx].Normal[2]
		}

		avg := unit(vec(sum))

		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

// faceNormal returns the normal of a counter-clockwise triangle.
func faceNormal(a, b, c [3]float32) [3]float32 {
	pa := vec(a)
	return unit(vec(b).Sub(pa).Cross(vec(c).Sub(pa)))
}

func vec(p [3]float32) math.Vec3 {
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// unit normalizes v; near-zero vectors become +Y.
func unit(v math.Vec3) [3]float32 {
	if v.Length() < 1e-4 {
		return [3]float32{0, 1, 0}
	}
	v = v.Normalize()
	return [3]float32{v.X, v.Y, v.Z}
}

func updateBounds(b *Bounds, p [3]float32) {
	if p[0] < b.Min[0] {
		b.Min[0] = p[0]
	}
	if p[1] < b.Min[1] {
		b.Min[1] = p[1]
	}
	if p[2] < b.Min[2] {
		b.Min[2] = p[2]
	}
	if p[0] > b.Max[0] {
		b.Max[0] = p[0]
	}
	if p[1] > b.Max[1] {
		b.Max[1] = p[1]
	}
	if p[2] > b.Max[2] {
		b.Max[2] = p[2]
	}
}
