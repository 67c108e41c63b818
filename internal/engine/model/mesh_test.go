package model

import (
	"testing"

	"github.com/Faultbox/portalview/pkg/formats"
)

const quad = `v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
usemtl front
f 1 2 3 4
usemtl back
f 4 3 2 1
`

func parse(t *testing.T, src string) *formats.OBJ {
	t.Helper()
	obj, err := formats.ParseOBJ([]byte(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	return obj
}

func TestFromOBJ_Groups(t *testing.T) {
	mesh := FromOBJ("double_quad", parse(t, quad), BuildOptions{})
	if mesh == nil {
		t.Fatal("FromOBJ returned nil")
	}

	if len(mesh.Vertices) != 12 || len(mesh.Indices) != 12 {
		t.Fatalf("got %d vertices, %d indices; want 12, 12", len(mesh.Vertices), len(mesh.Indices))
	}
	if len(mesh.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(mesh.Groups))
	}
	if g := mesh.Groups[1]; g.Material != "back" || g.StartIndex != 6 || g.IndexCount != 6 {
		t.Errorf("second group = %+v", g)
	}

	if mesh.Bounds.Min != [3]float32{-1, -1, 0} || mesh.Bounds.Max != [3]float32{1, 1, 0} {
		t.Errorf("Bounds = %+v", mesh.Bounds)
	}
	if c := mesh.Bounds.Center(); c != [3]float32{0, 0, 0} {
		t.Errorf("Center = %v", c)
	}
}

func TestFromOBJ_FaceNormals(t *testing.T) {
	mesh := FromOBJ("double_quad", parse(t, quad), BuildOptions{})

	if n := mesh.Vertices[0].Normal; n != [3]float32{0, 0, 1} {
		t.Errorf("front normal = %v, want (0, 0, 1)", n)
	}
	if n := mesh.Vertices[6].Normal; n != [3]float32{0, 0, -1} {
		t.Errorf("back normal = %v, want (0, 0, -1)", n)
	}
}

func TestFromOBJ_ReverseWinding(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n"
	mesh := FromOBJ("tri", parse(t, src), BuildOptions{ReverseWinding: true})

	if p := mesh.Vertices[0].Position; p != [3]float32{0, 1, 0} {
		t.Errorf("first vertex = %v, want (0, 1, 0)", p)
	}
	if n := mesh.Vertices[0].Normal; n != [3]float32{0, 0, -1} {
		t.Errorf("normal = %v, want (0, 0, -1)", n)
	}
}

func TestFromOBJ_Empty(t *testing.T) {
	if mesh := FromOBJ("empty", parse(t, "v 0 0 0\n"), BuildOptions{}); mesh != nil {
		t.Errorf("expected nil mesh, got %+v", mesh)
	}
}

func TestFromGeometry(t *testing.T) {
	obj := parse(t, quad)
	mesh := FromGeometry("front", &obj.Geometries[0], BuildOptions{})
	if mesh == nil || len(mesh.Vertices) != 6 || mesh.Groups[0].Material != "front" {
		t.Fatalf("FromGeometry = %+v", mesh)
	}
}

func TestFaceNormal(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c [3]float32
		want    [3]float32
	}{
		{"ccw in xy plane", [3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}, [3]float32{0, 0, 1}},
		{"cw in xy plane", [3]float32{0, 0, 0}, [3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}},
		{"scaled", [3]float32{0, 0, 0}, [3]float32{0, 0, 4}, [3]float32{4, 0, 0}, [3]float32{0, 1, 0}},
		{"degenerate", [3]float32{1, 1, 1}, [3]float32{1, 1, 1}, [3]float32{2, 2, 2}, [3]float32{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := faceNormal(tt.a, tt.b, tt.c); got != tt.want {
				t.Errorf("faceNormal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSmoothNormals(t *testing.T) {
	vertices := []Vertex{
		{Position: [3]float32{0, 0, 0}, Normal: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 1, 0}},
		{Position: [3]float32{5, 0, 0}, Normal: [3]float32{0, 0, 1}},
	}
	SmoothNormals(vertices)

	want := unit(vec([3]float32{1, 1, 0}))
	if vertices[0].Normal != want || vertices[1].Normal != want {
		t.Errorf("shared normals = %v, %v; want %v", vertices[0].Normal, vertices[1].Normal, want)
	}
	if vertices[2].Normal != [3]float32{0, 0, 1} {
		t.Errorf("lone normal changed to %v", vertices[2].Normal)
	}
}
