package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrMalformedOBJ  = errors.New("malformed OBJ data")
	ErrOBJIndexRange = errors.New("OBJ index out of range")
)

// OBJ is a parsed Wavefront OBJ file: one Geometry per object, group or
// material run that has faces.
type OBJ struct {
	Geometries   []Geometry
	MaterialLibs []string
}

// Geometry holds triangle-list vertex data flattened per vertex.
// Position has 3 floats per vertex, TexCoord 2 and Normal 3. A stream the
// file never references is nil.
type Geometry struct {
	Object   string
	Groups   []string
	Material string

	Position []float32
	TexCoord []float32
	Normal   []float32
}

// VertexCount returns the number of vertices (three per triangle).
func (g *Geometry) VertexCount() int {
	return len(g.Position) / 3
}

// objParser holds the shared vertex pools and the geometry being filled.
type objParser struct {
	positions [][3]float32
	texCoords [][2]float32
	normals   [][3]float32

	obj     OBJ
	current *Geometry

	object   string
	groups   []string
	material string
}

// ParseOBJ parses OBJ text. Faces with more than three vertices are
// triangulated as a fan; negative indices count back from the last vertex.
func ParseOBJ(data []byte) (*OBJ, error) {
	p := &objParser{
		object:   "default",
		groups:   []string{"default"},
		material: "default",
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if err := p.parseLine(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	return &p.obj, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

func (p *objParser) parseLine(line string) error {
	fields := strings.Fields(line)
	keyword, parts := fields[0], fields[1:]
	args := strings.TrimSpace(strings.TrimPrefix(line, keyword))

	switch keyword {
	case "v":
		v, err := parseFloats(parts, 3)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, [3]float32{v[0], v[1], v[2]})
	case "vt":
		v, err := parseFloats(parts, 2)
		if err != nil {
			return err
		}
		p.texCoords = append(p.texCoords, [2]float32{v[0], v[1]})
	case "vn":
		v, err := parseFloats(parts, 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, [3]float32{v[0], v[1], v[2]})
	case "f":
		return p.parseFace(parts)
	case "o":
		p.object = args
		p.current = nil
	case "g":
		p.groups = parts
		p.current = nil
	case "usemtl":
		p.material = args
		p.current = nil
	case "mtllib":
		p.obj.MaterialLibs = append(p.obj.MaterialLibs, args)
	default:
		// s, l and unknown statements are ignored.
	}
	return nil
}

func (p *objParser) geometry() *Geometry {
	if p.current == nil {
		p.obj.Geometries = append(p.obj.Geometries, Geometry{
			Object:   p.object,
			Groups:   p.groups,
			Material: p.material,
		})
		p.current = &p.obj.Geometries[len(p.obj.Geometries)-1]
	}
	return p.current
}

func (p *objParser) parseFace(parts []string) error {
	if len(parts) < 3 {
		return fmt.Errorf("%w: face with %d vertices", ErrMalformedOBJ, len(parts))
	}

	g := p.geometry()
	for i := 1; i+1 < len(parts); i++ {
		for _, vert := range [3]string{parts[0], parts[i], parts[i+1]} {
			if err := p.addVertex(g, vert); err != nil {
				return err
			}
		}
	}
	return nil
}

// addVertex appends one v, v/vt, v//vn or v/vt/vn reference.
func (p *objParser) addVertex(g *Geometry, vert string) error {
	refs := strings.Split(vert, "/")
	if len(refs) > 3 {
		return fmt.Errorf("%w: vertex %q", ErrMalformedOBJ, vert)
	}

	for i, ref := range refs {
		if ref == "" {
			if i == 0 {
				return fmt.Errorf("%w: vertex %q has no position", ErrMalformedOBJ, vert)
			}
			continue
		}
		n, err := strconv.Atoi(ref)
		if err != nil {
			return fmt.Errorf("%w: vertex %q", ErrMalformedOBJ, vert)
		}

		switch i {
		case 0:
			idx, err := resolveIndex(n, len(p.positions))
			if err != nil {
				return err
			}
			v := p.positions[idx]
			g.Position = append(g.Position, v[0], v[1], v[2])
		case 1:
			idx, err := resolveIndex(n, len(p.texCoords))
			if err != nil {
				return err
			}
			v := p.texCoords[idx]
			g.TexCoord = append(g.TexCoord, v[0], v[1])
		case 2:
			idx, err := resolveIndex(n, len(p.normals))
			if err != nil {
				return err
			}
			v := p.normals[idx]
			g.Normal = append(g.Normal, v[0], v[1], v[2])
		}
	}
	return nil
}

// resolveIndex converts a 1-based or negative OBJ index to a slice index.
func resolveIndex(n, count int) (int, error) {
	idx := n - 1
	if n < 0 {
		idx = count + n
	}
	if n == 0 || idx < 0 || idx >= count {
		return 0, fmt.Errorf("%w: %d of %d", ErrOBJIndexRange, n, count)
	}
	return idx, nil
}

func parseFloats(parts []string, want int) ([]float32, error) {
	if len(parts) < want {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrMalformedOBJ, want, len(parts))
	}
	out := make([]float32, want)
	for i := 0; i < want; i++ {
		f, err := strconv.ParseFloat(parts[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedOBJ, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}
