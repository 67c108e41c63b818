package world

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/portalview/internal/engine/transform"
	"github.com/Faultbox/portalview/pkg/math"
)

// Scene description errors.
var (
	ErrInvalidScene  = errors.New("invalid scene")
	ErrUnknownPortal = errors.New("unknown portal")
	ErrLinkConflict  = errors.New("conflicting portal links")
)

// Scene is the on-disk description of a world.
type Scene struct {
	ClearColor [3]float32   `yaml:"clear_color"`
	PortalMesh string       `yaml:"portal_mesh"`
	Light      *LightSpec   `yaml:"light,omitempty"`
	Player     PlayerSpec   `yaml:"player"`
	Entities   []EntitySpec `yaml:"entities"`
	Portals    []PortalSpec `yaml:"portals"`
}

// Pose is a position, Euler rotation (pitch, yaw, roll) and scale.
// A missing scale means unit scale.
type Pose struct {
	Position [3]float32  `yaml:"position"`
	Rotation [3]float32  `yaml:"rotation"`
	Scale    *[3]float32 `yaml:"scale,omitempty"`
}

// Transform converts the pose.
func (p Pose) Transform() transform.Transform {
	t := transform.New()
	t.Position = vec3(p.Position)
	t.Rotation = vec3(p.Rotation)
	if p.Scale != nil {
		t.Scale = vec3(*p.Scale)
	}
	return t
}

// LightSpec places the directional light, in degrees.
type LightSpec struct {
	Azimuth   float32 `yaml:"azimuth"`
	Elevation float32 `yaml:"elevation"`
}

// PlayerSpec places the player at startup.
type PlayerSpec struct {
	Position [3]float32 `yaml:"position"`
	Yaw      float32    `yaml:"yaw"`
	Pitch    float32    `yaml:"pitch"`
}

// EntitySpec describes a drawn mesh.
type EntitySpec struct {
	Name    string     `yaml:"name"`
	Mesh    string     `yaml:"mesh"`
	Texture string     `yaml:"texture,omitempty"`
	Color   [4]float32 `yaml:"color"`
	Layer   string     `yaml:"layer,omitempty"`
	Pose    `yaml:",inline"`
}

// PortalSpec describes a portal. Link names the portal it opens onto and
// may name the portal itself.
type PortalSpec struct {
	Name string `yaml:"name"`
	Link string `yaml:"link,omitempty"`
	Pose `yaml:",inline"`
}

// ParseScene decodes and checks a scene description.
func ParseScene(data []byte) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks names, references and scales. Portal links are resolved
// by Build.
func (s *Scene) Validate() error {
	if s.PortalMesh == "" && len(s.Portals) > 0 {
		return fmt.Errorf("%w: portals need a portal_mesh", ErrInvalidScene)
	}

	names := make(map[string]bool)
	claim := func(kind, name string) error {
		if name == "" {
			return fmt.Errorf("%w: %s without a name", ErrInvalidScene, kind)
		}
		if names[name] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidScene, name)
		}
		names[name] = true
		return nil
	}

	for _, e := range s.Entities {
		if err := claim("entity", e.Name); err != nil {
			return err
		}
		if e.Mesh == "" {
			return fmt.Errorf("%w: entity %q has no mesh", ErrInvalidScene, e.Name)
		}
		if _, err := ParseLayer(e.Layer); err != nil {
			return fmt.Errorf("entity %q: %w", e.Name, err)
		}
		if err := checkScale(e.Name, e.Scale); err != nil {
			return err
		}
	}
	for _, p := range s.Portals {
		if err := claim("portal", p.Name); err != nil {
			return err
		}
		if err := checkScale(p.Name, p.Scale); err != nil {
			return err
		}
	}
	return nil
}

func checkScale(name string, scale *[3]float32) error {
	if scale == nil {
		return nil
	}
	for _, c := range scale {
		if c == 0 {
			return fmt.Errorf("%w: %q has a zero scale component", ErrInvalidScene, name)
		}
	}
	return nil
}

// MeshFiles returns every mesh file the scene references, sorted and unique.
func (s *Scene) MeshFiles() []string {
	files := make([]string, 0, len(s.Entities)+1)
	if s.PortalMesh != "" {
		files = append(files, s.PortalMesh)
	}
	for _, e := range s.Entities {
		files = append(files, e.Mesh)
	}
	return unique(files)
}

// TextureFiles returns every texture file the scene references, sorted and unique.
func (s *Scene) TextureFiles() []string {
	var files []string
	for _, e := range s.Entities {
		if e.Texture != "" {
			files = append(files, e.Texture)
		}
	}
	return unique(files)
}

func unique(in []string) []string {
	sort.Strings(in)
	out := in[:0]
	for i, s := range in {
		if i == 0 || s != in[i-1] {
			out = append(out, s)
		}
	}
	return out
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
