// Package world builds the drawable scene from its description.
package world

import (
	"errors"
	"fmt"

	"github.com/Faultbox/portalview/internal/engine/lighting"
	"github.com/Faultbox/portalview/internal/engine/portal"
	"github.com/Faultbox/portalview/internal/engine/renderer"
	"github.com/Faultbox/portalview/internal/engine/texture"
	"github.com/Faultbox/portalview/internal/engine/transform"
	"github.com/Faultbox/portalview/pkg/math"
)

// ErrMissingResource is returned by Build when a mesh or texture named in the
// scene was not supplied.
var ErrMissingResource = errors.New("missing resource")

// Layer selects the passes an entity is drawn in.
type Layer uint8

const (
	// LayerMain entities are drawn in the player's view.
	LayerMain Layer = 1 << iota
	// LayerPortal entities are drawn only in views through a portal.
	LayerPortal

	LayerBoth = LayerMain | LayerPortal
)

// ParseLayer converts a layer name. The empty name is LayerMain.
func ParseLayer(s string) (Layer, error) {
	switch s {
	case "", "main":
		return LayerMain, nil
	case "portal":
		return LayerPortal, nil
	case "both":
		return LayerBoth, nil
	}
	return 0, fmt.Errorf("%w: unknown layer %q", ErrInvalidScene, s)
}

// Has reports whether l includes every bit of other.
func (l Layer) Has(other Layer) bool {
	return l&other == other
}

func (l Layer) String() string {
	switch l {
	case LayerMain:
		return "main"
	case LayerPortal:
		return "portal"
	case LayerBoth:
		return "both"
	}
	return fmt.Sprintf("Layer(%d)", uint8(l))
}

// Entity is a placed object. A portal entity shares its transform with the
// portal, so moving one moves the other.
type Entity struct {
	Name string
	*transform.Transform

	Mesh    *renderer.Mesh
	Texture *texture.Texture // nil draws the flat color
	Color   math.Vec4
	Layer   Layer

	Portal *portal.Portal
}

// World is a built scene ready to draw.
type World struct {
	Entities   []*Entity // mesh entities, scene order
	Portals    []*Entity // portal entities, scene order
	PortalMesh *renderer.Mesh
	ClearColor math.Vec3
	Light      math.Vec3 // unit vector towards the light
	Spawn      PlayerSpec
}

// Resources are the uploaded meshes and textures, keyed by file name.
type Resources struct {
	Meshes   map[string]*renderer.Mesh
	Textures map[string]*texture.Texture
}

// Build instantiates the scene and connects portals by name.
//
// A link is symmetric: "a links b" also opens b onto a, so b may leave its
// link empty or name a. Linking one portal to two different portals is an
// error. A portal may link to itself.
func Build(s *Scene, res Resources) (*World, error) {
	w := &World{
		ClearColor: vec3(s.ClearColor),
		Light:      lighting.Overhead,
		Spawn:      s.Player,
	}
	if s.Light != nil {
		w.Light = lighting.SunDirection(s.Light.Azimuth, s.Light.Elevation)
	}

	if s.PortalMesh != "" {
		m, ok := res.Meshes[s.PortalMesh]
		if !ok {
			return nil, fmt.Errorf("%w: mesh %s", ErrMissingResource, s.PortalMesh)
		}
		w.PortalMesh = m
	}

	for _, spec := range s.Entities {
		e, err := buildEntity(spec, res)
		if err != nil {
			return nil, err
		}
		w.Entities = append(w.Entities, e)
	}

	byName := make(map[string]*portal.Portal, len(s.Portals))
	for _, spec := range s.Portals {
		p := portal.New(spec.Name)
		p.Transform = spec.Pose.Transform()
		byName[spec.Name] = p
		w.Portals = append(w.Portals, &Entity{
			Name:      spec.Name,
			Transform: &p.Transform,
			Mesh:      w.PortalMesh,
			Layer:     LayerMain,
			Portal:    p,
		})
	}

	partners, err := resolveLinks(s.Portals, byName)
	if err != nil {
		return nil, err
	}
	connected := make(map[string]bool, len(partners))
	for _, spec := range s.Portals {
		other, ok := partners[spec.Name]
		if !ok || connected[spec.Name] {
			continue
		}
		portal.Connect(byName[spec.Name], byName[other])
		connected[spec.Name] = true
		connected[other] = true
	}

	return w, nil
}

func buildEntity(spec EntitySpec, res Resources) (*Entity, error) {
	mesh, ok := res.Meshes[spec.Mesh]
	if !ok {
		return nil, fmt.Errorf("entity %q: %w: mesh %s", spec.Name, ErrMissingResource, spec.Mesh)
	}
	var tex *texture.Texture
	if spec.Texture != "" {
		if tex, ok = res.Textures[spec.Texture]; !ok {
			return nil, fmt.Errorf("entity %q: %w: texture %s", spec.Name, ErrMissingResource, spec.Texture)
		}
	}
	layer, err := ParseLayer(spec.Layer)
	if err != nil {
		return nil, fmt.Errorf("entity %q: %w", spec.Name, err)
	}

	t := spec.Pose.Transform()
	return &Entity{
		Name:      spec.Name,
		Transform: &t,
		Mesh:      mesh,
		Texture:   tex,
		Color:     math.Vec4(spec.Color),
		Layer:     layer,
	}, nil
}

// resolveLinks maps every linked portal name to its partner.
func resolveLinks(specs []PortalSpec, byName map[string]*portal.Portal) (map[string]string, error) {
	partners := make(map[string]string)
	for _, spec := range specs {
		if spec.Link == "" {
			continue
		}
		if _, ok := byName[spec.Link]; !ok {
			return nil, fmt.Errorf("portal %q: %w %q", spec.Name, ErrUnknownPortal, spec.Link)
		}
		for _, pair := range [][2]string{{spec.Name, spec.Link}, {spec.Link, spec.Name}} {
			if cur, ok := partners[pair[0]]; ok && cur != pair[1] {
				return nil, fmt.Errorf("%w: %q links both %q and %q", ErrLinkConflict, pair[0], cur, pair[1])
			}
			partners[pair[0]] = pair[1]
		}
	}
	return partners, nil
}

// Visible calls fn for every mesh entity drawn in the given layer.
func (w *World) Visible(layer Layer, fn func(*Entity)) {
	for _, e := range w.Entities {
		if e.Layer.Has(layer) {
			fn(e)
		}
	}
}

// PortalList returns the portals in scene order.
func (w *World) PortalList() []*portal.Portal {
	out := make([]*portal.Portal, len(w.Portals))
	for i, e := range w.Portals {
		out[i] = e.Portal
	}
	return out
}
