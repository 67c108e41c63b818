// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/portalview/internal/engine/model"
	"github.com/Faultbox/portalview/internal/engine/renderer/shaders"
	"github.com/Faultbox/portalview/internal/engine/shader"
	"github.com/Faultbox/portalview/internal/engine/texture"
	"github.com/Faultbox/portalview/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	VSync  bool
}

// Mesh is a model uploaded to the GPU.
type Mesh struct {
	Name       string
	Bounds     model.Bounds
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// meshUniforms holds the locations used by the mesh program.
type meshUniforms struct {
	mvp, mv, world, lightDir, diffuse, texture int32
}

type portalUniforms struct {
	mvp, texture, linked, inertColor int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	meshProgram    *shader.Program
	portalProgram  *shader.Program
	overlayProgram *shader.Program

	meshLoc    meshUniforms
	portalLoc  portalUniforms
	overlayTex int32

	portalQuad *Mesh
	overlayVAO uint32
	white      *texture.Texture

	// LightDirection is the normalized direction towards the light.
	LightDirection math.Vec3
	// InertColor fills portal faces that lead nowhere.
	InertColor math.Vec4
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		config:         cfg,
		log:            log,
		LightDirection: math.Vec3{Y: 1},
		InertColor:     math.Vec4{0.15, 0.15, 0.2, 1},
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	if err := r.linkPrograms(); err != nil {
		r.Close()
		return nil, err
	}

	// Core profile needs a bound VAO even for attribute-less draws.
	gl.GenVertexArrays(1, &r.overlayVAO)
	r.white = texture.New()

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

func (r *Renderer) linkPrograms() error {
	var err error

	r.meshProgram, err = shader.Link(shaders.MeshVertexShader, shaders.MeshFragmentShader)
	if err != nil {
		return fmt.Errorf("mesh shader: %w", err)
	}
	r.portalProgram, err = shader.Link(shaders.PortalVertexShader, shaders.PortalFragmentShader)
	if err != nil {
		return fmt.Errorf("portal shader: %w", err)
	}
	r.overlayProgram, err = shader.Link(shaders.OverlayVertexShader, shaders.OverlayFragmentShader)
	if err != nil {
		return fmt.Errorf("overlay shader: %w", err)
	}

	u := uniformLookup{}
	r.meshLoc = meshUniforms{
		mvp:      u.get(r.meshProgram, "u_mvp"),
		mv:       u.get(r.meshProgram, "u_mv"),
		world:    u.get(r.meshProgram, "u_world"),
		lightDir: u.get(r.meshProgram, "u_lightDirection"),
		diffuse:  u.get(r.meshProgram, "u_diffuse"),
		texture:  u.get(r.meshProgram, "u_texture"),
	}
	r.portalLoc = portalUniforms{
		mvp:        u.get(r.portalProgram, "u_mvp"),
		texture:    u.get(r.portalProgram, "u_texture"),
		linked:     u.get(r.portalProgram, "u_linked"),
		inertColor: u.get(r.portalProgram, "u_inertColor"),
	}
	r.overlayTex = u.get(r.overlayProgram, "u_texture")
	if u.err != nil {
		return u.err
	}

	r.log.Debug("shader programs linked",
		zap.Uint32("mesh", r.meshProgram.ID),
		zap.Uint32("portal", r.portalProgram.ID),
		zap.Uint32("overlay", r.overlayProgram.ID),
	)
	return nil
}

// uniformLookup keeps the first lookup error so locations can be resolved in a block.
type uniformLookup struct {
	err error
}

func (u *uniformLookup) get(p *shader.Program, name string) int32 {
	loc, err := p.Uniform(name)
	if err != nil && u.err == nil {
		u.err = err
	}
	return loc
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, p := range []*shader.Program{r.meshProgram, r.portalProgram, r.overlayProgram} {
		if p != nil {
			p.Delete()
		}
	}
	if r.overlayVAO != 0 {
		gl.DeleteVertexArrays(1, &r.overlayVAO)
	}
	if r.white != nil {
		r.white.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (width, height int) {
	return r.config.Width, r.config.Height
}

// Begin starts a new frame, clearing the default framebuffer.
func (r *Renderer) Begin(red, green, blue float32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	gl.ClearColor(red, green, blue, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// UploadMesh copies mesh data to the GPU.
func (r *Renderer) UploadMesh(m *model.Mesh) (*Mesh, error) {
	if m == nil || len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return nil, fmt.Errorf("uploading mesh: empty mesh")
	}

	gm := &Mesh{Name: m.Name, Bounds: m.Bounds}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	vertexSize := int(unsafe.Sizeof(model.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*vertexSize, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gm.indexCount = int32(len(m.Indices))
	gl.BindVertexArray(0)

	r.log.Debug("mesh uploaded",
		zap.String("name", m.Name),
		zap.Int("vertices", len(m.Vertices)),
		zap.Uint32("vao", gm.vao),
	)
	return gm, nil
}

// DeleteMesh releases the GPU buffers of a mesh.
func (r *Renderer) DeleteMesh(m *Mesh) {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteVertexArrays(1, &m.vao)
	m.vao, m.vbo, m.ebo = 0, 0, 0
}

// SetPortalMesh sets the quad drawn for every portal.
func (r *Renderer) SetPortalMesh(m *Mesh) {
	r.portalQuad = m
}

// DrawMesh draws a lit mesh. A nil texture draws the flat color.
func (r *Renderer) DrawMesh(m *Mesh, viewProj, world, worldToLocal math.Mat4, color math.Vec4, tex *texture.Texture) {
	p := r.meshProgram
	p.Use()

	p.SetMat4(r.meshLoc.mvp, viewProj.Mul(world))
	p.SetMat4(r.meshLoc.mv, worldToLocal.Transpose())
	p.SetMat4(r.meshLoc.world, world)
	p.SetVec3(r.meshLoc.lightDir, r.LightDirection)
	p.SetVec4(r.meshLoc.diffuse, color)

	if tex == nil {
		tex = r.white
	}
	tex.Bind(0)
	p.SetInt(r.meshLoc.texture, 0)

	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// DrawPortal draws the portal quad. A linked quad samples the texture bound
// on unit 0 in screen space; an unlinked one is filled with InertColor.
func (r *Renderer) DrawPortal(mvp math.Mat4, linked bool) {
	if r.portalQuad == nil {
		return
	}

	p := r.portalProgram
	p.Use()
	p.SetMat4(r.portalLoc.mvp, mvp)
	p.SetInt(r.portalLoc.texture, 0)
	p.SetVec4(r.portalLoc.inertColor, r.InertColor)
	if linked {
		p.SetInt(r.portalLoc.linked, 1)
	} else {
		p.SetInt(r.portalLoc.linked, 0)
	}

	gl.BindVertexArray(r.portalQuad.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, r.portalQuad.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// DrawOverlay blends a full-screen texture over the frame.
func (r *Renderer) DrawOverlay(tex *texture.Texture) {
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r.overlayProgram.Use()
	tex.Bind(0)
	r.overlayProgram.SetInt(r.overlayTex, 0)

	gl.BindVertexArray(r.overlayVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

// ReadPixels reads the default framebuffer as tightly packed RGBA rows,
// bottom row first.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	if width <= 0 || height <= 0 {
		return nil, 0, 0
	}
	pixels = make([]byte, width*height*4)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, width, height
}
