package shader

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/portalview/pkg/math"
)

// ErrUnknownUniform is returned for a uniform or attribute name the program
// does not declare, or that the linker optimized away.
var ErrUnknownUniform = errors.New("unknown shader input")

// Program is a linked GL program with its attribute and uniform locations
// resolved once at link time.
type Program struct {
	ID uint32

	attributes map[string]int32
	uniforms   map[string]int32
}

// Link compiles and links the sources, then looks up every attribute the
// vertex stage declares and every uniform either stage declares.
func Link(vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}

	p := &Program{
		ID:         id,
		attributes: make(map[string]int32),
		uniforms:   make(map[string]int32),
	}

	attrs, vertUniforms := ParseInterface(vertexSrc)
	_, fragUniforms := ParseInterface(fragmentSrc)

	for _, name := range attrs {
		if loc := gl.GetAttribLocation(id, gl.Str(name+"\x00")); loc >= 0 {
			p.attributes[name] = loc
		}
	}
	for _, name := range append(vertUniforms, fragUniforms...) {
		if _, ok := p.uniforms[name]; ok {
			continue
		}
		if loc := gl.GetUniformLocation(id, gl.Str(name+"\x00")); loc >= 0 {
			p.uniforms[name] = loc
		}
	}

	return p, nil
}

// Uniform returns the location of a declared, active uniform.
func (p *Program) Uniform(name string) (int32, error) {
	loc, ok := p.uniforms[name]
	if !ok {
		return -1, fmt.Errorf("uniform %q: %w", name, ErrUnknownUniform)
	}
	return loc, nil
}

// Attribute returns the location of a declared, active vertex attribute.
func (p *Program) Attribute(name string) (int32, error) {
	loc, ok := p.attributes[name]
	if !ok {
		return -1, fmt.Errorf("attribute %q: %w", name, ErrUnknownUniform)
	}
	return loc, nil
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// SetMat4 uploads a column-major matrix.
func (p *Program) SetMat4(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (p *Program) SetVec3(loc int32, v math.Vec3) {
	gl.Uniform3f(loc, v.X, v.Y, v.Z)
}

func (p *Program) SetVec4(loc int32, v math.Vec4) {
	gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
}

func (p *Program) SetInt(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (p *Program) SetFloat(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

// Delete releases the GL program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}
