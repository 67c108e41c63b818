// Package shader compiles GLSL programs and resolves their inputs by name.
package shader

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Build errors. The GL info log is appended to the message.
var (
	ErrCompile = errors.New("shader compile failed")
	ErrLink    = errors.New("program link failed")
)

// stage is one shader of a program.
type stage struct {
	kind uint32
	name string
	src  string
}

// CompileProgram compiles both stages and links them, returning the GL
// program ID. Shader objects are released once linked.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	stages := []stage{
		{gl.VERTEX_SHADER, "vertex", vertexSrc},
		{gl.FRAGMENT_SHADER, "fragment", fragmentSrc},
	}

	program := gl.CreateProgram()
	for _, st := range stages {
		id, err := compile(st)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, err
		}
		gl.AttachShader(program, id)
		defer gl.DeleteShader(id)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w: %s", ErrLink, msg)
	}
	return program, nil
}

func compile(st stage) (uint32, error) {
	id := gl.CreateShader(st.kind)
	csource, free := gl.Strs(st.src + "\x00")
	gl.ShaderSource(id, 1, csource, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(id, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(id)
		return 0, fmt.Errorf("%s %w: %s", st.name, ErrCompile, annotate(msg, st.src))
	}
	return id, nil
}

func infoLog(id uint32,
	param func(uint32, uint32, *int32),
	read func(uint32, int32, *int32, *uint8),
) string {
	var n int32
	param(id, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return "(no info log)"
	}
	buf := make([]byte, n)
	read(id, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n ")
}

// Drivers report "0:12(5): error" (Mesa) or "ERROR: 0:12: ..." (most others).
var logLine = regexp.MustCompile(`\b\d+:(\d+)[(:]`)

// annotate appends the source line the first error points at.
func annotate(msg, src string) string {
	m := logLine.FindStringSubmatch(msg)
	if m == nil {
		return msg
	}
	n, err := strconv.Atoi(m[1])
	lines := strings.Split(src, "\n")
	if err != nil || n < 1 || n > len(lines) {
		return msg
	}
	return fmt.Sprintf("%s\n  line %d: %s", msg, n, strings.TrimSpace(lines[n-1]))
}
