// Package opengl wraps the handful of GL 3.3 core objects the editor
// draws with. Every call must happen on the main thread.
package opengl

import (
	"strings"

	gl "github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// Program is a linked shader program with a location cache so uniform
// lookups don't hit the driver every frame.
type Program struct {
	id       uint32
	uniforms map[string]int32
}

// NewProgram compiles and links a vertex/fragment pair.
func NewProgram(vertexSource, fragmentSource string) (*Program, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, errors.Wrapf(err, "vertex stage")
	}
	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return nil, errors.Wrapf(err, "fragment stage")
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		return nil, errors.Errorf("failed to link program: %v", logText)
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return &Program{id: program, uniforms: make(map[string]int32)}, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		return 0, errors.Errorf("failed to compile shader: %v", logText)
	}
	return shader, nil
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

func (p *Program) uniformLocation(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// SetMat4 uploads a column major 4x4 matrix.
func (p *Program) SetMat4(name string, m *[16]float32) {
	gl.UniformMatrix4fv(p.uniformLocation(name), 1, false, &m[0])
}

// SetInt sets an int uniform, typically a sampler unit.
func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.uniformLocation(name), v)
}

// SetVec4 sets a vec4 uniform.
func (p *Program) SetVec4(name string, x, y, z, w float32) {
	gl.Uniform4f(p.uniformLocation(name), x, y, z, w)
}

// Destroy deletes the program object.
func (p *Program) Destroy() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
