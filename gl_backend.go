package meshview

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// glBackend implements Backend on the OpenGL context current on the calling
// thread.
type glBackend struct{}

var _ Backend = glBackend{}

// NewGLBackend loads the OpenGL function pointers. A context must be current.
func NewGLBackend() (Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	return glBackend{}, nil
}

// GLVersion reports the driver version string.
func GLVersion() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (glBackend) CreateShader(stage ShaderStage) uint32 {
	if stage == FragmentStage {
		return gl.CreateShader(gl.FRAGMENT_SHADER)
	}
	return gl.CreateShader(gl.VERTEX_SHADER)
}

func (glBackend) CompileShader(shader uint32, source string) (bool, string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (glBackend) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (glBackend) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (glBackend) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (glBackend) DetachShader(program, shader uint32) {
	gl.DetachShader(program, shader)
}

func (glBackend) LinkProgram(program uint32) (bool, string) {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (glBackend) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (glBackend) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (glBackend) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (glBackend) UniformMat4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (glBackend) UniformVec3(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (glBackend) UniformFloat(location int32, f float32) {
	gl.Uniform1f(location, f)
}

func (glBackend) UniformInt(location int32, i int32) {
	gl.Uniform1i(location, i)
}

func (glBackend) CreateVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (glBackend) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (glBackend) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (glBackend) CreateBuffer() uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	return buffer
}

func (glBackend) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (glBackend) UploadVertices(buffer uint32, data []float32, dynamic bool) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	usage := uint32(gl.STATIC_DRAW)
	if dynamic {
		usage = gl.DYNAMIC_DRAW
	}
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, usage)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), usage)
}

func (glBackend) UploadIndices(buffer uint32, data []uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buffer)
	if len(data) == 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (glBackend) EnableAttrib(attr VertexAttrib) {
	gl.VertexAttribPointerWithOffset(attr.Index, attr.Size, gl.FLOAT, false, attr.Stride*4, uintptr(attr.Offset*4))
	gl.EnableVertexAttribArray(attr.Index)
}

func (glBackend) DrawArrays(first, count int32) {
	gl.DrawArrays(gl.TRIANGLES, first, count)
}

func (glBackend) DrawElements(count int32) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, count, gl.UNSIGNED_INT, 0)
}

func (glBackend) CreateTexture() uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	return texture
}

func (glBackend) UploadAlphaTexture(texture uint32, width, height int, pixels []byte) {
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(width), int32(height), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}

func (glBackend) BindTexture(unit uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (glBackend) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (glBackend) ClearColor(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

func (glBackend) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (glBackend) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (glBackend) SetBlend(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}
}

func (glBackend) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}
