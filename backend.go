package meshview

import (
	"github.com/go-gl/mathgl/mgl32"
)

type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	if s == FragmentStage {
		return "fragment"
	}
	return "vertex"
}

// UniformNotFound is the location a backend reports for a name the linked
// program does not expose.
const UniformNotFound int32 = -1

// VertexAttrib describes one float attribute inside an interleaved vertex.
// Size, Stride and Offset are in floats.
type VertexAttrib struct {
	Index  uint32
	Size   int32
	Stride int32
	Offset int32
}

// Backend is the rendering contract the viewer consumes. Object names are
// backend handles; zero is never a valid handle.
type Backend interface {
	CreateShader(stage ShaderStage) uint32
	// CompileShader returns the compile status and the info log.
	CompileShader(shader uint32, source string) (bool, string)
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	// LinkProgram returns the link status and the info log.
	LinkProgram(program uint32) (bool, string)
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	UniformLocation(program uint32, name string) int32
	UniformMat4(location int32, m mgl32.Mat4)
	UniformVec3(location int32, v mgl32.Vec3)
	UniformFloat(location int32, f float32)
	UniformInt(location int32, i int32)

	CreateVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	CreateBuffer() uint32
	DeleteBuffer(buffer uint32)
	// UploadVertices binds buffer as the array buffer and replaces its data.
	UploadVertices(buffer uint32, data []float32, dynamic bool)
	// UploadIndices binds buffer as the element buffer of the bound vertex array.
	UploadIndices(buffer uint32, data []uint32)
	EnableAttrib(attr VertexAttrib)
	DrawArrays(first, count int32)
	DrawElements(count int32)

	CreateTexture() uint32
	// UploadAlphaTexture stores a single-channel 8-bit image.
	UploadAlphaTexture(texture uint32, width, height int, pixels []byte)
	BindTexture(unit uint32, texture uint32)
	DeleteTexture(texture uint32)

	ClearColor(color mgl32.Vec4)
	Clear()
	SetDepthTest(enabled bool)
	SetBlend(enabled bool)
	Viewport(x, y, width, height int32)
}
