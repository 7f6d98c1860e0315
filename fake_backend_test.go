package meshview

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// fakeBackend records what the viewer asks of the GPU. Sources containing
// "syntax error" fail to compile; failLink makes every link fail. Only names
// listed in uniforms resolve to a location.
type fakeBackend struct {
	next     uint32
	failLink bool
	uniforms map[string]bool

	created  map[uint32]ShaderStage
	deleted  []uint32
	attached map[uint32][]uint32
	detached []uint32
	linked   []uint32
	programs []uint32
	deletedP []uint32
	used     []uint32

	locNames   map[int32]string
	locProgram map[int32]uint32
	lookups    map[string]int
	progMat4   map[programUniform]mgl32.Mat4
	mat4       map[string]mgl32.Mat4
	vec3       map[string]mgl32.Vec3
	floats     map[string]float32
	ints       map[string]int32

	viewports [][4]int32
	draws     []int32
	clears    int
	depthTest bool
	blend     bool
	textures  []uint32
	calls     []string
}

var _ Backend = (*fakeBackend)(nil)

type programUniform struct {
	program uint32
	name    string
}

func newFakeBackend(uniforms ...string) *fakeBackend {
	f := &fakeBackend{
		uniforms:   make(map[string]bool),
		created:    make(map[uint32]ShaderStage),
		attached:   make(map[uint32][]uint32),
		locNames:   make(map[int32]string),
		locProgram: make(map[int32]uint32),
		lookups:    make(map[string]int),
		progMat4:   make(map[programUniform]mgl32.Mat4),
		mat4:       make(map[string]mgl32.Mat4),
		vec3:       make(map[string]mgl32.Vec3),
		floats:     make(map[string]float32),
		ints:       make(map[string]int32),
	}
	for _, u := range uniforms {
		f.uniforms[u] = true
	}
	return f
}

func (f *fakeBackend) id() uint32 {
	f.next++
	return f.next
}

func (f *fakeBackend) CreateShader(stage ShaderStage) uint32 {
	s := f.id()
	f.created[s] = stage
	return s
}

func (f *fakeBackend) CompileShader(shader uint32, source string) (bool, string) {
	if strings.Contains(source, "syntax error") {
		return false, "0:1(1): error: syntax error"
	}
	return true, ""
}

func (f *fakeBackend) DeleteShader(shader uint32) {
	f.deleted = append(f.deleted, shader)
}

func (f *fakeBackend) CreateProgram() uint32 {
	p := f.id()
	f.programs = append(f.programs, p)
	return p
}

func (f *fakeBackend) AttachShader(program, shader uint32) {
	f.attached[program] = append(f.attached[program], shader)
}

func (f *fakeBackend) DetachShader(program, shader uint32) {
	f.detached = append(f.detached, shader)
}

func (f *fakeBackend) LinkProgram(program uint32) (bool, string) {
	f.linked = append(f.linked, program)
	if f.failLink {
		return false, "error: vertex output does not match fragment input"
	}
	return true, ""
}

func (f *fakeBackend) UseProgram(program uint32) {
	f.used = append(f.used, program)
	f.calls = append(f.calls, "use")
}

func (f *fakeBackend) DeleteProgram(program uint32) {
	f.deletedP = append(f.deletedP, program)
}

func (f *fakeBackend) UniformLocation(program uint32, name string) int32 {
	f.lookups[name]++
	if !f.uniforms[name] {
		return UniformNotFound
	}
	loc := int32(len(f.locNames))
	f.locNames[loc] = name
	f.locProgram[loc] = program
	return loc
}

func (f *fakeBackend) UniformMat4(location int32, m mgl32.Mat4) {
	f.mat4[f.locNames[location]] = m
	f.progMat4[programUniform{f.locProgram[location], f.locNames[location]}] = m
	f.calls = append(f.calls, "mat4:"+f.locNames[location])
}

func (f *fakeBackend) UniformVec3(location int32, v mgl32.Vec3) {
	f.vec3[f.locNames[location]] = v
}

func (f *fakeBackend) UniformFloat(location int32, v float32) {
	f.floats[f.locNames[location]] = v
}

func (f *fakeBackend) UniformInt(location int32, v int32) {
	f.ints[f.locNames[location]] = v
}

func (f *fakeBackend) CreateVertexArray() uint32                           { return f.id() }
func (f *fakeBackend) BindVertexArray(vao uint32)                          {}
func (f *fakeBackend) DeleteVertexArray(vao uint32)                        {}
func (f *fakeBackend) CreateBuffer() uint32                                { return f.id() }
func (f *fakeBackend) DeleteBuffer(buffer uint32)                          {}
func (f *fakeBackend) UploadVertices(buffer uint32, d []float32, dyn bool) {}
func (f *fakeBackend) UploadIndices(buffer uint32, data []uint32)          {}
func (f *fakeBackend) EnableAttrib(attr VertexAttrib)                      {}

func (f *fakeBackend) DrawArrays(first, count int32) {
	f.draws = append(f.draws, count)
	f.calls = append(f.calls, "draw")
}

func (f *fakeBackend) DrawElements(count int32) {
	f.draws = append(f.draws, count)
	f.calls = append(f.calls, "draw")
}

func (f *fakeBackend) CreateTexture() uint32 {
	t := f.id()
	f.textures = append(f.textures, t)
	return t
}

func (f *fakeBackend) UploadAlphaTexture(texture uint32, width, height int, pixels []byte) {}
func (f *fakeBackend) BindTexture(unit uint32, texture uint32)                             {}
func (f *fakeBackend) DeleteTexture(texture uint32)                                        {}
func (f *fakeBackend) ClearColor(color mgl32.Vec4)                                         {}

func (f *fakeBackend) Clear() {
	f.clears++
	f.calls = append(f.calls, "clear")
}

func (f *fakeBackend) SetDepthTest(enabled bool) { f.depthTest = enabled }
func (f *fakeBackend) SetBlend(enabled bool)     { f.blend = enabled }

func (f *fakeBackend) Viewport(x, y, width, height int32) {
	f.viewports = append(f.viewports, [4]int32{x, y, width, height})
}

// allUniforms lists every uniform the embedded shaders declare.
var allUniforms = []string{
	"model", "view", "projection", "color",
	"objectColor", "lightColor", "lightPos", "viewPos", "ambientStrength", "specularStrength",
	"atlas",
}
