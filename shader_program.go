package meshview

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// ShaderCompileError reports a stage that failed to compile.
type ShaderCompileError struct {
	Program string
	Stage   ShaderStage
	Log     string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("shader %q: %s stage compile failed: %s", e.Program, e.Stage, e.Log)
}

// ShaderLinkError reports a program whose stages compiled but did not link.
type ShaderLinkError struct {
	Program string
	Log     string
}

func (e *ShaderLinkError) Error() string {
	return fmt.Sprintf("shader %q: link failed: %s", e.Program, e.Log)
}

// ShaderProgram is a linked vertex+fragment program. Construction never fails:
// a program whose stages did not compile or link still owns a real handle, and
// Err reports why it will not draw.
type ShaderProgram struct {
	name    string
	backend Backend
	logger  Logger
	handle  uint32
	linked  bool
	err     error

	locations map[string]int32
	warned    map[string]bool
}

// NewShaderProgram compiles both stages, links them only if both compiled,
// and deletes the stage objects on every path.
func NewShaderProgram(backend Backend, logger Logger, name, vertexSource, fragmentSource string) *ShaderProgram {
	if logger == nil {
		logger = NewNopLogger()
	}
	p := &ShaderProgram{
		name:      name,
		backend:   backend,
		logger:    logger,
		locations: make(map[string]int32),
		warned:    make(map[string]bool),
	}

	var errs []error
	vs, err := p.compile(VertexStage, vertexSource)
	if err != nil {
		errs = append(errs, err)
	}
	fs, err := p.compile(FragmentStage, fragmentSource)
	if err != nil {
		errs = append(errs, err)
	}

	p.handle = backend.CreateProgram()
	if len(errs) == 0 {
		backend.AttachShader(p.handle, vs)
		backend.AttachShader(p.handle, fs)
		if ok, log := backend.LinkProgram(p.handle); ok {
			p.linked = true
		} else {
			errs = append(errs, &ShaderLinkError{Program: name, Log: log})
		}
		backend.DetachShader(p.handle, vs)
		backend.DetachShader(p.handle, fs)
	}
	backend.DeleteShader(vs)
	backend.DeleteShader(fs)

	p.err = errors.Join(errs...)
	for _, e := range errs {
		logger.Errorf("%v", e)
	}
	if p.linked {
		logger.Debugf("shader %q linked as program %d", name, p.handle)
	}
	return p
}

// NewShaderProgramFromFiles reads both sources whole. Only I/O failures are
// returned; compile and link failures are reported by Err.
func NewShaderProgramFromFiles(backend Backend, logger Logger, name, vertexPath, fragmentPath string) (*ShaderProgram, error) {
	vertexSource, err := os.ReadFile(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("read vertex shader: %w", err)
	}
	fragmentSource, err := os.ReadFile(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("read fragment shader: %w", err)
	}
	return NewShaderProgram(backend, logger, name, string(vertexSource), string(fragmentSource)), nil
}

func (p *ShaderProgram) compile(stage ShaderStage, source string) (uint32, error) {
	shader := p.backend.CreateShader(stage)
	if ok, log := p.backend.CompileShader(shader, source); !ok {
		return shader, &ShaderCompileError{Program: p.name, Stage: stage, Log: log}
	}
	return shader, nil
}

func (p *ShaderProgram) Name() string   { return p.name }
func (p *ShaderProgram) Handle() uint32 { return p.handle }
func (p *ShaderProgram) Linked() bool   { return p.linked }

// Err is nil for a linked program, otherwise the joined compile/link errors.
func (p *ShaderProgram) Err() error { return p.err }

func (p *ShaderProgram) Use() {
	p.backend.UseProgram(p.handle)
}

func (p *ShaderProgram) Delete() {
	p.backend.DeleteProgram(p.handle)
}

func (p *ShaderProgram) SetMat4(name string, m mgl32.Mat4) {
	if loc, ok := p.location(name); ok {
		p.backend.UniformMat4(loc, m)
	}
}

func (p *ShaderProgram) SetVec3(name string, v mgl32.Vec3) {
	if loc, ok := p.location(name); ok {
		p.backend.UniformVec3(loc, v)
	}
}

func (p *ShaderProgram) SetFloat(name string, f float32) {
	if loc, ok := p.location(name); ok {
		p.backend.UniformFloat(loc, f)
	}
}

func (p *ShaderProgram) SetInt(name string, i int32) {
	if loc, ok := p.location(name); ok {
		p.backend.UniformInt(loc, i)
	}
}

// location caches lookups and warns once for names the program lacks.
func (p *ShaderProgram) location(name string) (int32, bool) {
	loc, ok := p.locations[name]
	if !ok {
		loc = p.backend.UniformLocation(p.handle, name)
		p.locations[name] = loc
	}
	if loc == UniformNotFound {
		if !p.warned[name] {
			p.warned[name] = true
			p.logger.Warnf("shader %q: uniform %q not found, uploads skipped", p.name, name)
		}
		return loc, false
	}
	return loc, true
}
