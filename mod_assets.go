package meshview

import (
	"fmt"

	"github.com/google/uuid"
)

type AssetId string

// AssetServer owns the meshes and shader programs of the viewer. GPU copies
// of meshes are created on first use.
type AssetServer struct {
	meshes    map[AssetId]Mesh
	gpuMeshes map[AssetId]*GpuMesh
	programs  map[AssetId]*ShaderProgram
}

type AssetServerModule struct{}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		meshes:    make(map[AssetId]Mesh),
		gpuMeshes: make(map[AssetId]*GpuMesh),
		programs:  make(map[AssetId]*ShaderProgram),
	}
}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewAssetServer())
}

func (server *AssetServer) AddMesh(m Mesh) (AssetId, error) {
	if err := m.Validate(); err != nil {
		return "", fmt.Errorf("add mesh: %w", err)
	}
	id := makeAssetId()
	server.meshes[id] = m
	return id, nil
}

func (server *AssetServer) Mesh(id AssetId) (Mesh, bool) {
	m, ok := server.meshes[id]
	return m, ok
}

// GpuMesh uploads the mesh on first request and returns the cached copy after.
func (server *AssetServer) GpuMesh(backend Backend, id AssetId) (*GpuMesh, error) {
	if g, ok := server.gpuMeshes[id]; ok {
		return g, nil
	}
	m, ok := server.meshes[id]
	if !ok {
		return nil, fmt.Errorf("mesh %s not loaded", id)
	}
	g, err := UploadMesh(backend, m)
	if err != nil {
		return nil, fmt.Errorf("upload mesh %s: %w", id, err)
	}
	server.gpuMeshes[id] = g
	return g, nil
}

func (server *AssetServer) AddProgram(p *ShaderProgram) AssetId {
	id := makeAssetId()
	server.programs[id] = p
	return id
}

// LoadProgram reads a vertex and a fragment shader file and registers the
// resulting program, linked or not.
func (server *AssetServer) LoadProgram(backend Backend, logger Logger, name, vertexPath, fragmentPath string) (AssetId, *ShaderProgram, error) {
	p, err := NewShaderProgramFromFiles(backend, logger, name, vertexPath, fragmentPath)
	if err != nil {
		return "", nil, fmt.Errorf("load program %q: %w", name, err)
	}
	return server.AddProgram(p), p, nil
}

func (server *AssetServer) Program(id AssetId) (*ShaderProgram, bool) {
	p, ok := server.programs[id]
	return p, ok
}

// Release deletes every GPU object the server created.
func (server *AssetServer) Release(backend Backend) {
	for id, g := range server.gpuMeshes {
		g.Delete(backend)
		delete(server.gpuMeshes, id)
	}
	for id, p := range server.programs {
		p.Delete()
		delete(server.programs, id)
	}
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
