package meshview

import (
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/gekko3d/meshview/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderModule draws the mesh with the lit program and the light marker with
// the basic program. Zero values select the defaults.
type RenderModule struct {
	// Backend defaults to the OpenGL backend on the current context.
	Backend Backend
	// ShaderDir, if set, holds basic.vert/.frag and lit.vert/.frag read at
	// startup instead of the embedded sources.
	ShaderDir string
	// StrictShaders makes a compile or link failure fatal at Install.
	StrictShaders bool
	// Mesh defaults to a unit cube.
	Mesh *Mesh

	ClearColor  mgl32.Vec4
	ObjectColor mgl32.Vec3
	// FovY is the vertical field of view in degrees.
	FovY      float32
	Near, Far float32
}

type Renderer struct {
	backend Backend

	lit   *ShaderProgram
	basic *ShaderProgram

	model  AssetId
	marker AssetId

	clearColor  mgl32.Vec4
	objectColor mgl32.Vec3
	fovY        float32
	near, far   float32
	aspect      float32
	projection  mgl32.Mat4
}

func (mod RenderModule) withDefaults() RenderModule {
	if mod.ClearColor == (mgl32.Vec4{}) {
		mod.ClearColor = mgl32.Vec4{0.2, 0.3, 0.3, 1.0}
	}
	if mod.ObjectColor == (mgl32.Vec3{}) {
		mod.ObjectColor = mgl32.Vec3{1.0, 0.5, 0.31}
	}
	if mod.FovY == 0 {
		mod.FovY = 90
	}
	if mod.Near == 0 {
		mod.Near = 0.01
	}
	if mod.Far == 0 {
		mod.Far = 100
	}
	if mod.Mesh == nil {
		cube := CubeMesh(1)
		mod.Mesh = &cube
	}
	return mod
}

func (mod RenderModule) Install(app *App, cmd *Commands) {
	mod = mod.withDefaults()
	logger := app.Logger()

	backend := mod.Backend
	if backend == nil {
		b, err := NewGLBackend()
		if err != nil {
			panic(err)
		}
		logger.Infof("OpenGL %s", GLVersion())
		backend = b
	}

	assets := ensureAssetServer(app)
	r, err := newRenderer(backend, logger, assets, mod)
	if err != nil {
		panic(err)
	}

	backend.SetDepthTest(true)
	backend.ClearColor(r.clearColor)

	cmd.AddResources(r, DefaultLight())
	cmd.OnShutdown(func() { assets.Release(backend) })

	app.UseSystem(
		System(projectionSystem).
			InStage(PreRender),
	)
	app.UseSystem(
		System(renderSystem).
			InStage(Render),
	)
}

func ensureAssetServer(app *App) *AssetServer {
	t := reflect.TypeOf((*AssetServer)(nil)).Elem()
	if res, ok := app.resources[t]; ok {
		return res.(*AssetServer)
	}
	assets := NewAssetServer()
	app.addResources(assets)
	return assets
}

func newRenderer(backend Backend, logger Logger, assets *AssetServer, mod RenderModule) (*Renderer, error) {
	r := &Renderer{
		backend:     backend,
		clearColor:  mod.ClearColor,
		objectColor: mod.ObjectColor,
		fovY:        mod.FovY,
		near:        mod.Near,
		far:         mod.Far,
		aspect:      1,
	}
	r.projection = r.perspective()

	var err error
	if r.lit, err = loadProgram(backend, logger, assets, mod.ShaderDir, "lit", shaders.LitVert, shaders.LitFrag); err != nil {
		return nil, err
	}
	if r.basic, err = loadProgram(backend, logger, assets, mod.ShaderDir, "basic", shaders.BasicVert, shaders.BasicFrag); err != nil {
		return nil, err
	}
	if mod.StrictShaders {
		for _, p := range []*ShaderProgram{r.lit, r.basic} {
			if p.Err() != nil {
				return nil, p.Err()
			}
		}
	}

	if r.model, err = assets.AddMesh(*mod.Mesh); err != nil {
		return nil, err
	}
	if r.marker, err = assets.AddMesh(CubeMesh(1)); err != nil {
		return nil, err
	}
	return r, nil
}

func loadProgram(backend Backend, logger Logger, assets *AssetServer, dir, name, vertexSource, fragmentSource string) (*ShaderProgram, error) {
	if dir == "" {
		p := NewShaderProgram(backend, logger, name, vertexSource, fragmentSource)
		assets.AddProgram(p)
		return p, nil
	}
	_, p, err := assets.LoadProgram(backend, logger, name,
		filepath.Join(dir, name+".vert"),
		filepath.Join(dir, name+".frag"))
	if err != nil {
		return nil, fmt.Errorf("shader dir %s: %w", dir, err)
	}
	return p, nil
}

func (r *Renderer) perspective() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(r.fovY), r.aspect, r.near, r.far)
}

func (r *Renderer) Projection() mgl32.Mat4 { return r.projection }
func (r *Renderer) Aspect() float32        { return r.aspect }
func (r *Renderer) Lit() *ShaderProgram    { return r.lit }
func (r *Renderer) Basic() *ShaderProgram  { return r.basic }
func (r *Renderer) Backend() Backend       { return r.backend }

// projectionSystem refreshes aspect, projection and the GPU viewport only on
// frames where the framebuffer size changed.
func projectionSystem(r *Renderer, viewport *Viewport) {
	if !viewport.Resized {
		return
	}
	r.aspect = viewport.Aspect()
	r.projection = r.perspective()
	r.backend.Viewport(0, 0, int32(viewport.Width), int32(viewport.Height))
}

func renderSystem(r *Renderer, session *TransformSession, light *Light, assets *AssetServer, logger Logger) {
	b := r.backend
	b.Clear()

	view := session.ViewMatrix()

	if mesh, err := assets.GpuMesh(b, r.model); err != nil {
		logger.Errorf("model mesh: %v", err)
	} else {
		r.lit.Use()
		r.lit.SetMat4("model", session.ModelMatrix())
		r.lit.SetMat4("view", view)
		r.lit.SetMat4("projection", r.projection)
		r.lit.SetVec3("objectColor", r.objectColor)
		r.lit.SetVec3("lightColor", light.Color)
		r.lit.SetVec3("lightPos", light.Position)
		r.lit.SetVec3("viewPos", session.CameraPosition())
		r.lit.SetFloat("ambientStrength", light.Ambient)
		r.lit.SetFloat("specularStrength", light.Specular)
		mesh.Draw(b)
	}

	if marker, err := assets.GpuMesh(b, r.marker); err != nil {
		logger.Errorf("light marker mesh: %v", err)
	} else {
		r.basic.Use()
		r.basic.SetMat4("model", light.MarkerMatrix())
		r.basic.SetMat4("view", view)
		r.basic.SetMat4("projection", r.projection)
		r.basic.SetVec3("color", light.Color)
		marker.Draw(b)
	}
	b.BindVertexArray(0)
}
