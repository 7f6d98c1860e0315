package meshview

import (
	"fmt"

	"github.com/gekko3d/meshview/shaders"
)

// Overlay runs after Render so the HUD is drawn over the scene.
var Overlay = Stage{Name: "Overlay"}

// HudModule draws a text readout of the transform session. Requires
// RenderModule. H toggles it.
type HudModule struct {
	FontSize float64
	Hidden   bool
}

type Hud struct {
	Visible bool
	Color   [4]float32

	atlas   *TextAtlas
	program *ShaderProgram
	texture uint32
	vao     uint32
	vbo     uint32
	count   int32
}

func (mod HudModule) Install(app *App, cmd *Commands) {
	r, ok := Resource[Renderer](app)
	if !ok {
		panic("HudModule requires RenderModule")
	}
	size := mod.FontSize
	if size == 0 {
		size = 16
	}
	atlas, err := NewMonoTextAtlas(size)
	if err != nil {
		panic(err)
	}

	b := r.Backend()
	hud := &Hud{
		Visible: !mod.Hidden,
		Color:   [4]float32{1, 1, 1, 0.9},
		atlas:   atlas,
		program: NewShaderProgram(b, app.Logger(), "hud", shaders.HudVert, shaders.HudFrag),
		texture: b.CreateTexture(),
		vao:     b.CreateVertexArray(),
		vbo:     b.CreateBuffer(),
	}
	bounds := atlas.Image.Bounds()
	b.UploadAlphaTexture(hud.texture, bounds.Dx(), bounds.Dy(), atlas.Image.Pix)

	b.BindVertexArray(hud.vao)
	b.UploadVertices(hud.vbo, nil, true)
	for _, a := range textVertexLayout {
		b.EnableAttrib(a)
	}
	b.BindVertexArray(0)

	cmd.AddResources(hud)
	cmd.OnShutdown(func() {
		hud.program.Delete()
		b.DeleteTexture(hud.texture)
		b.DeleteBuffer(hud.vbo)
		b.DeleteVertexArray(hud.vao)
	})

	app.UseStage(Overlay, AfterStage(Render))
	app.UseSystem(
		System(hudToggleSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(hudSystem).
			InStage(Overlay),
	)
}

func hudToggleSystem(input *Input, hud *Hud) {
	if input.JustPressed[KeyH] {
		hud.Visible = !hud.Visible
	}
}

func hudSystem(hud *Hud, r *Renderer, session *TransformSession, viewport *Viewport, t *Time) {
	if !hud.Visible {
		return
	}
	b := r.Backend()

	item := hudItem(hud.atlas, hudText(session, t.FPS), hud.Color, viewport.Width)
	vertices := hud.atlas.BuildVertices([]TextItem{item}, viewport.Width, viewport.Height)
	hud.count = int32(len(vertices))
	if hud.count == 0 {
		return
	}

	b.SetDepthTest(false)
	b.SetBlend(true)

	hud.program.Use()
	hud.program.SetInt("atlas", 0)
	b.BindTexture(0, hud.texture)
	b.BindVertexArray(hud.vao)
	b.UploadVertices(hud.vbo, flattenTextVertices(vertices), true)
	b.DrawArrays(0, hud.count)
	b.BindVertexArray(0)

	b.SetBlend(false)
	b.SetDepthTest(true)
}

const hudMargin = 10

// hudItem places the readout in the top-left corner and shrinks it to fit a
// framebuffer narrower than the text.
func hudItem(atlas *TextAtlas, text string, color [4]float32, width int) TextItem {
	scale := float32(1)
	avail := float32(width) - 2*hudMargin
	if w, _ := atlas.MeasureText(text, 1); w > avail && avail > 0 {
		scale = avail / w
	}
	return TextItem{
		Text:     text,
		Position: [2]float32{hudMargin, hudMargin},
		Scale:    scale,
		Color:    color,
	}
}

func hudText(s *TransformSession, fps float64) string {
	live := s.Live()
	cam := s.CameraPosition()
	return fmt.Sprintf("yaw %7.2f  pitch %7.2f\ncamera %6.2f %6.2f %6.2f\n%s / %s\n%.0f fps",
		live.Orientation.Yaw, live.Orientation.Pitch,
		cam.X(), cam.Y(), cam.Z(),
		s.State(), s.Mode(),
		fps)
}
