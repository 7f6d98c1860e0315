package meshview

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TextVertex is 8 floats: clip-space position, atlas UV, RGBA.
type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

const textVertexFloats = 8

var textVertexLayout = []VertexAttrib{
	{Index: 0, Size: 2, Stride: textVertexFloats, Offset: 0},
	{Index: 1, Size: 2, Stride: textVertexFloats, Offset: 2},
	{Index: 2, Size: 4, Stride: textVertexFloats, Offset: 4},
}

type TextItem struct {
	Text string
	// Position is the top-left corner in framebuffer pixels, so glyphs map
	// one atlas texel to one pixel at Scale 1.
	Position [2]float32
	Scale    float32
	Color    [4]float32
}

type GlyphInfo struct {
	UVMin [2]float32
	UVMax [2]float32
	Size  [2]float32
	Off   [2]float32
	Adv   float32
}

// TextAtlas rasterises printable ASCII into a single alpha image.
type TextAtlas struct {
	Image  *image.Alpha
	Glyphs map[rune]GlyphInfo
	Face   font.Face
}

const atlasSize = 512

// NewMonoTextAtlas builds an atlas from the Go Mono font.
func NewMonoTextAtlas(fontSize float64) (*TextAtlas, error) {
	return NewTextAtlas(gomono.TTF, fontSize)
}

func NewTextAtlas(fontBytes []byte, fontSize float64) (*TextAtlas, error) {
	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}

	atlas := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	glyphs := make(map[rune]GlyphInfo)

	x, y := 2, 2
	rowHeight := 0

	for r := rune(32); r < 127; r++ {
		bounds, mask, maskp, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}

		w := bounds.Dx()
		h := bounds.Dy()

		if x+w >= atlasSize {
			x = 2
			y += rowHeight + 4
			rowHeight = 0
		}
		if y+h >= atlasSize {
			return nil, fmt.Errorf("font size %.1f does not fit a %dpx atlas", fontSize, atlasSize)
		}

		draw.Draw(atlas, image.Rect(x, y, x+w, y+h), mask, maskp, draw.Src)

		glyphs[r] = GlyphInfo{
			UVMin: [2]float32{float32(x) / atlasSize, float32(y) / atlasSize},
			UVMax: [2]float32{float32(x+w) / atlasSize, float32(y+h) / atlasSize},
			Size:  [2]float32{float32(w), float32(h)},
			Off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			Adv:   float32(adv) / 64.0,
		}

		x += w + 4
		if h > rowHeight {
			rowHeight = h
		}
	}

	return &TextAtlas{
		Image:  atlas,
		Glyphs: glyphs,
		Face:   face,
	}, nil
}

// BuildVertices lays out the items as two triangles per visible glyph.
// screenW and screenH are the framebuffer size in pixels.
func (ta *TextAtlas) BuildVertices(items []TextItem, screenW, screenH int) []TextVertex {
	vertices := make([]TextVertex, 0, len(items)*6)
	if screenW <= 0 || screenH <= 0 {
		return vertices
	}

	sw := float32(screenW)
	sh := float32(screenH)
	metrics := ta.Face.Metrics()
	ascent := float32(metrics.Ascent.Ceil())
	lineHeight := float32(metrics.Height.Ceil())

	for _, item := range items {
		scale := item.Scale
		if scale == 0 {
			scale = 1
		}
		startX := item.Position[0]
		posX := startX
		posY := item.Position[1] + ascent*scale

		for _, r := range item.Text {
			if r == '\n' {
				posX = startX
				posY += lineHeight * scale
				continue
			}

			g, ok := ta.Glyphs[r]
			if !ok {
				continue
			}
			if g.Size[0] == 0 || g.Size[1] == 0 {
				posX += g.Adv * scale
				continue
			}

			x0 := (posX+g.Off[0]*scale)/sw*2.0 - 1.0
			y0 := 1.0 - (posY+g.Off[1]*scale)/sh*2.0
			x1 := (posX+(g.Off[0]+g.Size[0])*scale)/sw*2.0 - 1.0
			y1 := 1.0 - (posY+(g.Off[1]+g.Size[1])*scale)/sh*2.0

			vertices = append(vertices,
				TextVertex{Pos: [2]float32{x0, y0}, UV: [2]float32{g.UVMin[0], g.UVMin[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.UVMax[0], g.UVMin[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.UVMin[0], g.UVMax[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.UVMax[0], g.UVMin[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x1, y1}, UV: [2]float32{g.UVMax[0], g.UVMax[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.UVMin[0], g.UVMax[1]}, Color: item.Color},
			)

			posX += g.Adv * scale
		}
	}

	return vertices
}

// MeasureText returns the width of the longest line and the total height of
// text at scale, in pixels.
func (ta *TextAtlas) MeasureText(text string, scale float32) (float32, float32) {
	if ta == nil {
		return 0, 0
	}

	lineHeight := float32(ta.Face.Metrics().Height.Ceil())

	maxW := float32(0)
	currentW := float32(0)
	lines := 1

	for _, r := range text {
		if r == '\n' {
			maxW = max(maxW, currentW)
			currentW = 0
			lines++
			continue
		}
		if g, ok := ta.Glyphs[r]; ok {
			currentW += g.Adv * scale
		}
	}

	return max(maxW, currentW), lineHeight * scale * float32(lines)
}

func flattenTextVertices(vertices []TextVertex) []float32 {
	out := make([]float32, 0, len(vertices)*textVertexFloats)
	for _, v := range vertices {
		out = append(out, v.Pos[0], v.Pos[1], v.UV[0], v.UV[1], v.Color[0], v.Color[1], v.Color[2], v.Color[3])
	}
	return out
}
