package core

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TextVertex matches the text pipeline vertex layout.
type TextVertex struct {
	Pos   [2]float32 // clip space
	UV    [2]float32
	Color [4]float32
}

// TextLine is one overlay line anchored at a pixel position (top-left origin).
type TextLine struct {
	Text  string
	X, Y  float32
	Scale float32
	Color [4]float32
}

type glyphSlot struct {
	uvMin, uvMax [2]float32
	size, off    [2]float32
	adv          float32
}

// TextAtlas rasterizes printable ASCII into a single-channel atlas for the overlay.
type TextAtlas struct {
	Image  *image.Alpha
	glyphs map[rune]glyphSlot
	face   font.Face
}

const textAtlasSize = 512

// NewTextAtlas builds an atlas from the bundled Go Regular face.
func NewTextAtlas(size float64) (*TextAtlas, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}

	atlas := &TextAtlas{
		Image:  image.NewAlpha(image.Rect(0, 0, textAtlasSize, textAtlasSize)),
		glyphs: make(map[rune]glyphSlot),
		face:   face,
	}

	x, y, rowHeight := 2, 2, 0
	for r := rune(32); r < 127; r++ {
		bounds, mask, _, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w, h := mask.Bounds().Dx(), mask.Bounds().Dy()
		if x+w >= textAtlasSize {
			x = 2
			y += rowHeight + 4
			rowHeight = 0
		}
		if y+h >= textAtlasSize {
			return nil, fmt.Errorf("glyph %q does not fit a %dpx atlas at size %.1f", r, textAtlasSize, size)
		}
		draw.Draw(atlas.Image, image.Rect(x, y, x+w, y+h), mask, mask.Bounds().Min, draw.Src)

		atlas.glyphs[r] = glyphSlot{
			uvMin: [2]float32{float32(x) / textAtlasSize, float32(y) / textAtlasSize},
			uvMax: [2]float32{float32(x+w) / textAtlasSize, float32(y+h) / textAtlasSize},
			size:  [2]float32{float32(w), float32(h)},
			off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			adv:   float32(adv) / 64,
		}
		x += w + 4
		rowHeight = max(rowHeight, h)
	}
	return atlas, nil
}

// LineHeight returns the pixel advance between lines at scale.
func (a *TextAtlas) LineHeight(scale float32) float32 {
	if a == nil {
		return 0
	}
	return float32(a.face.Metrics().Height.Ceil()) * scale
}

// Measure returns the pixel width of the longest line and the total height.
func (a *TextAtlas) Measure(text string, scale float32) (w, h float32) {
	if a == nil {
		return 0, 0
	}
	lines := 1
	cur := float32(0)
	for _, r := range text {
		if r == '\n' {
			w = max(w, cur)
			cur = 0
			lines++
			continue
		}
		if g, ok := a.glyphs[r]; ok {
			cur += g.adv * scale
		}
	}
	return max(w, cur), a.LineHeight(scale) * float32(lines)
}

// Vertices lays lines out as two triangles per glyph for a screen of the given size.
func (a *TextAtlas) Vertices(lines []TextLine, screenW, screenH int) []TextVertex {
	out := make([]TextVertex, 0, 64*6)
	if a == nil || screenW <= 0 || screenH <= 0 {
		return out
	}
	sw, sh := float32(screenW), float32(screenH)
	ascent := float32(a.face.Metrics().Ascent.Ceil())
	lineHeight := float32(a.face.Metrics().Height.Ceil())

	for _, line := range lines {
		x := line.X
		y := line.Y + ascent*line.Scale
		for _, r := range line.Text {
			if r == '\n' {
				x = line.X
				y += lineHeight * line.Scale
				continue
			}
			g, ok := a.glyphs[r]
			if !ok {
				continue
			}
			x0 := (x+g.off[0]*line.Scale)/sw*2 - 1
			y0 := 1 - (y+g.off[1]*line.Scale)/sh*2
			x1 := (x+(g.off[0]+g.size[0])*line.Scale)/sw*2 - 1
			y1 := 1 - (y+(g.off[1]+g.size[1])*line.Scale)/sh*2

			c := line.Color
			out = append(out,
				TextVertex{Pos: [2]float32{x0, y0}, UV: [2]float32{g.uvMin[0], g.uvMin[1]}, Color: c},
				TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.uvMax[0], g.uvMin[1]}, Color: c},
				TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.uvMin[0], g.uvMax[1]}, Color: c},
				TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.uvMax[0], g.uvMin[1]}, Color: c},
				TextVertex{Pos: [2]float32{x1, y1}, UV: [2]float32{g.uvMax[0], g.uvMax[1]}, Color: c},
				TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.uvMin[0], g.uvMax[1]}, Color: c},
			)
			x += g.adv * line.Scale
		}
	}
	return out
}
