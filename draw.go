package gallery

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// DrawContext is the abstract 2D drawing surface nodes and the overlay draw
// onto: paths, strokes, fills and text only. Coordinates are screen pixels.
type DrawContext interface {
	SetAlpha(a float64)
	SetStrokeColor(c Color)
	SetFillColor(c Color)
	SetLineWidth(w float64)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	Stroke()
	Fill()
	// FillText draws s with its baseline starting at (x, y).
	FillText(s string, x, y float64)
}

const defaultFontSize = 13

// Canvas implements DrawContext on an *ebiten.Image.
type Canvas struct {
	dst       *ebiten.Image
	face      *text.GoTextFace
	alpha     float64
	stroke    Color
	fill      Color
	lineWidth float64

	subpaths [][]Vec2
	closed   []bool

	vertices []ebiten.Vertex
	indices  []uint16
}

var _ DrawContext = (*Canvas)(nil)

// whitePixel is a 1x1 white image used as the source for filled triangles.
// Created lazily so importing the package does not require a graphics driver.
var whitePixel *ebiten.Image

func solidSource() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.toRGBA())
	}
	return whitePixel
}

// NewCanvas creates a canvas using the Go Regular font at the given size.
// A size of 0 uses the default.
func NewCanvas(size float64) (*Canvas, error) {
	if size <= 0 {
		size = defaultFontSize
	}
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("gallery: failed to load overlay font: %w", err)
	}
	return &Canvas{
		face:      &text.GoTextFace{Source: source, Size: size},
		alpha:     1,
		stroke:    ColorWhite,
		fill:      ColorWhite,
		lineWidth: 1.5,
	}, nil
}

// Begin sets the target image for subsequent drawing and resets the state.
func (c *Canvas) Begin(dst *ebiten.Image) {
	c.dst = dst
	c.alpha = 1
	c.stroke = ColorWhite
	c.fill = ColorWhite
	c.BeginPath()
}

func (c *Canvas) SetAlpha(a float64)      { c.alpha = clamp01(a) }
func (c *Canvas) SetStrokeColor(col Color) { c.stroke = col }
func (c *Canvas) SetFillColor(col Color)   { c.fill = col }
func (c *Canvas) SetLineWidth(w float64)   { c.lineWidth = w }

// BeginPath discards the current path.
func (c *Canvas) BeginPath() {
	c.subpaths = c.subpaths[:0]
	c.closed = c.closed[:0]
}

// MoveTo starts a new subpath.
func (c *Canvas) MoveTo(x, y float64) {
	c.subpaths = append(c.subpaths, []Vec2{{X: x, Y: y}})
	c.closed = append(c.closed, false)
}

// LineTo extends the current subpath, starting one if there is none.
func (c *Canvas) LineTo(x, y float64) {
	if len(c.subpaths) == 0 {
		c.MoveTo(x, y)
		return
	}
	i := len(c.subpaths) - 1
	c.subpaths[i] = append(c.subpaths[i], Vec2{X: x, Y: y})
}

// ClosePath closes the current subpath.
func (c *Canvas) ClosePath() {
	if len(c.closed) > 0 {
		c.closed[len(c.closed)-1] = true
	}
}

func (c *Canvas) withAlpha(col Color) Color {
	col.A *= c.alpha
	return col
}

// Stroke draws every segment of the current path.
func (c *Canvas) Stroke() {
	if c.dst == nil {
		return
	}
	clr := c.withAlpha(c.stroke).toRGBA()
	w := float32(c.lineWidth)
	for i, pts := range c.subpaths {
		for j := 1; j < len(pts); j++ {
			vector.StrokeLine(c.dst, float32(pts[j-1].X), float32(pts[j-1].Y),
				float32(pts[j].X), float32(pts[j].Y), w, clr, true)
		}
		if c.closed[i] && len(pts) > 2 {
			last := pts[len(pts)-1]
			vector.StrokeLine(c.dst, float32(last.X), float32(last.Y),
				float32(pts[0].X), float32(pts[0].Y), w, clr, true)
		}
	}
}

// Fill fills each subpath as a triangle fan. Subpaths are expected to be
// convex, which holds for projected quads and prompt boxes.
func (c *Canvas) Fill() {
	if c.dst == nil {
		return
	}
	col := c.withAlpha(c.fill)
	r, g, b, a := float32(col.R*col.A), float32(col.G*col.A), float32(col.B*col.A), float32(col.A)
	for _, pts := range c.subpaths {
		if len(pts) < 3 {
			continue
		}
		c.vertices = c.vertices[:0]
		c.indices = c.indices[:0]
		for _, p := range pts {
			c.vertices = append(c.vertices, ebiten.Vertex{
				DstX: float32(p.X), DstY: float32(p.Y),
				SrcX: 0.5, SrcY: 0.5,
				ColorR: r, ColorG: g, ColorB: b, ColorA: a,
			})
		}
		for k := 1; k < len(pts)-1; k++ {
			c.indices = append(c.indices, 0, uint16(k), uint16(k+1))
		}
		c.dst.DrawTriangles(c.vertices, c.indices, solidSource(), nil)
	}
}

// FillText draws s with its baseline at (x, y).
func (c *Canvas) FillText(s string, x, y float64) {
	if c.dst == nil || s == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y-c.face.Metrics().HAscent)
	col := c.withAlpha(c.fill)
	op.ColorScale.Scale(float32(col.R*col.A), float32(col.G*col.A), float32(col.B*col.A), float32(col.A))
	text.Draw(c.dst, s, c.face, op)
}

// MeasureText returns the width and height of s in the canvas font.
func (c *Canvas) MeasureText(s string) (w, h float64) {
	m := c.face.Metrics()
	return text.Measure(s, c.face, m.HAscent+m.HDescent+m.HLineGap)
}
